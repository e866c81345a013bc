package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
)

func TestNew_defaults(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:11434/"})
	if c.Endpoint() != "http://localhost:11434/api/generate" {
		t.Errorf("Endpoint() = %q", c.Endpoint())
	}
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
}

func TestGenerate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"model":"llama3","response":"feat: add x\n","done":true}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Model: "llama3", Temperature: 0.2})
	out, err := c.Generate(context.Background(), "describe this")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "feat: add x\n" {
		t.Errorf("Generate() = %q, want raw text", out)
	}
	if got.Prompt != "describe this" || got.Model != "llama3" || got.Stream {
		t.Errorf("request = %+v", got)
	}
}

func TestGenerate_errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantEmpty  bool
	}{
		{name: "status_500", status: http.StatusInternalServerError, body: "boom", wantStatus: 500},
		{name: "status_404", status: http.StatusNotFound, body: `{"error":"model not found"}`, wantStatus: 404},
		{name: "invalid_json", status: http.StatusOK, body: `{`},
		{name: "backend_error", status: http.StatusOK, body: `{"error":"out of memory"}`},
		{name: "empty_response", status: http.StatusOK, body: `{"response":"","done":true}`, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(Config{BaseURL: srv.URL}).Generate(context.Background(), "p")
			var pe *ai.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ai.ProviderError", err)
			}
			if pe.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", pe.StatusCode, tt.wantStatus)
			}
			if tt.wantEmpty && !errors.Is(err, ai.ErrEmptyResponse) {
				t.Errorf("err = %v, want ErrEmptyResponse", err)
			}
		})
	}
}

func TestGenerate_unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(Config{BaseURL: url}).Generate(context.Background(), "p")
	var pe *ai.ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != 0 {
		t.Fatalf("err = %v, want transport ProviderError", err)
	}
}
