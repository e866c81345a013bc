package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
)

func TestGenerate_chat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"docs: update readme"}},{"index":1,"message":{"role":"assistant","content":"other"}}]}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "gpt-4o"})
	if c.Endpoint() != srv.URL+"/v1/chat/completions" {
		t.Errorf("Endpoint() = %q", c.Endpoint())
	}
	out, err := c.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "docs: update readme" {
		t.Errorf("Generate() = %q, want first choice", out)
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v, want one user message", body["messages"])
	}
	if m := msgs[0].(map[string]any); m["role"] != "user" || m["content"] != "the prompt" {
		t.Errorf("message = %v", m)
	}
}

func TestGenerate_completion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c2","object":"text_completion","choices":[{"index":0,"text":"chore: bump deps"}]}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/v1", Model: "gpt-3.5-turbo-instruct", MaxTokens: 64})
	out, err := c.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "chore: bump deps" {
		t.Errorf("Generate() = %q", out)
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
		{
			name:       "api_error",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non_json_error_page",
			status:     http.StatusBadGateway,
			body:       "<html>bad gateway</html>",
			wantStatus: http.StatusBadGateway,
		},
		{
			name:      "empty_choices",
			status:    http.StatusOK,
			body:      `{"id":"c3","choices":[]}`,
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(Config{BaseURL: srv.URL, APIKey: "k"}).Generate(context.Background(), "p")
			var pe *ai.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ai.ProviderError", err)
			}
			if pe.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", pe.StatusCode, tt.wantStatus)
			}
			if tt.wantEmpty != errors.Is(err, ai.ErrEmptyResponse) {
				t.Errorf("errors.Is(ErrEmptyResponse) mismatch: %v", err)
			}
			var apiErr *goopenai.APIError
			var reqErr *goopenai.RequestError
			if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
				t.Errorf("go-openai error type reachable through %v", err)
			}
		})
	}
}
