package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
)

func TestGenerate(t *testing.T) {
	var got messageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "key-123" {
			t.Errorf("x-api-key header = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"content":[{"type":"text","text":"fix: first"},{"type":"text","text":"second"}]}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "key-123", Model: "claude-x"})
	out, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "fix: first" {
		t.Errorf("Generate() = %q, want first content block", out)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content[0].Text != "hello" {
		t.Errorf("request messages = %+v", got.Messages)
	}
	if got.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want default 1024", got.MaxTokens)
	}
}

func TestGenerate_apiError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL, APIKey: "secret-key"}).Generate(context.Background(), "p")
	var pe *ai.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ai.ProviderError", err)
	}
	if pe.StatusCode != http.StatusUnauthorized || !strings.Contains(pe.Message, "invalid x-api-key") {
		t.Errorf("ProviderError = %+v", pe)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Errorf("error leaks credential: %v", err)
	}
}

func TestGenerate_emptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Generate(context.Background(), "p")
	if !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}
