package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider defines the interface for an AI backend (e.g. Ollama, Anthropic, OpenAI).
// Implementations must be safe for concurrent independent calls.
type Provider interface {
	// Generate sends the prompt to the backend and returns its raw generated text.
	Generate(ctx context.Context, prompt string) (string, error)
	// Model returns the configured model identifier.
	Model() string
	// Endpoint returns the URL the adapter talks to.
	Endpoint() string
}

// Kind selects a backend adapter.
type Kind string

const (
	KindOllama    Kind = "ollama"    // local inference server
	KindAnthropic Kind = "anthropic" // hosted chat-style API
	KindOpenAI    Kind = "openai"    // hosted completion-style API
	KindGemini    Kind = "gemini"
)

// Kinds lists every supported backend in display order.
var Kinds = []Kind{KindOllama, KindAnthropic, KindOpenAI, KindGemini}

// ParseKind accepts a backend name or one of its generic aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ollama", "local", "local-inference-server":
		return KindOllama, nil
	case "anthropic", "claude", "chat", "hosted-chat-api":
		return KindAnthropic, nil
	case "openai", "completion", "hosted-completion-api":
		return KindOpenAI, nil
	case "gemini", "google":
		return KindGemini, nil
	}
	return "", fmt.Errorf("unknown provider: %s (supported: ollama, anthropic, openai, gemini)", s)
}

// Config identifies a backend and its connection parameters. It is set once
// per pipeline run and never mutated afterwards.
type Config struct {
	Kind        Kind
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	// Timeout bounds a single request; zero means no client-side limit.
	Timeout time.Duration
}

// String renders the config for diagnostics with the credential masked.
func (c Config) String() string {
	key := "unset"
	if c.APIKey != "" {
		key = "set"
	}
	return fmt.Sprintf("provider=%s model=%s base_url=%s api_key=%s", c.Kind, c.Model, c.BaseURL, key)
}

// ErrEmptyResponse is reported when a backend answers without any text.
var ErrEmptyResponse = errors.New("empty response")

// ProviderError is the single failure kind every adapter reports. Backend
// specific errors never cross the adapter boundary unwrapped.
type ProviderError struct {
	Provider   Kind
	StatusCode int    // zero when no HTTP response was received
	Message    string // backend message, if any
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Provider))
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " API error (status %d)", e.StatusCode)
	} else {
		b.WriteString(" request failed")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewError wraps err as a ProviderError for the given backend.
func NewError(kind Kind, err error) *ProviderError {
	return &ProviderError{Provider: kind, Err: err}
}

// StatusError builds a ProviderError for a non-success HTTP status. The body
// is trimmed and cut so a huge HTML error page does not flood the terminal.
func StatusError(kind Kind, status int, body []byte) *ProviderError {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512] + "..."
	}
	return &ProviderError{Provider: kind, StatusCode: status, Message: msg}
}
