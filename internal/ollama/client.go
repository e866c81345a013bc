package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3:instruct"
)

// Config holds Ollama specific settings
type Config struct {
	BaseURL     string // e.g. "http://localhost:11434"
	Model       string // e.g. "llama3:instruct"
	Temperature float64
	Timeout     time.Duration
}

// Client implements ai.Provider for Ollama
type Client struct {
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL:     baseURL,
		model:       model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

type options struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) Model() string { return c.model }

func (c *Client) Endpoint() string { return c.baseURL + "/api/generate" }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: options{
			Temperature: c.temperature,
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", ai.NewError(ai.KindOllama, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(b))
	if err != nil {
		return "", ai.NewError(ai.KindOllama, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", ai.NewError(ai.KindOllama, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", ai.StatusError(ai.KindOllama, resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", ai.NewError(ai.KindOllama, fmt.Errorf("decode response: %w", err))
	}
	if genResp.Error != "" {
		return "", &ai.ProviderError{Provider: ai.KindOllama, Message: genResp.Error}
	}
	if genResp.Response == "" {
		return "", ai.NewError(ai.KindOllama, ai.ErrEmptyResponse)
	}

	return genResp.Response, nil
}
