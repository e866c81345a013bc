package anthropic

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
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-20240620"
	apiVersion     = "2023-06-01"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
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
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

type messageRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messageResponse struct {
	Content []contentPart `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Model() string { return c.model }

func (c *Client) Endpoint() string { return c.baseURL + "/v1/messages" }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := messageRequest{
		Model: c.model,
		Messages: []message{
			{Role: "user", Content: []contentPart{{Type: "text", Text: prompt}}},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", ai.NewError(ai.KindAnthropic, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(b))
	if err != nil {
		return "", ai.NewError(ai.KindAnthropic, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", ai.NewError(ai.KindAnthropic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", &ai.ProviderError{
				Provider:   ai.KindAnthropic,
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("%s (%s)", apiErr.Error.Message, apiErr.Error.Type),
			}
		}
		return "", ai.StatusError(ai.KindAnthropic, resp.StatusCode, body)
	}

	var msgResp messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return "", ai.NewError(ai.KindAnthropic, fmt.Errorf("decode response: %w", err))
	}

	if len(msgResp.Content) == 0 {
		return "", ai.NewError(ai.KindAnthropic, ai.ErrEmptyResponse)
	}

	return msgResp.Content[0].Text, nil
}
