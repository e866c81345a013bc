package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client sends one prompt per call. Instruct models go through the legacy
// completions endpoint, everything else through chat completions with the
// prompt as a single user message.
type Client struct {
	baseURL     string
	model       string
	temperature float32
	maxTokens   int
	api         *goopenai.Client
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

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = baseURL
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		baseURL:     baseURL,
		model:       model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		api:         goopenai.NewClientWithConfig(apiCfg),
	}
}

func (c *Client) Model() string { return c.model }

func (c *Client) Endpoint() string {
	if c.legacy() {
		return c.baseURL + "/completions"
	}
	return c.baseURL + "/chat/completions"
}

func (c *Client) legacy() bool {
	return strings.Contains(strings.ToLower(c.model), "instruct")
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.legacy() {
		return c.complete(ctx, prompt)
	}

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ai.NewError(ai.KindOpenAI, ai.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateCompletion(ctx, goopenai.CompletionRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Text == "" {
		return "", ai.NewError(ai.KindOpenAI, ai.ErrEmptyResponse)
	}
	return resp.Choices[0].Text, nil
}

// wrapError folds go-openai's error types into ai.ProviderError. The
// go-openai values are flattened to text so callers cannot reach them.
func wrapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if apiErr.Type != "" {
			msg += " (" + apiErr.Type + ")"
		}
		return &ai.ProviderError{
			Provider:   ai.KindOpenAI,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    msg,
		}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &ai.ProviderError{
			Provider:   ai.KindOpenAI,
			StatusCode: reqErr.HTTPStatusCode,
			Err:        errors.New(reqErr.Error()),
		}
	}
	return ai.NewError(ai.KindOpenAI, err)
}
