package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
	"github.com/hoanghonghuy/stagecommit/internal/anthropic"
	"github.com/hoanghonghuy/stagecommit/internal/gemini"
	"github.com/hoanghonghuy/stagecommit/internal/ollama"
	"github.com/hoanghonghuy/stagecommit/internal/openai"
)

// NewProvider builds the adapter selected by cfg.Kind.
func NewProvider(cfg ai.Config) (ai.Provider, error) {
	switch cfg.Kind {
	case ai.KindOllama:
		return ollama.New(ollama.Config{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}), nil
	case ai.KindAnthropic:
		if cfg.APIKey == "" {
			return nil, errors.New("missing anthropic key. Set --api-key or env ANTHROPIC_API_KEY")
		}
		return anthropic.New(anthropic.Config{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}), nil
	case ai.KindOpenAI:
		// OpenAI-compatible local servers often run without a key.
		if cfg.APIKey == "" && strings.TrimSpace(cfg.BaseURL) == "" {
			return nil, errors.New("missing openai key. Set --api-key or env OPENAI_API_KEY")
		}
		return openai.New(openai.Config{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}), nil
	case ai.KindGemini:
		if cfg.APIKey == "" {
			return nil, errors.New("missing gemini key. Set --api-key or env GEMINI_API_KEY")
		}
		return gemini.New(gemini.Config{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q (supported: ollama, anthropic, openai, gemini)", cfg.Kind)
	}
}
