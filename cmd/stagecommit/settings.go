package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
	"github.com/hoanghonghuy/stagecommit/internal/app"
	"github.com/hoanghonghuy/stagecommit/internal/config"
)

// flagValues holds the raw persistent flags before resolution.
type flagValues struct {
	configPath string
	repo       string

	provider    string
	model       string
	baseURL     string
	apiKey      string
	temperature float64
	maxTokens   int
	timeout     time.Duration

	history        bool
	historyCount   int
	historyPatches bool
	keepBody       bool
	maxDiffBytes   int
	ignore         []string

	audit       string
	interactive bool
	noClipboard bool
	hookFile    string
	verbose     bool
}

// resolveSettings merges flags, environment and file config in that order of
// precedence. changed reports whether a flag was set on the command line.
func resolveSettings(f flagValues, changed func(string) bool, getenv func(string) string, fc config.FileConfig) (app.Config, error) {
	kindName := config.ResolveString(f.provider, getenv("STAGECOMMIT_PROVIDER"), fc.Provider, string(ai.KindOllama))
	kind, err := ai.ParseKind(kindName)
	if err != nil {
		return app.Config{}, err
	}

	timeout, err := config.ResolveDuration(f.timeout, changed("timeout"), fc.Timeout, app.DefaultTimeout)
	if err != nil {
		return app.Config{}, err
	}
	if timeout < 0 {
		return app.Config{}, fmt.Errorf("timeout must not be negative, got %s", timeout)
	}

	temperature := config.ResolveFloat(f.temperature, changed("temperature"), fc.Temperature, app.DefaultTemperature)
	if temperature < 0 || temperature > 2 {
		return app.Config{}, fmt.Errorf("temperature must be between 0.0 and 2.0, got %.2f", temperature)
	}

	auditPath := fc.AuditPath
	if changed("audit") {
		auditPath = f.audit
	}

	cfg := app.Config{
		RepoArg: f.repo,
		Provider: ai.Config{
			Kind:        kind,
			BaseURL:     config.ResolveString(f.baseURL, getenv("STAGECOMMIT_BASE_URL"), fc.BaseURL, ""),
			Model:       config.ResolveString(f.model, getenv("STAGECOMMIT_MODEL"), fc.Model, ""),
			APIKey:      resolveKey(kind, f.apiKey, getenv, fc),
			Temperature: temperature,
			MaxTokens:   config.ResolveInt(f.maxTokens, changed("max-tokens"), fc.MaxTokens, app.DefaultMaxTokens),
			Timeout:     timeout,
		},
		History:        config.ResolveBool(f.history, changed("history"), fc.History, false),
		HistoryCount:   config.ResolveInt(f.historyCount, changed("history-count"), fc.HistoryCount, app.DefaultHistoryCount),
		HistoryPatches: config.ResolveBool(f.historyPatches, changed("history-patches"), fc.HistoryPatches, false),
		KeepBody:       config.ResolveBool(f.keepBody, changed("keep-body"), fc.KeepBody, false),
		IgnoredFiles:   append(append([]string(nil), fc.IgnoredFiles...), f.ignore...),
		MaxDiffBytes:   config.ResolveInt(f.maxDiffBytes, changed("max-diff-bytes"), fc.MaxDiffBytes, app.DefaultMaxDiffBytes),
		AuditPath:      strings.TrimSpace(auditPath),
		Interactive:    f.interactive,
		Clipboard:      !f.noClipboard,
		HookFile:       f.hookFile,
		ConfigPath:     f.configPath,
	}
	if cfg.HistoryCount < 0 {
		return app.Config{}, fmt.Errorf("history count must not be negative, got %d", cfg.HistoryCount)
	}
	return cfg, nil
}

// resolveKey picks the credential for kind. Ollama takes none.
func resolveKey(kind ai.Kind, flagVal string, getenv func(string) string, fc config.FileConfig) string {
	switch kind {
	case ai.KindAnthropic:
		return config.ResolveString(flagVal, getenv("ANTHROPIC_API_KEY"), fc.AnthropicKey, "")
	case ai.KindOpenAI:
		return config.ResolveString(flagVal, getenv("OPENAI_API_KEY"), fc.APIKey, "")
	case ai.KindGemini:
		return config.ResolveString(flagVal, getenv("GEMINI_API_KEY"), fc.GeminiKey, "")
	default:
		return ""
	}
}
