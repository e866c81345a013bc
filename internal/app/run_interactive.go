package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
	"github.com/hoanghonghuy/stagecommit/internal/config"
	"github.com/hoanghonghuy/stagecommit/internal/gitx"
)

// EditConfig opens the settings form for the file at path and saves the
// result when the user submits it.
func EditConfig(path string) error {
	if path == "" {
		path = config.DefaultPath()
	}
	fc, err := config.Load(path)
	if err != nil {
		return err
	}
	updated, ok, err := runConfigInteractive(fc, path)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := config.Save(updated, path); err != nil {
		return err
	}
	fmt.Printf("✅ Configuration saved to %s\n", path)
	return nil
}

func validateInt(s string) error {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err
}

// runConfigInteractive launches a TUI form to edit key config fields
func runConfigInteractive(cfg config.FileConfig, path string) (config.FileConfig, bool, error) {
	baseURL := cfg.BaseURL
	apiKey := cfg.APIKey
	anthropicKey := cfg.AnthropicKey
	geminiKey := cfg.GeminiKey
	model := cfg.Model
	provider := cfg.Provider
	if provider == "" {
		provider = string(ai.KindOllama)
	}

	history := derefBool(cfg.History, false)
	historyPatches := derefBool(cfg.HistoryPatches, false)
	keepBody := derefBool(cfg.KeepBody, false)
	historyCountStr := strconv.Itoa(derefInt(cfg.HistoryCount, DefaultHistoryCount))
	maxTokensStr := strconv.Itoa(derefInt(cfg.MaxTokens, DefaultMaxTokens))
	maxDiffStr := strconv.Itoa(derefInt(cfg.MaxDiffBytes, DefaultMaxDiffBytes))
	tempStr := fmt.Sprintf("%.2f", derefFloat(cfg.Temperature, DefaultTemperature))
	timeoutStr := cfg.Timeout
	if timeoutStr == "" {
		timeoutStr = DefaultTimeout.String()
	}
	auditPath := cfg.AuditPath
	ignoredFilesStr := strings.Join(cfg.IgnoredFiles, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("stagecommit Configuration").
				Description("Update your global settings in "+path),

			huh.NewSelect[string]().
				Title("AI Provider").
				Options(
					huh.NewOption("Ollama (Local)", string(ai.KindOllama)),
					huh.NewOption("Anthropic (Claude)", string(ai.KindAnthropic)),
					huh.NewOption("OpenAI / Compatible", string(ai.KindOpenAI)),
					huh.NewOption("Google Gemini", string(ai.KindGemini)),
				).
				Value(&provider),

			huh.NewInput().
				Title("Base URL").
				Description("API endpoint (default varies by provider)").
				Placeholder("http://localhost:11434 or https://api.anthropic.com").
				Value(&baseURL),

			huh.NewInput().
				Title("Model").
				Description("Model name").
				Suggestions([]string{"llama3:instruct", "claude-3-5-sonnet-20240620", "gpt-4o", "gemini-1.5-pro"}).
				Value(&model),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API Key").
				Description("Key for OpenAI/Compatible providers").
				Value(&apiKey).
				EchoMode(huh.EchoModePassword),

			huh.NewInput().
				Title("Anthropic API Key").
				Description("Key for Claude models").
				Value(&anthropicKey).
				EchoMode(huh.EchoModePassword),

			huh.NewInput().
				Title("Gemini API Key").
				Description("Key for Google Gemini").
				Value(&geminiKey).
				EchoMode(huh.EchoModePassword),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("History Analysis").
				Description("Summarize recent commits before analyzing the diff?").
				Value(&history),

			huh.NewInput().
				Title("History Commits").
				Description("Number of recent commits to analyze").
				Value(&historyCountStr).
				Validate(validateInt),

			huh.NewConfirm().
				Title("History Patches").
				Description("Include each commit's patch in the history?").
				Value(&historyPatches),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Temperature").
				Description("LLM Temperature (0.0 - 2.0)").
				Value(&tempStr).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return err
					}
					if v < 0 || v > 2.0 {
						return fmt.Errorf("must be between 0.0 and 2.0")
					}
					return nil
				}),

			huh.NewInput().
				Title("Max Tokens").
				Description("Response length limit per request").
				Value(&maxTokensStr).
				Validate(validateInt),

			huh.NewInput().
				Title("Timeout").
				Description("Per-request timeout, e.g. 90s or 10m (0 disables)").
				Value(&timeoutStr).
				Validate(func(s string) error {
					_, err := config.ResolveDuration(0, false, s, 0)
					return err
				}),

			huh.NewInput().
				Title("Max Diff Bytes").
				Description("Staged diff is truncated beyond this size (0 disables)").
				Value(&maxDiffStr).
				Validate(validateInt),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Keep Body").
				Description("Keep the message body instead of a single line?").
				Value(&keepBody),

			huh.NewInput().
				Title("Audit File").
				Description("Write stage outputs to this markdown file (empty disables)").
				Value(&auditPath),

			huh.NewInput().
				Title("Ignored Files").
				Description("Glob patterns (comma separated)").
				Value(&ignoredFilesStr),
		),
	)

	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return cfg, false, nil
	}
	if err != nil {
		return cfg, false, err
	}

	cfg.BaseURL = strings.TrimSpace(baseURL)
	cfg.APIKey = strings.TrimSpace(apiKey)
	cfg.AnthropicKey = strings.TrimSpace(anthropicKey)
	cfg.GeminiKey = strings.TrimSpace(geminiKey)
	cfg.Model = strings.TrimSpace(model)
	cfg.Provider = provider
	cfg.History = &history
	cfg.HistoryPatches = &historyPatches
	cfg.KeepBody = &keepBody
	cfg.AuditPath = strings.TrimSpace(auditPath)
	cfg.Timeout = strings.TrimSpace(timeoutStr)

	if v, err := strconv.Atoi(strings.TrimSpace(historyCountStr)); err == nil {
		cfg.HistoryCount = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(maxTokensStr)); err == nil {
		cfg.MaxTokens = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(maxDiffStr)); err == nil {
		cfg.MaxDiffBytes = &v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(tempStr), 64); err == nil {
		cfg.Temperature = &v
	}
	cfg.IgnoredFiles = splitList(ignoredFilesStr)

	return cfg, true, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Action enum for confirmation
type Action int

const (
	ActionCommit Action = iota
	ActionCopy
	ActionRegenerate
	ActionEdit
	ActionCancel
)

// runInteractiveLoop shows each generated message and acts on the user's
// choice until it is committed, copied, written for the hook, or cancelled.
func runInteractiveLoop(ctx context.Context, repoRoot string, gen *generator, cfg Config) error {
	msg, err := gen.generate(ctx)
	if err != nil {
		return err
	}

	for {
		action, err := confirmCommitInteractive(msg, cfg.HookFile != "")
		if err != nil {
			return err
		}

		switch action {
		case ActionCommit:
			if cfg.HookFile != "" {
				if err := deliver(cfg, msg); err != nil {
					return err
				}
				return gen.finish()
			}
			if err := gitx.Commit(ctx, repoRoot, msg); err != nil {
				return err
			}
			fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✅ Committed"))
			return gen.finish()
		case ActionCopy:
			copyToClipboard(cfg.logger(), msg)
			return gen.finish()
		case ActionRegenerate:
			next, err := gen.generate(ctx)
			if err != nil {
				return err
			}
			msg = next
		case ActionEdit:
			edited, err := editCommitMessageInteractive(msg)
			if err != nil {
				return err
			}
			if strings.TrimSpace(edited) != "" {
				msg = strings.TrimSpace(edited)
			}
		default:
			fmt.Println("Cancelled.")
			if cfg.HookFile != "" {
				return errors.New("commit cancelled by user")
			}
			return gen.finish()
		}
	}
}

func confirmCommitInteractive(commitMsg string, hookMode bool) (Action, error) {
	fmt.Println()
	fmt.Println(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")).
		Render("Generated Commit Message:"))

	fmt.Println(lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		MarginBottom(1).
		Render(strings.TrimSpace(commitMsg)))

	commitLabel := "Commit (Apply)"
	if hookMode {
		commitLabel = "Use this message"
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption(commitLabel, "commit"),
					huh.NewOption("Copy to clipboard", "copy"),
					huh.NewOption("Regenerate", "regenerate"),
					huh.NewOption("Edit", "edit"),
					huh.NewOption("Cancel", "cancel"),
				).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ActionCancel, nil
		}
		return ActionCancel, err
	}
	return parseAction(selected), nil
}

func parseAction(s string) Action {
	switch s {
	case "commit":
		return ActionCommit
	case "copy":
		return ActionCopy
	case "edit":
		return ActionEdit
	case "regenerate":
		return ActionRegenerate
	default:
		return ActionCancel
	}
}

func editCommitMessageInteractive(initialMsg string) (string, error) {
	content := initialMsg

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Edit Commit Message").
				Description("Modify the message below (Press Esc+Enter or standard submit key to finish)").
				Value(&content),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}
	return content, nil
}

// Defaults shared by the command line and the settings form.
const (
	DefaultHistoryCount = 10
	DefaultMaxTokens    = 1024
	DefaultMaxDiffBytes = 64000
	DefaultTemperature  = 0.2
	DefaultTimeout      = 10 * time.Minute
	DefaultAuditPath    = "commit_message.md"
)
