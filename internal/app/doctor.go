package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const pingPrompt = "Reply with the single word OK."

// Doctor prints the resolved provider settings. With ping set it also sends
// a one-line prompt to confirm the backend answers.
func Doctor(ctx context.Context, cfg Config, ping bool) error {
	provider, err := NewProvider(cfg.Provider)
	if err != nil {
		return err
	}

	label := lipgloss.NewStyle().Bold(true).Width(10)
	out := cfg.out()
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = "(none)"
	}
	fmt.Fprintln(out, label.Render("Provider")+string(cfg.Provider.Kind))
	fmt.Fprintln(out, label.Render("Model")+provider.Model())
	fmt.Fprintln(out, label.Render("Endpoint")+provider.Endpoint())
	fmt.Fprintln(out, label.Render("Config")+configPath)
	if !ping {
		return nil
	}

	start := time.Now()
	reply, err := provider.Generate(ctx, pingPrompt)
	if err != nil {
		return fmt.Errorf("ping %s: %w", provider.Endpoint(), err)
	}
	fmt.Fprintln(out, label.Render("Ping")+fmt.Sprintf("%q (%s)", firstLine(reply), time.Since(start).Round(time.Millisecond)))
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
