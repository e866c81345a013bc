package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
	"github.com/hoanghonghuy/stagecommit/internal/gitx"
	"github.com/hoanghonghuy/stagecommit/internal/pipeline"
)

type Config struct {
	RepoArg string

	Provider ai.Config

	History        bool
	HistoryCount   int
	HistoryPatches bool
	KeepBody       bool

	IgnoredFiles []string
	MaxDiffBytes int

	// AuditPath, when set, receives the audit document of every generation.
	AuditPath string

	Interactive bool
	Clipboard   bool
	HookFile    string

	ConfigPath string

	Logger *log.Logger
	Out    io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c Config) logger() *log.Logger {
	if c.Logger == nil {
		return log.New(io.Discard)
	}
	return c.Logger
}

func (c Config) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		History:  c.History,
		KeepBody: c.KeepBody,
		Logger:   c.logger(),
	}
}

// Suggest generates a commit message for the staged changes and hands it to
// the user: interactively, through a hook file, or on stdout and the
// clipboard.
func Suggest(ctx context.Context, cfg Config) error {
	logger := cfg.logger()

	repoRoot, err := gitx.ResolveRepoRoot(ctx, cfg.RepoArg)
	if err != nil {
		return err
	}

	in, err := collectInput(ctx, cfg, repoRoot)
	if err != nil {
		return err
	}

	provider, err := NewProvider(cfg.Provider)
	if err != nil {
		return err
	}
	logger.Debug("provider ready", "kind", cfg.Provider.Kind, "model", provider.Model(), "endpoint", provider.Endpoint())

	gen := &generator{provider: provider, cfg: cfg, input: in}

	if cfg.Interactive {
		return runInteractiveLoop(ctx, repoRoot, gen, cfg)
	}

	msg, err := gen.generate(ctx)
	if err != nil {
		return err
	}
	if err := deliver(cfg, msg); err != nil {
		return err
	}
	return gen.finish()
}

func collectInput(ctx context.Context, cfg Config, repoRoot string) (pipeline.Input, error) {
	logger := cfg.logger()

	ignores := slices.Concat(gitx.DefaultIgnores, cfg.IgnoredFiles)
	diff, skipped, err := gitx.StagedDiff(ctx, repoRoot, ignores)
	if err != nil {
		return pipeline.Input{}, err
	}
	if len(skipped) > 0 {
		logger.Info("skipping ignored files", "files", strings.Join(skipped, ", "))
	}
	if strings.TrimSpace(diff) == "" {
		if len(skipped) > 0 {
			return pipeline.Input{}, fmt.Errorf("all staged files were ignored (checked %d files)", len(skipped))
		}
		return pipeline.Input{}, errors.New("no staged changes. Run: git add <files>")
	}

	size := len(diff)
	diff = gitx.TrimTo(diff, cfg.MaxDiffBytes)
	if len(diff) < size {
		logger.Warn("staged diff truncated", "size", humanize.Bytes(uint64(size)), "limit", humanize.Bytes(uint64(cfg.MaxDiffBytes)))
	}

	in := pipeline.Input{Diff: diff}
	if cfg.History {
		entries, err := gitx.RecentLog(repoRoot, cfg.HistoryCount, cfg.HistoryPatches)
		if err != nil {
			logger.Warn("could not read commit history; continuing without it", "err", err)
		} else {
			in.History = gitx.FormatLog(entries)
			logger.Debug("history loaded", "commits", len(entries), "patches", cfg.HistoryPatches)
		}
	}
	return in, nil
}

// generator runs the pipeline behind a spinner and records the audit
// document after each successful run.
type generator struct {
	provider ai.Provider
	cfg      Config
	input    pipeline.Input
	spin     *spinner.Spinner
	auditErr error
}

func (g *generator) options() pipeline.Options {
	opts := g.cfg.pipelineOptions()
	total := len(pipeline.Stages)
	if !g.cfg.History {
		total--
	}
	step := 0
	opts.OnStage = func(s pipeline.Stage) {
		step++
		if g.spin == nil {
			return
		}
		g.spin.Lock()
		g.spin.Suffix = fmt.Sprintf(" %s (%d/%d)...", s, step, total)
		g.spin.Unlock()
	}
	return opts
}

func (g *generator) generate(ctx context.Context) (string, error) {
	g.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	g.spin.Suffix = " Generating commit message..."
	g.spin.Start()
	start := time.Now()
	// A fresh pipeline per run restarts the stage counter.
	res, err := pipeline.New(g.provider, g.options()).Run(ctx, g.input)
	g.spin.Stop()
	if err != nil {
		return "", err
	}
	g.cfg.logger().Info("commit message ready", "took", time.Since(start).Round(time.Millisecond))

	if g.cfg.AuditPath != "" {
		g.auditErr = pipeline.WriteAudit(g.cfg.AuditPath, res.Audit())
		if g.auditErr != nil {
			g.cfg.logger().Warn("audit document not written", "err", g.auditErr)
		} else {
			g.cfg.logger().Info("audit document written", "path", g.cfg.AuditPath)
		}
	}
	return res.Message, nil
}

// finish is the error reported once the message has been delivered. A git
// hook must not abort a commit whose message is fine, so in hook mode a failed
// audit write stays a warning.
func (g *generator) finish() error {
	if g.auditErr != nil && g.cfg.HookFile != "" {
		g.cfg.logger().Warn("continuing commit without audit document", "err", g.auditErr)
		return nil
	}
	return g.auditErr
}

// deliver hands a finished message to the hook file or to stdout and the
// clipboard.
func deliver(cfg Config, msg string) error {
	if cfg.HookFile != "" {
		if err := os.WriteFile(cfg.HookFile, []byte(msg+"\n"), 0644); err != nil {
			return fmt.Errorf("write hook file: %w", err)
		}
		cfg.logger().Info("message written for git hook", "file", cfg.HookFile)
		return nil
	}

	fmt.Fprintln(cfg.out(), msg)
	if cfg.Clipboard {
		copyToClipboard(cfg.logger(), msg)
	}
	return nil
}

func copyToClipboard(logger *log.Logger, msg string) {
	if err := clipboard.WriteAll(msg); err != nil {
		logger.Warn("clipboard unavailable", "err", err)
		return
	}
	logger.Info("commit message copied to clipboard")
}
