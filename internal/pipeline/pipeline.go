// Package pipeline turns a staged diff into a commit message through a fixed
// sequence of model calls: history analysis (optional), diff analysis, info
// extraction and message synthesis. Each stage feeds the next, so the first
// failure ends the run.
package pipeline

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/hoanghonghuy/stagecommit/internal/ai"
	"github.com/hoanghonghuy/stagecommit/internal/prompt"
)

// Options tune a Pipeline. The zero value skips history analysis and
// produces a single-line message.
type Options struct {
	// History enables the history analysis stage.
	History bool
	// KeepBody keeps the header/body split of the final message instead of
	// flattening it to one line.
	KeepBody bool
	Logger   *log.Logger
	// OnStage, if set, is called right before each stage calls the provider.
	OnStage func(Stage)
}

// Input is the per-run data handed over by the version-control collaborator.
type Input struct {
	Diff string
	// History is the recent commit log. Ignored unless Options.History is set.
	History string
}

// Result carries every stage output of a successful run.
type Result struct {
	HistorySummary string
	DiffAnalysis   string
	InfoText       string
	Info           Info
	Message        string
}

// Pipeline runs the stages against a single provider. It holds no per-run
// state, so one Pipeline may serve concurrent Run calls when its provider
// allows it.
type Pipeline struct {
	provider ai.Provider
	opts     Options
	logger   *log.Logger
}

func New(provider ai.Provider, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{provider: provider, opts: opts, logger: logger}
}

// Run executes the stages in order and returns the normalized message.
// It never returns a partial Result alongside an error.
func (p *Pipeline) Run(ctx context.Context, in Input) (Result, error) {
	if strings.TrimSpace(in.Diff) == "" {
		return Result{}, &PipelineError{Stage: StageDiffAnalysis, Err: ErrMissingDiff}
	}

	var res Result
	var err error

	if p.opts.History {
		res.HistorySummary, err = p.stage(ctx, StageHistory, prompt.History(in.History, in.Diff))
		if err != nil {
			return Result{}, err
		}
	}

	res.DiffAnalysis, err = p.stage(ctx, StageDiffAnalysis, prompt.DiffAnalysis(in.Diff))
	if err != nil {
		return Result{}, err
	}

	res.InfoText, err = p.stage(ctx, StageInfo, prompt.Info(res.DiffAnalysis, in.Diff, res.HistorySummary))
	if err != nil {
		return Result{}, err
	}
	res.Info = ParseInfo(res.InfoText)
	p.logger.Debug("structured info",
		"header", res.Info.Header(),
		"type", res.Info.Type, "scope", res.Info.Scope,
		"impact", res.Info.Impact, "continuation", res.Info.Continuation)

	raw, err := p.stage(ctx, StageMessage, prompt.Message(res.InfoText))
	if err != nil {
		return Result{}, err
	}

	res.Message = p.normalize(raw)
	if res.Message == "" {
		return Result{}, &PipelineError{Stage: StageMessage, Err: ErrEmptyOutput}
	}
	return res, nil
}

func (p *Pipeline) normalize(raw string) string {
	if p.opts.KeepBody {
		return prompt.NormalizeMultiline(raw)
	}
	return prompt.Normalize(raw)
}

// stage performs one provider call. Cancellation is checked before the call
// so an aborted run never starts a new request.
func (p *Pipeline) stage(ctx context.Context, s Stage, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &PipelineError{Stage: s, Err: err}
	}
	if p.opts.OnStage != nil {
		p.opts.OnStage(s)
	}

	start := time.Now()
	p.logger.Debug("stage started", "stage", s, "prompt", humanize.Bytes(uint64(len(text))))

	out, err := p.provider.Generate(ctx, text)
	if err != nil {
		p.logger.Debug("stage failed", "stage", s, "err", err)
		return "", &PipelineError{Stage: s, Err: err}
	}
	if strings.TrimSpace(out) == "" {
		return "", &PipelineError{Stage: s, Err: ErrEmptyOutput}
	}

	p.logger.Debug("stage finished", "stage", s,
		"took", time.Since(start).Round(time.Millisecond),
		"output", humanize.Bytes(uint64(len(out))))
	p.logger.Debug(s.Title(), "text", out)
	return out, nil
}
