package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/sync/errgroup"

	"github.com/hoanghonghuy/stagecommit/internal/gitx"
	"github.com/hoanghonghuy/stagecommit/internal/pipeline"
)

type BatchOptions struct {
	// Since is the number of commits, counted back from HEAD, to process.
	Since int
	// Jobs bounds the number of pipelines running at once.
	Jobs int
	JSON bool
}

// BatchResult is the outcome for one commit.
type BatchResult struct {
	Hash      string `json:"hash"`
	Original  string `json:"original"`
	Status    string `json:"status"`
	Suggested string `json:"suggested,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Batch regenerates messages for recent commits, using each commit's patch as
// the diff. Runs are independent: one failure does not stop the others.
func Batch(ctx context.Context, cfg Config, opts BatchOptions) ([]BatchResult, error) {
	logger := cfg.logger()
	if opts.Since <= 0 {
		return nil, fmt.Errorf("--since must be positive, got %d", opts.Since)
	}
	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}

	repoRoot, err := gitx.ResolveRepoRoot(ctx, cfg.RepoArg)
	if err != nil {
		return nil, err
	}
	entries, err := gitx.RecentLog(repoRoot, opts.Since, true)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		logger.Info("no commits to process")
		return nil, nil
	}

	provider, err := NewProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	// History analysis needs the log preceding each commit; batch runs skip it.
	popts := cfg.pipelineOptions()
	popts.History = false
	p := pipeline.New(provider, popts)

	logger.Info("processing commits", "count", len(entries), "jobs", opts.Jobs)

	results := make([]BatchResult, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, e := range entries {
		results[i] = BatchResult{Hash: e.ShortHash(), Original: e.Subject}
		diff := gitx.TrimTo(e.Patch, cfg.MaxDiffBytes)
		if strings.TrimSpace(diff) == "" {
			results[i].Status = "skipped"
			results[i].Error = "no diff"
			continue
		}
		g.Go(func() error {
			res, err := p.Run(gctx, pipeline.Input{Diff: diff})
			if err != nil {
				logger.Warn("commit failed", "hash", e.ShortHash(), "err", err)
				results[i].Status = "failed"
				results[i].Error = err.Error()
				return nil
			}
			logger.Debug("commit done", "hash", e.ShortHash(), "message", res.Message)
			results[i].Status = "success"
			results[i].Suggested = res.Message
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// RunBatch runs Batch and prints its results as a table or JSON.
func RunBatch(ctx context.Context, cfg Config, opts BatchOptions) error {
	results, err := Batch(ctx, cfg, opts)
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeBatchJSON(cfg, results)
	}
	fmt.Fprintln(cfg.out(), renderBatchTable(results))
	return nil
}

func writeBatchJSON(cfg Config, results []BatchResult) error {
	var failed int
	for _, r := range results {
		if r.Status == "failed" {
			failed++
		}
	}
	enc := json.NewEncoder(cfg.out())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"total":   len(results),
		"failed":  failed,
		"results": results,
	})
}

func renderBatchTable(results []BatchResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		suggestion := r.Suggested
		if r.Status != "success" {
			suggestion = r.Status + ": " + r.Error
		}
		rows = append(rows, []string{r.Hash, r.Original, suggestion})
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("63"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("COMMIT", "ORIGINAL", "SUGGESTED").
		Rows(rows...).
		String()
}
