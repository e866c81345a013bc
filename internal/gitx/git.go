package gitx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultIgnores are staged paths whose diffs only add noise to a prompt.
var DefaultIgnores = []string{
	"go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "poetry.lock", "Cargo.lock",
	"*.map", "*.svg", "*.min.js", "*.min.css",
}

func Git(ctx context.Context, repoRoot string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", repoRoot}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %v\n%s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// StagedDiff is what `git diff --cached` prints, minus any file matching
// ignores. The skipped paths are returned so callers can mention them.
// Paths are read NUL-separated and unquoted, then passed back as literal
// pathspecs so non-ASCII names and glob characters survive the round trip.
func StagedDiff(ctx context.Context, repoRoot string, ignores []string) (diff string, skipped []string, err error) {
	filesOut, err := Git(ctx, repoRoot, "-c", "core.quotePath=false", "diff", "--cached", "--name-only", "-z")
	if err != nil {
		return "", nil, err
	}

	var kept []string
	for _, f := range splitNUL(filesOut) {
		if ShouldIgnore(f, ignores) {
			skipped = append(skipped, f)
			continue
		}
		kept = append(kept, ":(literal)"+f)
	}
	if len(kept) == 0 {
		return "", skipped, nil
	}

	args := append([]string{"-c", "core.quotePath=false", "diff", "--cached", "--"}, kept...)
	diff, err = Git(ctx, repoRoot, args...)
	if err != nil {
		return "", skipped, err
	}
	return diff, skipped, nil
}

// ShouldIgnore matches path against exact names and globs, on both the full
// path and its base name.
func ShouldIgnore(path string, ignores []string) bool {
	base := filepath.Base(path)
	for _, ign := range ignores {
		if ign == base || ign == path {
			return true
		}
		if matched, _ := filepath.Match(ign, base); matched {
			return true
		}
		if matched, _ := filepath.Match(ign, path); matched {
			return true
		}
	}
	return false
}

const truncatedMarker = "\n...[diff truncated]"

// TrimTo limits s to max bytes, marker included, cutting on a line boundary
// when possible. max <= 0 disables the limit.
func TrimTo(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= len(truncatedMarker) {
		return s[:max]
	}
	head := s[:max-len(truncatedMarker)]
	if idx := strings.LastIndex(head, "\n"); idx > 0 {
		head = head[:idx]
	}
	return head + truncatedMarker
}

func Commit(ctx context.Context, repoRoot, message string) error {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return fmt.Errorf("commit message cannot be empty")
	}
	_, err := Git(ctx, repoRoot, "commit", "-m", msg)
	return err
}

func splitNUL(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\x00") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
