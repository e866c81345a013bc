package gitx

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		pattern string
		ignores []string
		want    bool
	}{
		{"go.sum", []string{"go.sum"}, true},
		{"pkg/go.sum", []string{"go.sum"}, true}, // base match
		{"README.md", []string{"go.sum"}, false},
		{"foo.map", []string{"*.map"}, true},
		{"src/logo.svg", []string{"*.svg"}, true},
		{"vendor/x.go", []string{"vendor/*"}, true},
		{"pnpm-lock.yaml", DefaultIgnores, true},
		{"main.go", DefaultIgnores, false},
	}

	for _, tt := range tests {
		got := ShouldIgnore(tt.pattern, tt.ignores)
		if got != tt.want {
			t.Errorf("ShouldIgnore(%q, %v) = %v; want %v", tt.pattern, tt.ignores, got, tt.want)
		}
	}
}

func TestTrimTo(t *testing.T) {
	s := "line one\nline two\nline three\n"
	if got := TrimTo(s, 0); got != s {
		t.Errorf("TrimTo(s, 0) = %q, want unchanged", got)
	}
	if got := TrimTo(s, 100); got != s {
		t.Errorf("TrimTo(s, 100) = %q, want unchanged", got)
	}

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"line_boundary", strings.Repeat("line\n", 10), 40, "line\nline\nline\nline" + truncatedMarker},
		{"no_newline_in_head", strings.Repeat("a", 99) + "\nbb", 100, strings.Repeat("a", 80) + truncatedMarker},
		{"limit_below_marker", "line one\nline two\n", 12, "line one\nlin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimTo(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("TrimTo = %q, want %q", got, tt.want)
			}
			if len(got) > tt.max || len(got) >= len(tt.in) {
				t.Errorf("len = %d, want <= %d and shorter than input %d", len(got), tt.max, len(tt.in))
			}
		})
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	if _, err := Git(context.Background(), dir, args...); err != nil {
		t.Fatal(err)
	}
}

func TestStagedDiff(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	gitRun(t, dir, "init", "-q")
	gitRun(t, dir, "config", "user.email", "dev@example.com")
	gitRun(t, dir, "config", "user.name", "Dev")

	os.WriteFile(filepath.Join(dir, "x.py"), []byte("print(1)\n"), 0644)
	os.WriteFile(filepath.Join(dir, "go.sum"), []byte("hash\n"), 0644)
	gitRun(t, dir, "add", "x.py", "go.sum")

	diff, skipped, err := StagedDiff(context.Background(), dir, DefaultIgnores)
	if err != nil {
		t.Fatalf("StagedDiff: %v", err)
	}
	if !strings.Contains(diff, "+print(1)") {
		t.Errorf("diff missing change:\n%s", diff)
	}
	if strings.Contains(diff, "go.sum") {
		t.Error("diff should not contain ignored go.sum")
	}
	if len(skipped) != 1 || skipped[0] != "go.sum" {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestStagedDiff_nothingStaged(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	gitRun(t, dir, "init", "-q")

	diff, skipped, err := StagedDiff(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("StagedDiff: %v", err)
	}
	if diff != "" || len(skipped) != 0 {
		t.Errorf("StagedDiff = %q, %v; want empty", diff, skipped)
	}
}

func TestStagedDiff_unusualNames(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	gitRun(t, dir, "init", "-q")

	files := map[string]string{
		"héllo.txt": "bonjour\n",
		"plain.txt": "plain\n",
		"[id].tsx":  "export default 1\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		gitRun(t, dir, "add", "--", ":(literal)"+name)
	}

	diff, skipped, err := StagedDiff(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("StagedDiff: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v", skipped)
	}
	for _, want := range []string{"+bonjour", "+plain", "+export default 1", "héllo.txt"} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff missing %q:\n%s", want, diff)
		}
	}
}
