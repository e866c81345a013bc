package gitx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepo creates a repository with one commit per message, each touching
// its own file.
func initRepo(t *testing.T, messages ...string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, msg := range messages {
		name := filepath.Join(dir, "file"+string(rune('a'+i))+".txt")
		if err := os.WriteFile(name, []byte(msg+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add(filepath.Base(name)); err != nil {
			t.Fatal(err)
		}
		_, err := wt.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: when.Add(time.Duration(i) * time.Minute)},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRecentLog(t *testing.T) {
	dir := initRepo(t, "feat: first", "fix: second\n\nbody text", "docs: third")

	entries, err := RecentLog(dir, 2, false)
	if err != nil {
		t.Fatalf("RecentLog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Subject != "docs: third" || entries[1].Subject != "fix: second" {
		t.Errorf("subjects = %q, %q", entries[0].Subject, entries[1].Subject)
	}
	if entries[1].Message != "fix: second\n\nbody text" {
		t.Errorf("Message = %q", entries[1].Message)
	}
	if entries[0].Patch != "" {
		t.Error("Patch should be empty without withPatches")
	}

	text := FormatLog(entries)
	want := entries[0].ShortHash() + " docs: third\n" + entries[1].ShortHash() + " fix: second"
	if text != want {
		t.Errorf("FormatLog = %q, want %q", text, want)
	}
}

func TestRecentLog_patches(t *testing.T) {
	dir := initRepo(t, "feat: root", "feat: add b")

	entries, err := RecentLog(dir, 10, true)
	if err != nil {
		t.Fatalf("RecentLog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if !strings.Contains(entries[0].Patch, "+feat: add b") {
		t.Errorf("patch for second commit = %q", entries[0].Patch)
	}
	if !strings.Contains(entries[1].Patch, "+feat: root") {
		t.Errorf("patch for root commit = %q", entries[1].Patch)
	}

	text := FormatLog(entries)
	for _, want := range []string{"commit " + entries[0].Hash, "Author: Dev <dev@example.com>", "    feat: add b"} {
		if !strings.Contains(text, want) {
			t.Errorf("FormatLog missing %q", want)
		}
	}
}

func TestRecentLog_emptyRepo(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatal(err)
	}
	entries, err := RecentLog(dir, 5, false)
	if err != nil || len(entries) != 0 {
		t.Fatalf("RecentLog = %v, %v; want no entries", entries, err)
	}
}
