package gitx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
)

var ErrNotRepository = errors.New("not inside a git repository. Use --repo /path/to/repo")

// ResolveRepoRoot returns the top-level directory of the repository holding
// repoArg, or the working directory when repoArg is empty. The git CLI is
// asked first so worktrees and submodules resolve the way git sees them.
func ResolveRepoRoot(ctx context.Context, repoArg string) (string, error) {
	start := strings.TrimSpace(repoArg)
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = cwd
	}
	start, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(start); err != nil {
		return "", fmt.Errorf("repository path: %w", err)
	}

	if root, err := Git(ctx, start, "rev-parse", "--show-toplevel"); err == nil {
		return strings.TrimSpace(root), nil
	}

	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true, EnableDotGitCommonDir: true})
	if err != nil {
		return "", ErrNotRepository
	}
	wt, err := repo.Worktree()
	if err != nil {
		// bare repository
		return "", ErrNotRepository
	}
	return wt.Filesystem.Root(), nil
}

// GitDir returns the repository's .git directory, following worktree links.
func GitDir(ctx context.Context, repoRoot string) (string, error) {
	out, err := Git(ctx, repoRoot, "rev-parse", "--absolute-git-dir")
	if err == nil {
		return strings.TrimSpace(out), nil
	}
	dotGit := filepath.Join(repoRoot, ".git")
	if fi, statErr := os.Stat(dotGit); statErr == nil && fi.IsDir() {
		return dotGit, nil
	}
	return "", err
}
