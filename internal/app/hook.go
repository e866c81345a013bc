package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hoanghonghuy/stagecommit/internal/gitx"
)

const hookName = "prepare-commit-msg"

// InstallHook installs the prepare-commit-msg hook into the repository that
// contains repoArg.
func InstallHook(ctx context.Context, repoArg string) error {
	repoRoot, err := gitx.ResolveRepoRoot(ctx, repoArg)
	if err != nil {
		return err
	}
	gitDir, err := gitx.GitDir(ctx, repoRoot)
	if err != nil {
		return err
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return fmt.Errorf("create hooks dir: %w", err)
	}

	hookPath := filepath.Join(hooksDir, hookName)
	if _, err := os.Stat(hookPath); err == nil {
		return fmt.Errorf("hook %s already exists. Please remove it first", hookPath)
	}

	exe, err := os.Executable()
	if err != nil {
		exe = "stagecommit"
	} else {
		exe, _ = filepath.Abs(exe)
	}

	if err := os.WriteFile(hookPath, []byte(hookScript(exe)), 0755); err != nil {
		return fmt.Errorf("write hook file: %w", err)
	}

	fmt.Printf("✅ Hook installed to %s\n", hookPath)
	return nil
}

// hookScript runs exe for plain `git commit` invocations. Messages given
// with -m, merges and amends keep their own text.
func hookScript(exe string) string {
	return fmt.Sprintf(`#!/bin/sh
# stagecommit hook
# $1 is the message file, $2 the message source, $3 the SHA.

COMMIT_MSG_FILE=$1
COMMIT_SOURCE=$2

case "$COMMIT_SOURCE" in
  message|merge|squash|commit) exit 0 ;;
esac

# Attach to the terminal so the interactive menu works inside the hook.
if [ -t 0 ]; then
    exec < /dev/tty
fi

echo "🤖 stagecommit is analyzing changes..."
"%s" suggest --interactive --hook "$COMMIT_MSG_FILE" < /dev/tty > /dev/tty
`, exe)
}
