package gitx

import (
	"errors"
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// LogEntry is one commit read from history.
type LogEntry struct {
	Hash    string
	Author  string
	Date    string
	Subject string
	Message string
	Patch   string // empty unless patches were requested
}

// ShortHash is the 7-character abbreviation of the commit hash.
func (e LogEntry) ShortHash() string {
	if len(e.Hash) > 7 {
		return e.Hash[:7]
	}
	return e.Hash
}

// RecentLog walks back from HEAD and returns up to n commits, newest first.
// A repository without commits yields no entries and no error.
func RecentLog(repoRoot string, n int, withPatches bool) ([]LogEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	repo, err := git.PlainOpenWithOptions(repoRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	defer iter.Close()

	var out []LogEntry
	err = iter.ForEach(func(c *object.Commit) error {
		if len(out) >= n {
			return storer.ErrStop
		}
		entry := LogEntry{
			Hash:    c.Hash.String(),
			Author:  fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email),
			Date:    c.Author.When.Format("Mon Jan 2 15:04:05 2006 -0700"),
			Subject: strings.TrimSpace(strings.SplitN(c.Message, "\n", 2)[0]),
			Message: strings.TrimSpace(c.Message),
		}
		if withPatches {
			patch, err := commitPatch(c)
			if err != nil {
				return fmt.Errorf("patch for %s: %w", entry.ShortHash(), err)
			}
			entry.Patch = patch
		}
		out = append(out, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func commitPatch(c *object.Commit) (string, error) {
	if c.NumParents() == 0 {
		tree, err := c.Tree()
		if err != nil {
			return "", err
		}
		changes, err := object.DiffTree(nil, tree)
		if err != nil {
			return "", err
		}
		patch, err := changes.Patch()
		if err != nil {
			return "", err
		}
		return patch.String(), nil
	}
	parent, err := c.Parent(0)
	if err != nil {
		return "", err
	}
	patch, err := parent.Patch(c)
	if err != nil {
		return "", err
	}
	return patch.String(), nil
}

// FormatLog renders entries as the history text fed to the model: one
// "hash subject" line per commit, or `git log -p` style blocks when the
// entries carry patches.
func FormatLog(entries []LogEntry) string {
	var b strings.Builder
	for _, e := range entries {
		if e.Patch == "" {
			b.WriteString(e.ShortHash() + " " + e.Subject + "\n")
			continue
		}
		b.WriteString("commit " + e.Hash + "\n")
		b.WriteString("Author: " + e.Author + "\n")
		b.WriteString("Date:   " + e.Date + "\n\n")
		for _, ln := range strings.Split(e.Message, "\n") {
			b.WriteString("    " + ln + "\n")
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(e.Patch, "\n"))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
