package diffsource

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/standardbeagle/tldrs/internal/types"
)

// GitSource produces hunks from a git working tree's uncommitted changes
// (staged + unstaged against HEAD). It opens the repository with go-git
// only to validate the path and resolve its root; the diff text itself
// comes from the git CLI (`git diff`), then goes through ParseUnified —
// go-git has no unified-diff text generator of its own.
type GitSource struct {
	repoRoot string
}

// NewGitSource opens repoRoot as a git repository, returning an error if it
// isn't one.
func NewGitSource(repoRoot string) (*GitSource, error) {
	repo, err := gogit.PlainOpenWithOptions(repoRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("no worktree: %w", err)
	}
	return &GitSource{repoRoot: wt.Filesystem.Root()}, nil
}

// Hunks returns the hunks for all uncommitted changes (`git diff HEAD`),
// covering both staged and unstaged modifications.
func (s *GitSource) Hunks(ctx context.Context) ([]types.Hunk, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--no-color", "--no-ext-diff", "HEAD")
	cmd.Dir = s.repoRoot

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git diff failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return ParseUnified(out.Bytes())
}
