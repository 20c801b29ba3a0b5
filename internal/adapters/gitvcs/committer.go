// Package gitvcs commits ledger updates to the project's git repository.
package gitvcs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/zerr"
)

// Committer implements ports.Committer with go-git.
type Committer struct {
	root   string
	author domain.GitConfig
	now    func() time.Time
}

// New creates a Committer for the repository containing root.
func New(root string, author domain.GitConfig) *Committer {
	return &Committer{root: root, author: author, now: time.Now}
}

// Commit stages paths and records one commit. It returns the commit hash, or ""
// when none of the paths changed.
func (c *Committer) Commit(ctx context.Context, message string, paths ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := git.PlainOpenWithOptions(c.root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", c.fail(err, "failed to open repository")
	}
	w, err := repo.Worktree()
	if err != nil {
		return "", c.fail(err, "failed to get worktree")
	}
	top := w.Filesystem.Root()

	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		rel, err := relative(top, path)
		if err != nil {
			return "", c.fail(err, "path is outside the repository")
		}
		if _, err := w.Add(rel); err != nil {
			return "", zerr.With(c.fail(err, "failed to stage file"), "file", rel)
		}
	}

	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  c.author.AuthorName,
			Email: c.author.AuthorEmail,
			When:  c.now(),
		},
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		return "", nil
	}
	if err != nil {
		return "", c.fail(err, "failed to commit")
	}
	return hash.String(), nil
}

func (c *Committer) fail(err error, msg string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrCommitFailed, err), msg), "root", c.root)
}

// relative resolves path against the worktree root, following symlinked temp dirs.
func relative(top, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if resolved, err := filepath.EvalSymlinks(top); err == nil {
		top = resolved
	}
	rel, err := filepath.Rel(top, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return "", zerr.With(zerr.New("path escapes the worktree"), "path", path)
	}
	return filepath.ToSlash(rel), nil
}
