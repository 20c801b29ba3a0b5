package gitvcs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/internal/adapters/gitvcs"
	"go.trai.ch/upkeep/internal/core/domain"
)

var author = domain.GitConfig{Enabled: true, AuthorName: "upkeep", AuthorEmail: "upkeep@example.com"}

// initRepo creates a repository with one commit of requirements.txt.
func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	w, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("numpy==1.26.4\n"), 0o600))
	_, err = w.Add("requirements.txt")
	require.NoError(t, err)
	_, err = w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, repo
}

func TestCommitter_CommitsChangedFiles(t *testing.T) {
	dir, repo := initRepo(t)
	ledger := filepath.Join(dir, "requirements.txt")
	journal := filepath.Join(dir, "metrics_output.txt")
	require.NoError(t, os.WriteFile(ledger, []byte("numpy==2.0.0\n"), 0o600))
	require.NoError(t, os.WriteFile(journal, []byte("numpy 2.0.0\n"), 0o600))

	hash, err := gitvcs.New(dir, author).Commit(context.Background(), "Update numpy from 1.26.4 to 2.0.0", ledger, journal)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, hash, head.Hash().String())

	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Update numpy from 1.26.4 to 2.0.0", commit.Message)
	assert.Equal(t, "upkeep", commit.Author.Name)
	assert.Equal(t, "upkeep@example.com", commit.Author.Email)

	files, err := commit.Files()
	require.NoError(t, err)
	var names []string
	require.NoError(t, files.ForEach(func(f *object.File) error {
		names = append(names, f.Name)
		return nil
	}))
	assert.ElementsMatch(t, []string{"requirements.txt", "metrics_output.txt"}, names)
}

func TestCommitter_ProjectInSubdirectory(t *testing.T) {
	dir, repo := initRepo(t)
	project := filepath.Join(dir, "services", "api")
	require.NoError(t, os.MkdirAll(project, 0o750))
	ledger := filepath.Join(project, "requirements.txt")
	require.NoError(t, os.WriteFile(ledger, []byte("flask==3.0.0\n"), 0o600))

	hash, err := gitvcs.New(project, author).Commit(context.Background(), "Update flask", ledger)
	require.NoError(t, err)

	commit, err := repo.CommitObject(plumbing.NewHash(hash))
	require.NoError(t, err)
	_, err = commit.File("services/api/requirements.txt")
	assert.NoError(t, err)
}

func TestCommitter_NothingChanged(t *testing.T) {
	dir, _ := initRepo(t)

	hash, err := gitvcs.New(dir, author).Commit(context.Background(), "noop", filepath.Join(dir, "requirements.txt"),
		filepath.Join(dir, "missing.txt"))
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestCommitter_NotARepository(t *testing.T) {
	dir := t.TempDir()

	_, err := gitvcs.New(dir, author).Commit(context.Background(), "msg")
	require.ErrorIs(t, err, domain.ErrCommitFailed)
}
