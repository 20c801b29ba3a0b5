package ledger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/internal/adapters/ledger"
	"go.trai.ch/upkeep/internal/core/domain"
)

func TestStore_ReadMissing(t *testing.T) {
	s := ledger.NewStore(filepath.Join(t.TempDir(), "requirements.txt"))

	_, err := s.Read()
	require.ErrorIs(t, err, domain.ErrLedgerMissing)
}

func TestStore_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte("# old\nnumpy>=1\n"), 0o600))
	s := ledger.NewStore(path)

	before, err := s.Read()
	require.NoError(t, err)
	assert.False(t, before.FullyPinned)

	set, err := domain.NewRequirementsSet(domain.Pin("numpy", "2.0.0"), domain.Pin("pandas", "2.1.0"))
	require.NoError(t, err)
	require.NoError(t, s.Write(set))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "numpy==2.0.0\npandas==2.1.0\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "the file mode is preserved")

	after, err := s.Read()
	require.NoError(t, err)
	assert.True(t, after.FullyPinned)
	assert.Equal(t, []string{"numpy==2.0.0", "pandas==2.1.0"}, after.Lines)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestStore_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	s := ledger.NewStore(filepath.Join(blocker, "requirements.txt"))

	set, err := domain.NewRequirementsSet(domain.Pin("numpy", "2.0.0"))
	require.NoError(t, err)
	require.ErrorIs(t, s.Write(set), domain.ErrLedgerWriteFailed)
}

func TestReadNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "primary.txt")
	require.NoError(t, os.WriteFile(path, []byte("NumPy\nscikit_learn>=1.3 # models\n\n"), 0o600))

	names, err := ledger.ReadNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"numpy", "scikit-learn"}, names)

	names, err = ledger.ReadNames(filepath.Join(dir, "absent.txt"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
