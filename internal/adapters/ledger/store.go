// Package ledger persists the pinned requirements file.
package ledger

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.RequirementsStore on a requirements file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Path returns the ledger location.
func (s *Store) Path() string {
	return s.path
}

// Read parses the ledger.
func (s *Store) Read() (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Ledger{}, zerr.With(zerr.Wrap(domain.ErrLedgerMissing, "cannot read requirements"), "path", s.path)
		}
		return domain.Ledger{}, zerr.With(zerr.Wrap(err, "failed to read requirements"), "path", s.path)
	}
	return domain.ParseLedger(string(data)), nil
}

// Write replaces the ledger with one line per spec. The new content is written to a
// temporary file in the same directory and renamed over the old one, so readers see
// either the old or the new ledger.
func (s *Store) Write(set *domain.RequirementsSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content := strings.Join(set.Lines(), "\n") + "\n"
	if err := writeAtomic(s.path, []byte(content)); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrLedgerWriteFailed, err), "cannot replace requirements"), "path", s.path)
	}
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	mode := os.FileMode(domain.FilePerm)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadNames returns the canonical package names listed in a requirements file, such as
// the primary requirements. A missing file lists nothing.
func ReadNames(path string) ([]string, error) {
	//nolint:gosec // Path is provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read requirements"), "path", path)
	}
	ledger := domain.ParseLedger(string(data))
	names := make([]string, 0, ledger.Specs.Len())
	for _, spec := range ledger.Specs.Specs() {
		names = append(names, spec.Name)
	}
	return names, nil
}
