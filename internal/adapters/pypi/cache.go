package pypi

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/zerr"
)

var errCacheMiss = errors.New("registry cache miss")

// diskCache stores project documents as JSON files named by the xxhash of the project name.
type diskCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

func (c *diskCache) path(name string) string {
	return filepath.Join(c.dir, strconv.FormatUint(xxhash.Sum64String(name), 16)+".json")
}

// load returns the cached document and whether it is still fresh. A stale entry is returned
// so callers can fall back to it when the index is unreachable.
func (c *diskCache) load(name string) (json.RawMessage, bool, error) {
	if c.dir == "" {
		return nil, false, errCacheMiss
	}
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(c.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, errCacheMiss
		}
		return nil, false, zerr.Wrap(err, "failed to read registry cache")
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Name != name {
		return nil, false, errCacheMiss
	}
	fresh := c.ttl > 0 && c.now().Sub(entry.FetchedAt) < c.ttl
	return entry.Document, fresh, nil
}

func (c *diskCache) save(name string, doc json.RawMessage) error {
	if c.dir == "" {
		return nil
	}
	data, err := json.Marshal(cacheEntry{Name: name, FetchedAt: c.now(), Document: doc})
	if err != nil {
		return zerr.Wrap(err, "failed to encode registry cache entry")
	}
	if err := atomicWriteFile(c.path(name), data); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write registry cache"), "package", name)
	}
	return nil
}

// atomicWriteFile writes data to a temp file in the target directory and renames it into place.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "registry-cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
