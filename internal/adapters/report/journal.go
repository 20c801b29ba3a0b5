// Package report renders the outcome of a run: the terminal summary, the YAML summary file
// and the per-update metrics journal.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/zerr"
)

// Journal implements ports.UpdateJournal by appending one block per persisted update
// to a plain-text metrics file.
type Journal struct {
	mu   sync.Mutex
	path string
}

// NewJournal creates a Journal writing to path.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Append writes record to the end of the journal.
func (j *Journal) Append(record domain.UpdateRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create journal directory"), "path", j.path)
	}
	//nolint:gosec // path comes from the project configuration
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open journal"), "path", j.path)
	}
	_, werr := f.WriteString(journalEntry(record))
	if err := errors.Join(werr, f.Close()); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to append to journal"), "path", j.path)
	}
	return nil
}

func journalEntry(r domain.UpdateRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s -> %s (%s, pass %d)\n", r.Name, r.From, r.Reached, r.Method, r.Pass)
	if len(r.Metrics) == 0 {
		b.WriteString("  metrics not available\n")
	}
	for _, key := range r.Metrics.Keys() {
		fmt.Fprintf(&b, "  %s: %s\n", key, r.Metrics[key])
	}
	b.WriteString("\n")
	return b.String()
}
