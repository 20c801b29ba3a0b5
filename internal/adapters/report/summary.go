package report

import (
	"bytes"
	"os"
	"path/filepath"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// MarshalSummary renders summary as YAML.
func MarshalSummary(summary *domain.RunSummary) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return nil, zerr.Wrap(err, "failed to encode run summary")
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to encode run summary")
	}
	return buf.Bytes(), nil
}

// WriteSummary writes summary as YAML to path, replacing any previous file.
func WriteSummary(path string, summary *domain.RunSummary) error {
	data, err := MarshalSummary(summary)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create summary directory"), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write run summary"), "path", path)
	}
	return nil
}
