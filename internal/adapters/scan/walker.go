package scan

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// walkSources yields every Python source file below root, skipping .git and directories
// or files whose name matches an exclude pattern.
func walkSources(root string, excludes []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path != root {
				if skip, action := shouldSkip(d, excludes); skip {
					return action
				}
			}

			if d.IsDir() || !strings.HasSuffix(d.Name(), ".py") {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

// shouldSkip checks an entry against the exclude patterns. The action is filepath.SkipDir
// for an excluded directory and nil for an excluded file.
func shouldSkip(d fs.DirEntry, excludes []string) (bool, error) {
	name := d.Name()

	// Always skip .git
	if d.IsDir() && name == ".git" {
		return true, filepath.SkipDir
	}

	for _, exclude := range excludes {
		matched, _ := filepath.Match(exclude, name)
		if matched {
			if d.IsDir() {
				return true, filepath.SkipDir
			}
			return true, nil
		}
	}
	return false, nil
}
