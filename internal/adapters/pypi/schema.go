package pypi

import (
	"encoding/json"
	"time"
)

// ProjectDocument is the subset of the PyPI JSON API project document that upkeep reads.
type ProjectDocument struct {
	Info     ProjectInfo              `json:"info"`
	Releases map[string][]ReleaseFile `json:"releases"`
}

// ProjectInfo carries the project metadata.
type ProjectInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ReleaseFile is one distribution file of a release.
type ReleaseFile struct {
	Filename string `json:"filename"`
	Yanked   bool   `json:"yanked"`
}

// cacheEntry is the on-disk form of a cached project document.
type cacheEntry struct {
	Name      string          `json:"name"`
	FetchedAt time.Time       `json:"fetched_at"`
	Document  json.RawMessage `json:"document"`
}
