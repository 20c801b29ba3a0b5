// Package pypi implements the Registry port against the PyPI JSON API with a local cache.
package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/zerr"
)

const maxDocumentSize = 64 << 20

// Registry implements ports.Registry. Version histories are memoized for the lifetime of
// the Registry and cached on disk across runs.
type Registry struct {
	indexURL   string
	httpClient *http.Client
	cache      *diskCache
	logger     ports.Logger

	mu      sync.Mutex
	history map[string][]domain.Version
}

// New creates a Registry from the registry configuration.
func New(cfg domain.RegistryConfig, logger ports.Logger) *Registry {
	return NewWithClient(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWithClient creates a Registry using the given HTTP client.
func NewWithClient(cfg domain.RegistryConfig, client *http.Client, logger ports.Logger) *Registry {
	return &Registry{
		indexURL:   strings.TrimRight(cfg.IndexURL, "/"),
		httpClient: client,
		cache:      &diskCache{dir: cfg.CacheDir, ttl: cfg.CacheTTL, now: time.Now},
		logger:     logger,
		history:    make(map[string][]domain.Version),
	}
}

// LatestStable returns the highest installable non-prerelease version.
func (r *Registry) LatestStable(ctx context.Context, name string) (domain.Version, error) {
	versions, err := r.versions(ctx, name)
	if err != nil {
		return domain.Version{}, err
	}
	for i := len(versions) - 1; i >= 0; i-- {
		if !versions[i].IsPrerelease() {
			return versions[i], nil
		}
	}
	return domain.Version{}, zerr.With(zerr.Wrap(domain.ErrNoStableRelease, "only pre-releases published"), "package", name)
}

// VersionsInRange returns the installable non-prerelease versions in [low, high), ascending.
func (r *Registry) VersionsInRange(ctx context.Context, name string, low, high domain.Version) ([]domain.Version, error) {
	versions, err := r.versions(ctx, name)
	if err != nil {
		return nil, err
	}
	var out []domain.Version
	for _, v := range versions {
		if v.IsPrerelease() || (!low.IsZero() && v.LessThan(low)) || !v.LessThan(high) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// versions returns every installable release of name, sorted ascending.
func (r *Registry) versions(ctx context.Context, name string) ([]domain.Version, error) {
	name = domain.CanonicalName(name)

	r.mu.Lock()
	cached, ok := r.history[name]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	doc, err := r.document(ctx, name)
	if err != nil {
		return nil, err
	}
	versions := installable(doc)

	r.mu.Lock()
	r.history[name] = versions
	r.mu.Unlock()
	return versions, nil
}

func (r *Registry) document(ctx context.Context, name string) (*ProjectDocument, error) {
	raw, fresh, cacheErr := r.cache.load(name)
	if cacheErr == nil && fresh {
		if doc, err := decodeDocument(raw); err == nil {
			return doc, nil
		}
	}

	fetched, err := r.fetch(ctx, name)
	if err != nil {
		if cacheErr == nil && !errors.Is(err, domain.ErrPackageNotFound) {
			if doc, decodeErr := decodeDocument(raw); decodeErr == nil {
				r.logger.Warn(fmt.Sprintf("package index unreachable, using cached history of %s: %v", name, err))
				return doc, nil
			}
		}
		return nil, err
	}

	doc, err := decodeDocument(fetched)
	if err != nil {
		return nil, zerr.With(err, "package", name)
	}
	if err := r.cache.save(name, fetched); err != nil {
		r.logger.Warn(fmt.Sprintf("could not cache registry response: %v", err))
	}
	return doc, nil
}

func (r *Registry) fetch(ctx context.Context, name string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", r.indexURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrRegistryUnavailable, err), "failed to build registry request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrRegistryUnavailable, err), "registry request failed"), "package", name)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "index has no such project"), "package", name)
	case resp.StatusCode != http.StatusOK:
		err := zerr.With(zerr.Wrap(domain.ErrRegistryUnavailable, "unexpected registry response"), "status_code", resp.StatusCode)
		return nil, zerr.With(err, "package", name)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrRegistryUnavailable, err), "failed to read registry response"), "package", name)
	}
	return body, nil
}

func decodeDocument(raw json.RawMessage) (*ProjectDocument, error) {
	var doc ProjectDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrRegistryUnavailable, err), "failed to parse registry response")
	}
	return &doc, nil
}

// installable keeps releases that parse as versions and have at least one file that is
// not yanked, sorted ascending.
func installable(doc *ProjectDocument) []domain.Version {
	out := make([]domain.Version, 0, len(doc.Releases))
	for raw, files := range doc.Releases {
		usable := false
		for _, f := range files {
			if !f.Yanked {
				usable = true
				break
			}
		}
		if !usable {
			continue
		}
		v, err := domain.ParseVersion(raw)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	domain.SortVersions(out)
	return out
}
