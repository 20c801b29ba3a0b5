// Package backtrack finds the newest passing version of a package by binary search
// over its release history.
//
// The search assumes failures are monotonic in version order: if a version fails, every
// later version fails too. When that does not hold the search may miss a passing version;
// it never reports a failing one.
package backtrack

import (
	"context"
	"fmt"
	"slices"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
)

// ProbeFunc installs and validates the requirement set with the package at version.
type ProbeFunc func(ctx context.Context, version domain.Version) domain.ProbeResult

// Request describes one search window.
type Request struct {
	// Name is the package being searched.
	Name string
	// LastGood is the inclusive lower bound, normally the current pin.
	LastGood domain.Version
	// Failed is the exclusive upper bound, normally the target that failed.
	Failed domain.Version
	// Constraints filters candidates; nil means unconstrained.
	Constraints *domain.ConstraintSet
}

// Result is a passing version together with the probe that proved it.
type Result struct {
	Version domain.Version
	Probe   domain.ProbeResult
	// Probes counts the probes spent by the search.
	Probes int
}

// Searcher runs backtracking searches against a registry.
type Searcher struct {
	registry ports.Registry
	logger   ports.Logger
}

// New creates a Searcher.
func New(registry ports.Registry, logger ports.Logger) *Searcher {
	return &Searcher{registry: registry, logger: logger}
}

// Search returns the highest passing version in [LastGood, Failed), or false if none passed.
// An empty window falls back to a single probe of LastGood.
func (s *Searcher) Search(ctx context.Context, req Request, probe ProbeFunc) (Result, bool) {
	candidates := s.candidates(ctx, req)

	var res Result
	if len(candidates) == 0 {
		s.logger.Info(fmt.Sprintf("no versions of %s between %s and %s, probing last good version",
			req.Name, req.LastGood, req.Failed))
		result := probe(ctx, req.LastGood)
		res.Probes = 1
		if !result.Success {
			return res, false
		}
		res.Version = req.LastGood
		res.Probe = result
		return res, true
	}

	s.logger.Info(fmt.Sprintf("backtracking %s over %d versions in [%s, %s)",
		req.Name, len(candidates), req.LastGood, req.Failed))

	found := false
	lo, hi := 0, len(candidates)-1
	for lo <= hi {
		if ctx.Err() != nil {
			break
		}
		mid := lo + (hi-lo)/2
		candidate := candidates[mid]
		result := probe(ctx, candidate)
		res.Probes++
		if result.Success {
			res.Version = candidate
			res.Probe = result
			found = true
			lo = mid + 1
			continue
		}
		hi = mid - 1
	}

	if found {
		s.logger.Info(fmt.Sprintf("backtracking %s settled on %s after %d probes", req.Name, res.Version, res.Probes))
	}
	return res, found
}

func (s *Searcher) candidates(ctx context.Context, req Request) []domain.Version {
	versions, err := s.registry.VersionsInRange(ctx, req.Name, req.LastGood, req.Failed)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("could not list versions of %s: %v", req.Name, err))
		return nil
	}

	out := make([]domain.Version, 0, len(versions))
	for _, v := range versions {
		if v.IsPrerelease() || v.LessThan(req.LastGood) || !v.LessThan(req.Failed) {
			continue
		}
		if !req.Constraints.Allows(req.Name, v) {
			continue
		}
		out = append(out, v)
	}
	domain.SortVersions(out)
	return slices.CompactFunc(out, domain.Version.Equal)
}
