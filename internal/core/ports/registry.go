package ports

import (
	"context"

	"go.trai.ch/upkeep/internal/core/domain"
)

// Registry answers version-history queries against a package index.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// LatestStable returns the highest installable non-prerelease version of a package.
	// It returns domain.ErrNoStableRelease when none exists and domain.ErrPackageNotFound
	// when the index does not know the package.
	LatestStable(ctx context.Context, name string) (domain.Version, error)

	// VersionsInRange returns the installable non-prerelease versions v with low <= v < high,
	// sorted ascending by precedence. A zero low bound is unbounded.
	VersionsInRange(ctx context.Context, name string, low, high domain.Version) ([]domain.Version, error)
}
