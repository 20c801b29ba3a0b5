package backtrack_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports/mocks"
	"go.trai.ch/upkeep/internal/engine/backtrack"
	"go.uber.org/mock/gomock"
)

func versions(raw ...string) []domain.Version {
	out := make([]domain.Version, len(raw))
	for i, r := range raw {
		out[i] = domain.MustParseVersion(r)
	}
	return out
}

// passingUpTo returns a probe that passes for every version <= limit and counts calls.
func passingUpTo(limit string, calls *[]string) backtrack.ProbeFunc {
	highest := domain.MustParseVersion(limit)
	return func(_ context.Context, v domain.Version) domain.ProbeResult {
		*calls = append(*calls, v.String())
		if v.GreaterThan(highest) {
			return domain.ProbeResult{Stage: domain.StageValidate}
		}
		return domain.ProbeResult{Success: true, Stage: domain.StagePassed, Installed: []domain.PackageSpec{domain.Pin("pkg", v.String())}}
	}
}

func newSearcher(t *testing.T, history []domain.Version, err error) *backtrack.Searcher {
	t.Helper()
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockRegistry(ctrl)
	registry.EXPECT().VersionsInRange(gomock.Any(), "pkg", gomock.Any(), gomock.Any()).Return(history, err).AnyTimes()
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return backtrack.New(registry, log)
}

func TestSearch_MonotonicFindsHighestPassing(t *testing.T) {
	history := versions("1.0", "1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7",
		"1.8", "1.9", "1.10", "1.11", "1.12", "1.13", "1.14", "1.15")
	for _, limit := range []string{"1.0", "1.3", "1.7", "1.12", "1.15"} {
		t.Run(limit, func(t *testing.T) {
			var calls []string
			s := newSearcher(t, history, nil)

			res, ok := s.Search(context.Background(), backtrack.Request{
				Name:     "pkg",
				LastGood: domain.MustParseVersion("1.0"),
				Failed:   domain.MustParseVersion("2.0"),
			}, passingUpTo(limit, &calls))

			require.True(t, ok)
			assert.Equal(t, limit, res.Version.String())
			assert.True(t, res.Probe.Success)
			bound := int(math.Ceil(math.Log2(float64(len(history))))) + 1
			assert.LessOrEqual(t, len(calls), bound)
			assert.Equal(t, len(calls), res.Probes)
		})
	}
}

func TestSearch_NothingPasses(t *testing.T) {
	var calls []string
	s := newSearcher(t, versions("1.0", "1.1", "1.2"), nil)

	_, ok := s.Search(context.Background(), backtrack.Request{
		Name:     "pkg",
		LastGood: domain.MustParseVersion("1.0"),
		Failed:   domain.MustParseVersion("2.0"),
	}, passingUpTo("0.9", &calls))

	assert.False(t, ok)
	assert.NotEmpty(t, calls)
}

func TestSearch_EmptyWindowProbesLastGoodOnce(t *testing.T) {
	var calls []string
	s := newSearcher(t, nil, nil)

	res, ok := s.Search(context.Background(), backtrack.Request{
		Name:     "pkg",
		LastGood: domain.MustParseVersion("1.0"),
		Failed:   domain.MustParseVersion("1.1"),
	}, passingUpTo("1.0", &calls))

	require.True(t, ok)
	assert.Equal(t, []string{"1.0"}, calls)
	assert.Equal(t, "1.0", res.Version.String())
}

func TestSearch_RegistryErrorFallsBackToLastGood(t *testing.T) {
	var calls []string
	s := newSearcher(t, nil, errors.New("index down"))

	_, ok := s.Search(context.Background(), backtrack.Request{
		Name:     "pkg",
		LastGood: domain.MustParseVersion("1.0"),
		Failed:   domain.MustParseVersion("2.0"),
	}, passingUpTo("0.1", &calls))

	assert.False(t, ok)
	assert.Equal(t, []string{"1.0"}, calls)
}

func TestSearch_SkipsPrereleasesAndConstrainedVersions(t *testing.T) {
	var calls []string
	s := newSearcher(t, versions("3.20.0", "3.21.0rc1", "3.21.0", "4.0.0", "4.1.0"), nil)
	var constraints domain.ConstraintSet
	c, err := domain.NewConstraint("pkg", "<4")
	require.NoError(t, err)
	constraints.Add(c)

	res, ok := s.Search(context.Background(), backtrack.Request{
		Name:        "pkg",
		LastGood:    domain.MustParseVersion("3.20.0"),
		Failed:      domain.MustParseVersion("5.0.0"),
		Constraints: &constraints,
	}, passingUpTo("9.9", &calls))

	require.True(t, ok)
	assert.Equal(t, "3.21.0", res.Version.String())
	assert.NotContains(t, calls, "3.21.0rc1")
	assert.NotContains(t, calls, "4.0.0")
	assert.NotContains(t, calls, "4.1.0")
}
