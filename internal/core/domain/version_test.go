package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/internal/core/domain"
)

func TestParseVersion_Ordering(t *testing.T) {
	ordered := []string{
		"1.0.dev1",
		"1.0a1",
		"1.0b2",
		"1.0rc1",
		"1.0",
		"1.0.post1",
		"1.0.1",
		"1.0.1.1",
		"1.1",
		"2.0",
		"10.0",
	}
	for i := 1; i < len(ordered); i++ {
		lo := domain.MustParseVersion(ordered[i-1])
		hi := domain.MustParseVersion(ordered[i])
		assert.True(t, lo.LessThan(hi), "%s < %s", ordered[i-1], ordered[i])
		assert.True(t, hi.GreaterThan(lo), "%s > %s", ordered[i], ordered[i-1])
	}
}

func TestParseVersion_Equality(t *testing.T) {
	assert.True(t, domain.MustParseVersion("1.0").Equal(domain.MustParseVersion("1.0.0")))
	assert.True(t, domain.MustParseVersion("v2.1").Equal(domain.MustParseVersion("2.1")))
	assert.Equal(t, "1.0", domain.MustParseVersion("1.0").String(), "the written form is kept")
}

func TestParseVersion_Invalid(t *testing.T) {
	for _, raw := range []string{"", "abc", "1.0-beta-foo", "1..2"} {
		_, err := domain.ParseVersion(raw)
		require.ErrorIs(t, err, domain.ErrInvalidVersion, raw)
	}
}

func TestVersion_IsPrerelease(t *testing.T) {
	assert.True(t, domain.MustParseVersion("2.0rc1").IsPrerelease())
	assert.True(t, domain.MustParseVersion("2.0.dev3").IsPrerelease())
	assert.False(t, domain.MustParseVersion("2.0.post1").IsPrerelease())
	assert.False(t, domain.MustParseVersion("2.0").IsPrerelease())
}

func TestSortVersions(t *testing.T) {
	vs := []domain.Version{
		domain.MustParseVersion("1.10"),
		domain.MustParseVersion("1.2"),
		domain.MustParseVersion("1.9.1"),
	}
	domain.SortVersions(vs)
	assert.Equal(t, "1.2", vs[0].String())
	assert.Equal(t, "1.9.1", vs[1].String())
	assert.Equal(t, "1.10", vs[2].String())
}

func TestBumpSeverity(t *testing.T) {
	tests := []struct {
		from, to string
		want     domain.Severity
	}{
		{"1.24.0", "2.0.0", domain.SeverityMajor},
		{"2.0.0", "2.1.0", domain.SeverityMinor},
		{"2.1.0", "2.1.3", domain.SeverityPatch},
		{"2.1.0", "2.1.0.1", domain.SeverityPatch},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got := domain.BumpSeverity(domain.MustParseVersion(tt.from), domain.MustParseVersion(tt.to))
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, domain.SeverityPatch, domain.BumpSeverity(domain.Version{}, domain.MustParseVersion("1.0")))
	assert.Equal(t, "major", domain.SeverityMajor.String())
}
