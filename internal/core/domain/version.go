package domain

import (
	"cmp"
	"errors"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// releasePattern accepts the public version forms published to Python package indexes:
// dotted release segments with optional pre-release, post-release, dev and local parts.
var releasePattern = regexp.MustCompile(`^v?(\d+(?:\.\d+)*)` +
	`(?:[-_.]?(a|alpha|b|beta|c|rc|pre|preview)[-_.]?(\d*))?` +
	`(?:-(\d+)|[-_.]?(post|rev|r)[-_.]?(\d*))?` +
	`(?:[-_.]?(dev)[-_.]?(\d*))?` +
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`)

const absent = -1

// Version is a parsed release version ordered by release precedence.
// The first three release segments and the pre-release tag are carried by a semver value;
// later release segments, post and dev parts are compared separately.
type Version struct {
	raw     string
	release []uint64
	sv      *semver.Version
	post    int64
	dev     int64
}

// ParseVersion parses a release version such as "1.24.0", "2.1rc1", "1.0.post2" or "4.25.3.1".
func ParseVersion(raw string) (Version, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	m := releasePattern.FindStringSubmatchIndex(text)
	if m == nil {
		return Version{}, zerr.With(zerr.Wrap(ErrInvalidVersion, "unrecognized version"), "version", raw)
	}
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return text[m[2*i]:m[2*i+1]], true
	}

	v := Version{raw: strings.TrimSpace(raw), post: absent, dev: absent}

	releaseText, _ := group(1)
	for _, part := range strings.Split(releaseText, ".") {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return Version{}, zerr.With(errors.Join(ErrInvalidVersion, err), "version", raw)
		}
		v.release = append(v.release, n)
	}

	var pre string
	if kind, ok := group(2); ok {
		num, _ := group(3)
		pre = preKind(kind) + "." + numberOrZero(num)
	}
	if num, ok := group(4); ok {
		v.post = parseNumber(num)
	} else if _, ok := group(5); ok {
		num, _ := group(6)
		v.post = parseNumber(num)
	}
	if _, ok := group(7); ok {
		num, _ := group(8)
		v.dev = parseNumber(num)
		if pre == "" && v.post == absent {
			// A bare dev release sorts below every pre-release of the same release.
			pre = "0.dev." + numberOrZero(num)
		}
	}

	v.sv = semver.New(v.segment(0), v.segment(1), v.segment(2), pre, "")
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on invalid input.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func preKind(kind string) string {
	switch kind {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default:
		return "rc"
	}
}

func numberOrZero(s string) string {
	if s == "" {
		return "0"
	}
	return strconv.FormatInt(parseNumber(s), 10)
}

func parseNumber(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (v Version) segment(i int) uint64 {
	if i < len(v.release) {
		return v.release[i]
	}
	return 0
}

// String returns the version as it was written.
func (v Version) String() string {
	return v.raw
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool {
	return v.sv == nil
}

// Major returns the first release segment.
func (v Version) Major() uint64 { return v.segment(0) }

// Minor returns the second release segment.
func (v Version) Minor() uint64 { return v.segment(1) }

// IsPrerelease reports whether v is a pre-release or development release.
func (v Version) IsPrerelease() bool {
	return v.sv != nil && (v.sv.Prerelease() != "" || v.dev != absent)
}

// Semver returns the semver projection used for wildcard constraint checks.
func (v Version) Semver() *semver.Version {
	return v.sv
}

// Compare returns -1, 0 or +1 depending on the release precedence of v and o.
func (v Version) Compare(o Version) int {
	if v.sv == nil || o.sv == nil {
		return cmp.Compare(boolRank(v.sv != nil), boolRank(o.sv != nil))
	}
	core := semver.New(v.segment(0), v.segment(1), v.segment(2), "", "")
	if c := core.Compare(semver.New(o.segment(0), o.segment(1), o.segment(2), "", "")); c != 0 {
		return c
	}
	for i := 3; i < max(len(v.release), len(o.release)); i++ {
		if c := cmp.Compare(v.segment(i), o.segment(i)); c != 0 {
			return c
		}
	}
	if c := v.sv.Compare(o.sv); c != 0 {
		return c
	}
	if c := cmp.Compare(v.post, o.post); c != 0 {
		return c
	}
	return cmp.Compare(devRank(v.dev), devRank(o.dev))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func devRank(dev int64) int64 {
	if dev == absent {
		return 1<<62 - 1
	}
	return dev
}

// Equal reports whether v and o have the same precedence.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// LessThan reports whether v precedes o.
func (v Version) LessThan(o Version) bool { return v.Compare(o) < 0 }

// GreaterThan reports whether v follows o.
func (v Version) GreaterThan(o Version) bool { return v.Compare(o) > 0 }

// SortVersions sorts versions ascending by precedence.
func SortVersions(versions []Version) {
	slices.SortStableFunc(versions, Version.Compare)
}

// Severity classifies how far an upgrade moves a package.
type Severity int

const (
	// SeverityPatch is a patch-level or unclassifiable bump.
	SeverityPatch Severity = 1
	// SeverityMinor is a minor-version bump.
	SeverityMinor Severity = 2
	// SeverityMajor is a major-version bump.
	SeverityMajor Severity = 3
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityMajor:
		return "major"
	case SeverityMinor:
		return "minor"
	default:
		return "patch"
	}
}

// BumpSeverity classifies the move from current to target.
func BumpSeverity(current, target Version) Severity {
	if current.IsZero() || target.IsZero() {
		return SeverityPatch
	}
	switch {
	case target.Major() > current.Major():
		return SeverityMajor
	case target.Minor() > current.Minor():
		return SeverityMinor
	default:
		return SeverityPatch
	}
}
