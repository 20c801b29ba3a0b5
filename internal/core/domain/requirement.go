package domain

import (
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// specPattern splits a requirement line into name, optional extras and the version specifier.
var specPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(\[[^\]]*\])?\s*(.*)$`)

// PackageSpec is one requirement: a package name plus an optional version specifier.
type PackageSpec struct {
	// Name is the canonical package name used for identity.
	Name string
	// Display is the name as written in the source line.
	Display string
	// Extras is the optional extras selector including brackets, e.g. "[security]".
	Extras string
	// Specifier is the version specifier text, e.g. "==1.24.0" or ">=2,<3".
	Specifier string
	// Marker is an optional environment marker following ";".
	Marker string
}

// Pin builds an exact-version requirement.
func Pin(name, version string) PackageSpec {
	return PackageSpec{
		Name:      CanonicalName(name),
		Display:   strings.TrimSpace(name),
		Specifier: "==" + strings.TrimSpace(version),
	}
}

// ParseRequirement parses a single requirement line. Comments must already be stripped.
func ParseRequirement(line string) (PackageSpec, error) {
	line = strings.TrimSpace(line)
	var marker string
	if i := strings.Index(line, ";"); i >= 0 {
		marker = strings.TrimSpace(line[i+1:])
		line = strings.TrimSpace(line[:i])
	}
	if line == "" || strings.HasPrefix(line, "-") || strings.Contains(line, "://") || strings.Contains(line, " @ ") {
		return PackageSpec{}, zerr.With(zerr.Wrap(ErrInvalidRequirement, "unsupported requirement line"), "line", line)
	}
	m := specPattern.FindStringSubmatch(line)
	if m == nil {
		return PackageSpec{}, zerr.With(zerr.Wrap(ErrInvalidRequirement, "unsupported requirement line"), "line", line)
	}
	return PackageSpec{
		Name:      CanonicalName(m[1]),
		Display:   m[1],
		Extras:    m[2],
		Specifier: compactPredicate(m[3]),
		Marker:    marker,
	}, nil
}

// Pinned reports whether the spec names exactly one version.
func (s PackageSpec) Pinned() bool {
	if !strings.HasPrefix(s.Specifier, "==") || strings.HasPrefix(s.Specifier, "===") {
		return false
	}
	rest := s.Specifier[2:]
	return rest != "" && !strings.ContainsAny(rest, ",*<>!=~")
}

// Version returns the pinned version text, or "" if the spec is not pinned.
func (s PackageSpec) Version() string {
	if !s.Pinned() {
		return ""
	}
	return s.Specifier[2:]
}

// ParsedVersion parses the pinned version.
func (s PackageSpec) ParsedVersion() (Version, error) {
	if !s.Pinned() {
		return Version{}, zerr.With(zerr.Wrap(ErrInvalidVersion, "requirement is not pinned"), "package", s.Name)
	}
	return ParseVersion(s.Version())
}

// WithVersion returns a copy of s pinned to version.
func (s PackageSpec) WithVersion(version string) PackageSpec {
	s.Specifier = "==" + strings.TrimSpace(version)
	return s
}

// String renders the spec as a requirement line.
func (s PackageSpec) String() string {
	name := s.Display
	if name == "" {
		name = s.Name
	}
	line := name + s.Extras + s.Specifier
	if s.Marker != "" {
		line += "; " + s.Marker
	}
	return line
}

// RequirementsSet is an ordered collection of specs, unique by canonical name.
type RequirementsSet struct {
	specs []PackageSpec
	index map[string]int
}

// NewRequirementsSet builds a set from specs, rejecting duplicate names.
func NewRequirementsSet(specs ...PackageSpec) (*RequirementsSet, error) {
	set := &RequirementsSet{index: make(map[string]int, len(specs))}
	for _, s := range specs {
		if _, ok := set.index[s.Name]; ok {
			return nil, zerr.With(zerr.Wrap(ErrDuplicatePackage, "package listed more than once"), "package", s.Name)
		}
		set.Put(s)
	}
	return set, nil
}

// Put inserts s, replacing any spec with the same canonical name in place.
func (r *RequirementsSet) Put(s PackageSpec) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[s.Name]; ok {
		r.specs[i] = s
		return
	}
	r.index[s.Name] = len(r.specs)
	r.specs = append(r.specs, s)
}

// Get returns the spec for the named package.
func (r *RequirementsSet) Get(name string) (PackageSpec, bool) {
	if r == nil {
		return PackageSpec{}, false
	}
	i, ok := r.index[CanonicalName(name)]
	if !ok {
		return PackageSpec{}, false
	}
	return r.specs[i], true
}

// Has reports whether the named package is present.
func (r *RequirementsSet) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Specs returns the specs in insertion order.
func (r *RequirementsSet) Specs() []PackageSpec {
	if r == nil {
		return nil
	}
	return slices.Clone(r.specs)
}

// Len returns the number of specs.
func (r *RequirementsSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.specs)
}

// FullyPinned reports whether every spec names exactly one version.
func (r *RequirementsSet) FullyPinned() bool {
	for _, s := range r.Specs() {
		if !s.Pinned() {
			return false
		}
	}
	return true
}

// Lines renders every spec as a requirement line.
func (r *RequirementsSet) Lines() []string {
	specs := r.Specs()
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.String()
	}
	return out
}

// Clone returns an independent copy of the set.
func (r *RequirementsSet) Clone() *RequirementsSet {
	out := &RequirementsSet{index: make(map[string]int, r.Len())}
	for _, s := range r.Specs() {
		out.Put(s)
	}
	return out
}

// Ledger is the parsed content of a requirements file.
type Ledger struct {
	// Lines holds every non-blank, non-comment line as written.
	Lines []string
	// Specs holds the lines that parsed as requirements, first occurrence wins.
	Specs *RequirementsSet
	// FullyPinned is true iff every line is an exact-version requirement with a unique name.
	FullyPinned bool
}

// ParseLedger parses requirements file content.
func ParseLedger(content string) Ledger {
	ledger := Ledger{Specs: &RequirementsSet{}, FullyPinned: true}
	for _, raw := range strings.Split(content, "\n") {
		line := StripComment(raw)
		if line == "" {
			continue
		}
		ledger.Lines = append(ledger.Lines, line)
		spec, err := ParseRequirement(line)
		if err != nil {
			ledger.FullyPinned = false
			continue
		}
		if ledger.Specs.Has(spec.Name) {
			ledger.FullyPinned = false
			continue
		}
		if !spec.Pinned() {
			ledger.FullyPinned = false
		}
		ledger.Specs.Put(spec)
	}
	return ledger
}

// StripComment removes a trailing "#" comment and surrounding whitespace.
func StripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// PruneFrozen keeps only exact "name==version" entries of a freeze listing,
// dropping editable installs, direct URL references and anything unparseable.
func PruneFrozen(lines []string) []PackageSpec {
	out := make([]PackageSpec, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, raw := range lines {
		line := StripComment(raw)
		if line == "" || !strings.Contains(line, "==") {
			continue
		}
		spec, err := ParseRequirement(line)
		if err != nil || !spec.Pinned() || seen[spec.Name] {
			continue
		}
		seen[spec.Name] = true
		out = append(out, spec)
	}
	return out
}
