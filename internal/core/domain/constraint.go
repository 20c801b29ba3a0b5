package domain

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

var clausePattern = regexp.MustCompile(`^(~=|===|==|!=|<=|>=|<|>)?\s*(\S+)$`)

// Constraint is a version predicate on one package, learned during a run.
type Constraint struct {
	// Name is the canonical package name.
	Name string
	// Predicate is the comparison text, e.g. "<4" or ">=3.20,<4".
	Predicate string

	clauses []clause
}

// clause is one comparison of a predicate. Wildcard clauses ("==1.4.*") are checked
// through semver; every other clause compares release precedence directly.
type clause struct {
	op       string
	operand  Version
	wildcard *semver.Constraints
}

// NewConstraint builds a constraint for name from a predicate such as "<4".
// A predicate that repeats the package name ("protobuf<4") is accepted.
func NewConstraint(name, predicate string) (Constraint, error) {
	name = CanonicalName(name)
	predicate = strings.TrimSpace(predicate)
	if m := specPattern.FindStringSubmatch(predicate); m != nil && m[1] != "" && isNameStart(predicate[0]) {
		if CanonicalName(m[1]) != name {
			return Constraint{}, invalidConstraint(name, predicate)
		}
		predicate = strings.TrimSpace(m[3])
	}
	if name == "" || predicate == "" {
		return Constraint{}, invalidConstraint(name, predicate)
	}

	clauses, err := parseClauses(predicate)
	if err != nil {
		return Constraint{}, zerr.With(err, "package", name)
	}
	return Constraint{Name: name, Predicate: compactPredicate(predicate), clauses: clauses}, nil
}

// ParseConstraintLine parses a requirement-style constraint line such as "protobuf<4".
func ParseConstraintLine(line string) (Constraint, error) {
	m := specPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil || m[3] == "" {
		return Constraint{}, zerr.With(zerr.Wrap(ErrInvalidConstraint, "unusable constraint"), "line", line)
	}
	return NewConstraint(m[1], m[3])
}

func invalidConstraint(name, predicate string) error {
	err := zerr.Wrap(ErrInvalidConstraint, "unusable constraint")
	return zerr.With(zerr.With(err, "package", name), "predicate", predicate)
}

func invalidClause(text string) error {
	return zerr.With(zerr.Wrap(ErrInvalidConstraint, "unusable constraint"), "clause", text)
}

func isNameStart(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func compactPredicate(predicate string) string {
	return strings.Join(strings.Fields(predicate), "")
}

// parseClauses splits a comma-separated list of Python version clauses.
func parseClauses(predicate string) ([]clause, error) {
	parts := strings.Split(predicate, ",")
	out := make([]clause, 0, len(parts))
	for _, text := range parts {
		text = strings.TrimSpace(text)
		m := clausePattern.FindStringSubmatch(text)
		if m == nil {
			return nil, invalidClause(text)
		}
		op, operand := m[1], m[2]
		if op == "" || op == "===" {
			op = "=="
		}

		if strings.HasSuffix(operand, ".*") {
			if op != "==" && op != "!=" {
				return nil, invalidClause(text)
			}
			check, err := semver.NewConstraint(strings.TrimPrefix(op, "=") + operand)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(ErrInvalidConstraint, err.Error()), "clause", text)
			}
			out = append(out, clause{op: op, wildcard: check})
			continue
		}

		v, err := ParseVersion(operand)
		if err != nil {
			return nil, invalidClause(text)
		}
		if op == "~=" && len(v.release) < 2 {
			return nil, invalidClause(text)
		}
		out = append(out, clause{op: op, operand: v})
	}
	return out, nil
}

func (c clause) allows(v Version) bool {
	if c.wildcard != nil {
		return c.wildcard.Check(v.Semver())
	}
	order := v.Compare(c.operand)
	switch c.op {
	case "==":
		return order == 0
	case "!=":
		return order != 0
	case "<=":
		return order <= 0
	case ">=":
		return order >= 0
	case "<":
		// A pre-release of the bound itself is excluded unless the bound is a pre-release.
		return order < 0 && !(v.IsPrerelease() && !c.operand.IsPrerelease() && sameRelease(v, c.operand))
	case ">":
		// Likewise a post-release of the bound.
		return order > 0 && !(v.post != absent && c.operand.post == absent && sameRelease(v, c.operand))
	case "~=":
		return order >= 0 && hasPrefix(v, c.operand.release[:len(c.operand.release)-1])
	default:
		return false
	}
}

func sameRelease(a, b Version) bool {
	for i := range max(len(a.release), len(b.release)) {
		if a.segment(i) != b.segment(i) {
			return false
		}
	}
	return true
}

func hasPrefix(v Version, prefix []uint64) bool {
	for i, n := range prefix {
		if v.segment(i) != n {
			return false
		}
	}
	return true
}

// Allows reports whether v satisfies every clause of the constraint.
func (c Constraint) Allows(v Version) bool {
	if len(c.clauses) == 0 || v.IsZero() {
		return false
	}
	for _, cl := range c.clauses {
		if !cl.allows(v) {
			return false
		}
	}
	return true
}

// String renders the constraint as a requirement line.
func (c Constraint) String() string {
	return c.Name + c.Predicate
}

// ConstraintSet is the run-scoped, append-only collection of learned constraints.
// The zero value is empty and ready to use.
type ConstraintSet struct {
	items []Constraint
}

// Add records c. It reports false when an identical constraint is already present.
func (s *ConstraintSet) Add(c Constraint) bool {
	for _, existing := range s.items {
		if existing.Name == c.Name && existing.Predicate == c.Predicate {
			return false
		}
	}
	s.items = append(s.items, c)
	return true
}

// Len returns the number of learned constraints.
func (s *ConstraintSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// All returns the learned constraints in the order they were learned.
func (s *ConstraintSet) All() []Constraint {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

// For returns the constraints that apply to the named package.
func (s *ConstraintSet) For(name string) []Constraint {
	if s == nil {
		return nil
	}
	name = CanonicalName(name)
	var out []Constraint
	for _, c := range s.items {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Allows reports whether version v of the named package satisfies every applicable constraint.
func (s *ConstraintSet) Allows(name string, v Version) bool {
	for _, c := range s.For(name) {
		if !c.Allows(v) {
			return false
		}
	}
	return true
}

// Line renders all predicates on the named package as one requirement line,
// or "" when none apply.
func (s *ConstraintSet) Line(name string) string {
	cs := s.For(name)
	if len(cs) == 0 {
		return ""
	}
	preds := make([]string, len(cs))
	for i, c := range cs {
		preds[i] = c.Predicate
	}
	return cs[0].Name + strings.Join(preds, ",")
}

// Strings renders every constraint as a requirement line.
func (s *ConstraintSet) Strings() []string {
	all := s.All()
	out := make([]string, len(all))
	for i, c := range all {
		out[i] = c.String()
	}
	return out
}
