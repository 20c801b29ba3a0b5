// Package risk ranks planned upgrades so the riskiest packages are tried first.
package risk

import (
	"cmp"
	"slices"

	"go.trai.ch/upkeep/internal/core/domain"
)

// Scorer computes deterministic risk scores from usage counts and primary membership.
// It is built once per run; scores never change during the run.
type Scorer struct {
	weights domain.Weights
	usage   map[string]int
	primary map[string]bool
}

// NewScorer creates a Scorer. Keys of usage and entries of primary may use any spelling
// of a package name; they are canonicalized.
func NewScorer(weights domain.Weights, usage map[string]int, primary []string) *Scorer {
	s := &Scorer{
		weights: weights,
		usage:   make(map[string]int, len(usage)),
		primary: make(map[string]bool, len(primary)),
	}
	for name, count := range usage {
		s.usage[domain.CanonicalName(name)] += count
	}
	for _, name := range primary {
		s.primary[domain.CanonicalName(name)] = true
	}
	return s
}

// Score computes the risk of moving name from current to target.
func (s *Scorer) Score(name string, current, target domain.Version) domain.RiskScore {
	return s.score(domain.CanonicalName(name), domain.BumpSeverity(current, target))
}

func (s *Scorer) score(name string, severity domain.Severity) domain.RiskScore {
	usage := s.usage[name]
	primary := s.primary[name]
	value := float64(usage)*s.weights.Usage + float64(severity)*s.weights.Severity
	if primary {
		value += s.weights.Primary
	}
	return domain.RiskScore{
		Usage:    usage,
		Primary:  primary,
		Severity: severity,
		Value:    value,
	}
}

// Prioritize scores every plan item and sorts the plan by descending risk.
func (s *Scorer) Prioritize(plan *domain.UpdatePlan) {
	for i := range plan.Items {
		item := &plan.Items[i]
		item.Risk = s.Score(item.Name, item.Current, item.Target)
	}
	plan.Sort()
}

// Rank orders an arbitrary subset of specs by descending risk, for healing a failing set
// where no upgrade target exists. Severity is unknown there and counts as a patch bump.
func (s *Scorer) Rank(specs []domain.PackageSpec) []domain.PackageSpec {
	ranked := slices.Clone(specs)
	scores := make(map[string]float64, len(ranked))
	for _, spec := range ranked {
		scores[spec.Name] = s.score(spec.Name, domain.SeverityPatch).Value
	}
	slices.SortStableFunc(ranked, func(a, b domain.PackageSpec) int {
		if c := cmp.Compare(scores[b.Name], scores[a.Name]); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return ranked
}
