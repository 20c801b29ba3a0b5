package domain

import (
	"cmp"
	"slices"
)

// Weights are the coefficients of the risk formula.
type Weights struct {
	Usage    float64
	Primary  float64
	Severity float64
}

// DefaultWeights returns the standard risk weights.
func DefaultWeights() Weights {
	return Weights{Usage: 5, Primary: 3, Severity: 2}
}

// RiskScore is the priority of a package within an update plan. Higher goes first.
type RiskScore struct {
	Usage    int
	Primary  bool
	Severity Severity
	Value    float64
}

// PlanItem is one planned upgrade.
type PlanItem struct {
	Name    string
	Current Version
	Target  Version
	Risk    RiskScore
}

// UpdatePlan is the ordered work list of one pass.
type UpdatePlan struct {
	Pass  int
	Items []PlanItem
}

// Empty reports whether the plan has no work.
func (p UpdatePlan) Empty() bool {
	return len(p.Items) == 0
}

// Sort orders the plan by descending risk, breaking ties by name.
func (p *UpdatePlan) Sort() {
	slices.SortStableFunc(p.Items, func(a, b PlanItem) int {
		if c := cmp.Compare(b.Risk.Value, a.Risk.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// Names returns the package names in plan order.
func (p UpdatePlan) Names() []string {
	out := make([]string, len(p.Items))
	for i, item := range p.Items {
		out[i] = item.Name
	}
	return out
}
