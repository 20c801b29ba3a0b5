package domain

import (
	"slices"
	"time"
)

// Outcome describes how a run's pass loop ended.
type Outcome string

const (
	// OutcomeUpToDate means the first pass found nothing to upgrade.
	OutcomeUpToDate Outcome = "up-to-date"
	// OutcomeConverged means a later pass found nothing left to upgrade.
	OutcomeConverged Outcome = "converged"
	// OutcomeStable means a pass completed without any successful upgrade.
	OutcomeStable Outcome = "stable"
	// OutcomePassLimit means the configured pass bound was reached.
	OutcomePassLimit Outcome = "pass-limit"
)

// Method names the avenue through which an upgrade succeeded.
type Method string

const (
	// MethodDirect is the first attempt at the planned target.
	MethodDirect Method = "direct"
	// MethodConflictResolution is an advisor-corrected requirement set.
	MethodConflictResolution Method = "conflict-resolution"
	// MethodAdvisor is an advisor-suggested prior version.
	MethodAdvisor Method = "advisor"
	// MethodBacktrack is the binary search over version history.
	MethodBacktrack Method = "backtrack"
)

// UpdateRecord describes a persisted upgrade.
type UpdateRecord struct {
	Name    string  `yaml:"package"`
	From    string  `yaml:"from"`
	Target  string  `yaml:"target"`
	Reached string  `yaml:"reached"`
	Method  Method  `yaml:"method"`
	Pass    int     `yaml:"pass"`
	Metrics Metrics `yaml:"metrics,omitempty"`
}

// FailureRecord describes a package that could not be upgraded.
type FailureRecord struct {
	Name   string `yaml:"package"`
	Target string `yaml:"target"`
	Reason string `yaml:"reason"`
	Pass   int    `yaml:"pass"`
}

// HealthCheck is the result of validating the final combined requirement set.
type HealthCheck struct {
	Passed  bool       `yaml:"passed"`
	Stage   ProbeStage `yaml:"stage"`
	Metrics Metrics    `yaml:"metrics,omitempty"`
}

// RunSummary is the outcome of one orchestrator run.
type RunSummary struct {
	RunID         string          `yaml:"run_id"`
	StartedAt     time.Time       `yaml:"started_at"`
	FinishedAt    time.Time       `yaml:"finished_at"`
	Passes        int             `yaml:"passes"`
	Outcome       Outcome         `yaml:"outcome"`
	Bootstrapped  bool            `yaml:"bootstrapped"`
	Excluded      []string        `yaml:"excluded,omitempty"`
	Updated       []UpdateRecord  `yaml:"updated"`
	Failed        []FailureRecord `yaml:"failed"`
	Constraints   []string        `yaml:"constraints,omitempty"`
	AdvisorStatus string          `yaml:"advisor_status"`
	Health        *HealthCheck    `yaml:"health_check,omitempty"`
}

// RecordUpdate stores the latest successful upgrade of a package and clears its failure.
func (s *RunSummary) RecordUpdate(r UpdateRecord) {
	s.Failed = slices.DeleteFunc(s.Failed, func(f FailureRecord) bool { return f.Name == r.Name })
	if i := slices.IndexFunc(s.Updated, func(u UpdateRecord) bool { return u.Name == r.Name }); i >= 0 {
		r.From = s.Updated[i].From
		s.Updated[i] = r
		return
	}
	s.Updated = append(s.Updated, r)
}

// RecordFailure stores the latest failure of a package.
func (s *RunSummary) RecordFailure(f FailureRecord) {
	if i := slices.IndexFunc(s.Failed, func(x FailureRecord) bool { return x.Name == f.Name }); i >= 0 {
		s.Failed[i] = f
		return
	}
	s.Failed = append(s.Failed, f)
}

// Changed reports whether any package was upgraded.
func (s *RunSummary) Changed() bool {
	return len(s.Updated) > 0
}
