// Package advisory guards the unreliable advisor behind a run-scoped availability status.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
)

// Status is the advisor availability as seen by the orchestrator.
type Status string

const (
	// StatusAvailable means calls are attempted.
	StatusAvailable Status = "available"
	// StatusExhausted means the advisor reported quota exhaustion earlier in this run.
	StatusExhausted Status = "exhausted"
	// StatusDisabled means no advisor is configured.
	StatusDisabled Status = "disabled"
)

// runLifetime keeps a tripped breaker open for longer than any run.
const runLifetime = 100 * 365 * 24 * time.Hour

// Gate wraps an Advisor. Every failure mode becomes "no data". The first quota
// exhaustion trips the gate for the rest of the run; nothing is retried.
type Gate struct {
	advisor ports.Advisor
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  ports.Logger
	metrics ports.RunMetrics
}

// NewGate creates a Gate. A nil advisor yields a permanently disabled gate.
func NewGate(advisor ports.Advisor, timeout time.Duration, logger ports.Logger, metrics ports.RunMetrics) *Gate {
	g := &Gate{
		advisor: advisor,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "advisor",
		Timeout: runLifetime,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, domain.ErrAdvisorQuotaExhausted)
		},
		OnStateChange: func(_ string, _, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				logger.Warn("advisor quota exhausted, advisory features disabled for the rest of this run")
			}
		},
	})
	return g
}

// Status reports the current availability.
func (g *Gate) Status() Status {
	switch {
	case g.advisor == nil:
		return StatusDisabled
	case g.breaker.State() == gobreaker.StateOpen:
		return StatusExhausted
	default:
		return StatusAvailable
	}
}

// Available reports whether calls are currently attempted.
func (g *Gate) Available() bool {
	return g.Status() == StatusAvailable
}

func call[T any](ctx context.Context, g *Gate, op string, fn func(ctx context.Context) (T, error)) (T, bool) {
	var zero T
	if !g.Available() {
		return zero, false
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.breaker.Execute(func() (any, error) {
		return fn(callCtx)
	})
	if err != nil {
		outcome := classify(err)
		g.metrics.ObserveAdvisorCall(op, outcome)
		if !errors.Is(err, domain.ErrAdvisorQuotaExhausted) {
			g.logger.Warn(fmt.Sprintf("advisor %s returned no data (%s): %v", op, outcome, err))
		}
		return zero, false
	}
	g.metrics.ObserveAdvisorCall(op, "ok")
	value, ok := out.(T)
	return value, ok
}

func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrAdvisorQuotaExhausted):
		return "quota"
	case errors.Is(err, domain.ErrAdvisorTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrAdvisorMalformed):
		return "malformed"
	default:
		return "error"
	}
}

// ResolveConflict asks for a corrected requirement set. Proposals that do not keep
// exactly the requested package names are discarded.
func (g *Gate) ResolveConflict(ctx context.Context, log string, requested []string) ([]string, bool) {
	lines, ok := call(ctx, g, "resolve_conflict", func(ctx context.Context) ([]string, error) {
		return g.advisor.ResolveConflict(ctx, log, requested)
	})
	if !ok || len(lines) == 0 {
		return nil, false
	}
	if !sameNames(requested, lines) {
		g.logger.Warn("advisor conflict resolution changed the package set, ignoring it")
		return nil, false
	}
	return lines, true
}

// Diagnose asks which package caused an upgrade of pkg to fail.
func (g *Gate) Diagnose(ctx context.Context, pkg, log string) (domain.Diagnosis, bool) {
	d, ok := call(ctx, g, "diagnose", func(ctx context.Context) (domain.Diagnosis, error) {
		return g.advisor.DiagnoseRootCause(ctx, pkg, log)
	})
	if !ok {
		return domain.Diagnosis{}, false
	}
	switch d.Cause {
	case domain.CauseSelf:
		return d, true
	case domain.CauseIncompatibility:
		if strings.TrimSpace(d.Culprit) == "" || strings.TrimSpace(d.Constraint) == "" {
			return domain.Diagnosis{}, false
		}
		return d, true
	default:
		return domain.Diagnosis{}, false
	}
}

// SuggestPriorVersions asks for at most k older versions of pkg to try.
func (g *Gate) SuggestPriorVersions(ctx context.Context, pkg, failed, log string, k int) ([]string, bool) {
	if k <= 0 {
		return nil, false
	}
	versions, ok := call(ctx, g, "suggest_versions", func(ctx context.Context) ([]string, error) {
		return g.advisor.SuggestPriorVersions(ctx, pkg, failed, log, k)
	})
	if !ok || len(versions) == 0 {
		return nil, false
	}
	if len(versions) > k {
		versions = versions[:k]
	}
	return versions, true
}

// ProposeDowngrades asks for version changes that may heal a failing pinned set.
func (g *Gate) ProposeDowngrades(ctx context.Context, failing []string, log string) ([]domain.PackageSpec, bool) {
	changes, ok := call(ctx, g, "propose_downgrades", func(ctx context.Context) ([]domain.PackageSpec, error) {
		return g.advisor.ProposeDowngrades(ctx, failing, log)
	})
	if !ok || len(changes) == 0 {
		return nil, false
	}
	return changes, true
}

// Summarize condenses a failure log into one line.
func (g *Gate) Summarize(ctx context.Context, log string) (string, bool) {
	summary, ok := call(ctx, g, "summarize", func(ctx context.Context) (string, error) {
		return g.advisor.SummarizeError(ctx, log)
	})
	summary = strings.TrimSpace(summary)
	if !ok || summary == "" {
		return "", false
	}
	return summary, true
}

func sameNames(requested, proposed []string) bool {
	want := names(requested)
	got := names(proposed)
	if len(want) != len(got) {
		return false
	}
	for name := range want {
		if !got[name] {
			return false
		}
	}
	return true
}

func names(lines []string) map[string]bool {
	out := make(map[string]bool, len(lines))
	for _, line := range lines {
		spec, err := domain.ParseRequirement(domain.StripComment(line))
		if err != nil {
			continue
		}
		out[spec.Name] = true
	}
	return out
}
