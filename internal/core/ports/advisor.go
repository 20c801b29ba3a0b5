package ports

import (
	"context"

	"go.trai.ch/upkeep/internal/core/domain"
)

// Advisor is the unreliable LLM-backed advisory service.
//
// Every method may fail with domain.ErrAdvisorQuotaExhausted, domain.ErrAdvisorTimeout,
// domain.ErrAdvisorMalformed or domain.ErrAdvisorRequestFailed.
//
//go:generate go run go.uber.org/mock/mockgen -source=advisor.go -destination=mocks/mock_advisor.go -package=mocks
type Advisor interface {
	// ResolveConflict proposes a corrected set of requirement lines for a failed install.
	ResolveConflict(ctx context.Context, log string, requested []string) ([]string, error)

	// DiagnoseRootCause classifies why upgrading pkg failed.
	DiagnoseRootCause(ctx context.Context, pkg string, log string) (domain.Diagnosis, error)

	// SuggestPriorVersions proposes up to k older versions of pkg likely to pass.
	SuggestPriorVersions(ctx context.Context, pkg string, failed string, log string, k int) ([]string, error)

	// ProposeDowngrades proposes version changes that may heal a failing pinned set.
	ProposeDowngrades(ctx context.Context, failing []string, log string) ([]domain.PackageSpec, error)

	// SummarizeError condenses a failure log into one line.
	SummarizeError(ctx context.Context, log string) (string, error)
}
