package ports

import "go.trai.ch/upkeep/internal/core/domain"

// RunReporter presents the outcome of a run.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type RunReporter interface {
	// Report renders or persists the summary.
	Report(summary *domain.RunSummary) error
}
