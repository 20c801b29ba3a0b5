package ports

import (
	"time"

	"go.trai.ch/upkeep/internal/core/domain"
)

// RunMetrics collects counters and timings for one run.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type RunMetrics interface {
	// ObserveProbe records a finished probe.
	ObserveProbe(stage domain.ProbeStage, elapsed time.Duration)
	// ObserveAdvisorCall records an advisor call and how it ended.
	ObserveAdvisorCall(operation string, outcome string)
	// ObserveUpdate records a persisted upgrade.
	ObserveUpdate(method domain.Method)
	// ObserveFailure records a package that could not be upgraded in a pass.
	ObserveFailure()
	// ObservePass records a started pass.
	ObservePass()
	// Flush writes the collected metrics to their sink.
	Flush() error
}
