// Package metrics implements ports.RunMetrics with Prometheus collectors exported
// to a node-exporter textfile.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Recorder collects run metrics in a private registry.
type Recorder struct {
	textfile string
	registry *prometheus.Registry

	probes       *prometheus.HistogramVec
	advisorCalls *prometheus.CounterVec
	updates      *prometheus.CounterVec
	failures     prometheus.Counter
	passes       prometheus.Counter
	lastRun      prometheus.Gauge
}

var _ ports.RunMetrics = (*Recorder)(nil)

// New creates a Recorder. When textfile is empty Flush does nothing.
func New(textfile string) *Recorder {
	r := &Recorder{
		textfile: textfile,
		registry: prometheus.NewRegistry(),
		probes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "upkeep",
			Name:      "probe_duration_seconds",
			Help:      "Duration of install-and-validate probes by final stage.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"stage"}),
		advisorCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "upkeep",
			Name:      "advisor_calls_total",
			Help:      "Advisor calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "upkeep",
			Name:      "updates_total",
			Help:      "Persisted package upgrades by method.",
		}, []string{"method"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "upkeep",
			Name:      "update_failures_total",
			Help:      "Packages that could not be upgraded in a pass.",
		}),
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "upkeep",
			Name:      "passes_total",
			Help:      "Update passes started.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "upkeep",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last flush.",
		}),
	}
	r.registry.MustRegister(r.probes, r.advisorCalls, r.updates, r.failures, r.passes, r.lastRun)
	return r
}

// ObserveProbe records a finished probe.
func (r *Recorder) ObserveProbe(stage domain.ProbeStage, elapsed time.Duration) {
	r.probes.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
}

// ObserveAdvisorCall records an advisor call and how it ended.
func (r *Recorder) ObserveAdvisorCall(operation, outcome string) {
	r.advisorCalls.WithLabelValues(operation, outcome).Inc()
}

// ObserveUpdate records a persisted upgrade.
func (r *Recorder) ObserveUpdate(method domain.Method) {
	r.updates.WithLabelValues(string(method)).Inc()
}

// ObserveFailure records a package that could not be upgraded in a pass.
func (r *Recorder) ObserveFailure() {
	r.failures.Inc()
}

// ObservePass records a started pass.
func (r *Recorder) ObservePass() {
	r.passes.Inc()
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Flush writes the metrics to the textfile.
func (r *Recorder) Flush() error {
	if r.textfile == "" {
		return nil
	}
	r.lastRun.SetToCurrentTime()
	if err := os.MkdirAll(filepath.Dir(r.textfile), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create metrics directory")
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics textfile"), "path", r.textfile)
	}
	return nil
}
