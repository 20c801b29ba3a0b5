package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/internal/adapters/report"
	"go.trai.ch/upkeep/internal/core/domain"
	"gopkg.in/yaml.v3"
)

func sampleSummary() *domain.RunSummary {
	start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	return &domain.RunSummary{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(12 * time.Minute),
		Passes:     3,
		Outcome:    domain.OutcomeConverged,
		Updated: []domain.UpdateRecord{{
			Name: "pandas", From: "2.0.0", Target: "2.1.0", Reached: "2.1.0",
			Method: domain.MethodDirect, Pass: 1, Metrics: domain.Metrics{"accuracy": "0.93"},
		}},
		Failed: []domain.FailureRecord{{
			Name: "numpy", Target: "2.1.0", Reason: "validation failed; all healing avenues exhausted", Pass: 2,
		}},
		Constraints:   []string{"protobuf<4"},
		AdvisorStatus: "available",
		Health:        &domain.HealthCheck{Passed: true, Stage: domain.StagePassed},
	}
}

func TestJournal_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "metrics_output.txt")
	j := report.NewJournal(path)
	assert.Equal(t, path, j.Path())

	require.NoError(t, j.Append(domain.UpdateRecord{
		Name: "pandas", From: "2.0.0", Target: "2.1.0", Reached: "2.1.0",
		Method: domain.MethodDirect, Pass: 1,
		Metrics: domain.Metrics{"transform_robustness": "0.81", "queries": "1200"},
	}))
	require.NoError(t, j.Append(domain.UpdateRecord{
		Name: "numpy", From: "1.26.4", Target: "2.1.0", Reached: "2.0.0",
		Method: domain.MethodBacktrack, Pass: 2,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "journal", data)
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.yaml")
	require.NoError(t, report.WriteSummary(path, sampleSummary()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.RunSummary
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, *sampleSummary(), decoded)
	assert.Contains(t, string(data), "outcome: converged")
	assert.Contains(t, string(data), "package: pandas")
	assert.Contains(t, string(data), "health_check:")
}

func TestPrinter_Print(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.NewPrinterWithProfile(&buf, termenv.Ascii).Print(sampleSummary()))

	out := buf.String()
	assert.Contains(t, out, "Upgrade summary")
	assert.Contains(t, out, "run run-1, 3 passes, converged")
	assert.Contains(t, out, "1 updated")
	assert.Contains(t, out, "pandas")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "all healing avenues exhausted")
	assert.Contains(t, out, "Learned constraints: protobuf<4")
	assert.Contains(t, out, "final health check passed")
	assert.NotContains(t, out, "\x1b[", "the ascii profile emits no escape codes")
}

func TestPrinter_UpToDate(t *testing.T) {
	var buf bytes.Buffer
	s := &domain.RunSummary{RunID: "run-2", Passes: 1, Outcome: domain.OutcomeUpToDate}
	require.NoError(t, report.NewPrinterWithProfile(&buf, termenv.Ascii).Print(s))

	assert.Contains(t, buf.String(), "all packages are up to date")
	assert.NotContains(t, buf.String(), "Package")
}

func TestReporter_Report(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.yaml")
	var buf bytes.Buffer

	err := report.NewReporter(&buf, path).Report(sampleSummary())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "pandas")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id: run-1")
}

func TestReporter_NoSummaryFile(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.NewReporter(&buf, "").Report(sampleSummary()))
	assert.NotEmpty(t, buf.String())
}
