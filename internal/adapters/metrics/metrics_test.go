package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/internal/adapters/metrics"
	"go.trai.ch/upkeep/internal/core/domain"
)

func TestRecorder_Flush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node", "upkeep.prom")
	r := metrics.New(path)

	r.ObservePass()
	r.ObserveUpdate(domain.MethodBacktrack)
	r.ObserveAdvisorCall("diagnose", "ok")
	r.ObserveProbe(domain.StagePassed, 3*time.Second)
	r.ObserveFailure()

	require.NoError(t, r.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `upkeep_updates_total{method="backtrack"} 1`)
	assert.Contains(t, text, `upkeep_advisor_calls_total{operation="diagnose",outcome="ok"} 1`)
	assert.Contains(t, text, "upkeep_passes_total 1")
}

func TestRecorder_FlushWithoutTextfile(t *testing.T) {
	r := metrics.New("")
	r.ObserveFailure()

	require.NoError(t, r.Flush())
	count, err := testutil.GatherAndCount(r.Gatherer(), "upkeep_update_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
