package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/internal/adapters/shell"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return log
}

func newOracle(t *testing.T, cfg domain.ValidationConfig) *shell.Oracle {
	t.Helper()
	if cfg.Workdir == "" {
		cfg.Workdir = t.TempDir()
	}
	o, err := shell.NewOracle(cfg, quietLogger(t))
	require.NoError(t, err)
	return o
}

func TestOracle_MultiLineOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	// Expect Info to be called once for each line
	mockLogger.EXPECT().Info("line1").Times(1)
	mockLogger.EXPECT().Info("line2").Times(1)

	o, err := shell.NewOracle(domain.ValidationConfig{
		Command: []string{"sh", "-c", "echo line1; echo line2"},
		Workdir: t.TempDir(),
	}, mockLogger)
	require.NoError(t, err)

	res, err := o.Validate(context.Background(), domain.EnvHandle{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "line1\nline2\n", res.Log)
}

func TestOracle_FragmentedOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	// Partial writes are joined until the newline arrives
	mockLogger.EXPECT().Info("part1part2").Times(1)

	o, err := shell.NewOracle(domain.ValidationConfig{
		Command: []string{"sh", "-c", "printf part1; sleep 0.1; echo part2"},
		Workdir: t.TempDir(),
	}, mockLogger)
	require.NoError(t, err)

	_, err = o.Validate(context.Background(), domain.EnvHandle{})
	require.NoError(t, err)
}

func TestOracle_StderrIsWarned(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("deprecated call").Times(1)

	o, err := shell.NewOracle(domain.ValidationConfig{
		Command: []string{"sh", "-c", "echo deprecated call >&2"},
		Workdir: t.TempDir(),
	}, mockLogger)
	require.NoError(t, err)

	res, err := o.Validate(context.Background(), domain.EnvHandle{})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestOracle_NonZeroExitFails(t *testing.T) {
	o := newOracle(t, domain.ValidationConfig{Command: []string{"sh", "-c", "echo broken; exit 42"}})

	res, err := o.Validate(context.Background(), domain.EnvHandle{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Log, "broken")
	assert.Contains(t, res.Log, "exited with code 42")
}

func TestOracle_SuccessMarker(t *testing.T) {
	cfg := domain.ValidationConfig{
		Command:       []string{"sh", "-c", "echo all done"},
		SuccessMarker: "VALIDATION OK",
	}
	res, err := newOracle(t, cfg).Validate(context.Background(), domain.EnvHandle{})
	require.NoError(t, err)
	assert.False(t, res.Success, "exit 0 without the marker fails")

	cfg.Command = []string{"sh", "-c", "echo VALIDATION OK"}
	res, err = newOracle(t, cfg).Validate(context.Background(), domain.EnvHandle{})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestOracle_Metrics(t *testing.T) {
	o := newOracle(t, domain.ValidationConfig{
		Command: []string{"sh", "-c", "echo 'Final transform_robustness: 0.81'; echo 'Final number of queries: 1200'"},
		Metrics: map[string]string{
			"transform_robustness": `Final transform_robustness:\s*([\d.]+)`,
			"queries":              `Final number of queries:\s*(\d+)`,
			"pixels":               `Final number of pixels:\s*(\d+)`,
		},
	})

	res, err := o.Validate(context.Background(), domain.EnvHandle{})
	require.NoError(t, err)
	assert.True(t, res.Success, "a missing metric does not fail validation")
	assert.Equal(t, domain.Metrics{"transform_robustness": "0.81", "queries": "1200"}, res.Metrics)
}

func TestOracle_Timeout(t *testing.T) {
	o := newOracle(t, domain.ValidationConfig{
		Command: []string{"sh", "-c", "exec sleep 5"},
		Timeout: 100 * time.Millisecond,
	})

	start := time.Now()
	res, err := o.Validate(context.Background(), domain.EnvHandle{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Log, "timed out")
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestOracle_UsesScratchEnvironment(t *testing.T) {
	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o750))

	// A fake interpreter inside the scratch bin directory shadows any system python.
	script := "#!/bin/sh\necho \"scratch python in $VIRTUAL_ENV ($PROJECT)\"\n"
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(filepath.Join(bin, "python"), []byte(script), 0o700))

	o := newOracle(t, domain.ValidationConfig{
		Command: []string{"python", "main.py"},
		Env:     map[string]string{"PROJECT": "graphite"},
	})

	res, err := o.Validate(context.Background(), domain.EnvHandle{Root: root, BinDir: bin, Python: filepath.Join(bin, "python")})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Log, "scratch python in "+root+" (graphite)")
}

func TestOracle_CommandCannotStart(t *testing.T) {
	o := newOracle(t, domain.ValidationConfig{Command: []string{"nonexistent-command-xyz123"}})

	_, err := o.Validate(context.Background(), domain.EnvHandle{})
	require.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestOracle_NoCommand(t *testing.T) {
	o := newOracle(t, domain.ValidationConfig{})

	_, err := o.Validate(context.Background(), domain.EnvHandle{})
	require.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestNewOracle_RejectsBadPatterns(t *testing.T) {
	_, err := shell.NewOracle(domain.ValidationConfig{Metrics: map[string]string{"x": "("}}, quietLogger(t))
	require.ErrorIs(t, err, domain.ErrConfigInvalid)

	_, err = shell.NewOracle(domain.ValidationConfig{Metrics: map[string]string{"x": `accuracy \d+`}}, quietLogger(t))
	require.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestResolveEnvironment(t *testing.T) {
	env := shell.ResolveEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/home/dev", "VIRTUAL_ENV=/old"},
		[]string{"PATH=/scratch/bin", "VIRTUAL_ENV=/scratch"},
		map[string]string{"HOME": "/tmp/home"},
	)
	slices.Sort(env)
	assert.Equal(t, []string{
		"HOME=/tmp/home",
		"PATH=/scratch/bin" + string(os.PathListSeparator) + "/usr/bin",
		"VIRTUAL_ENV=/scratch",
	}, env)
}
