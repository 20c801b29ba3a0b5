package commands_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/cmd/upkeep/commands"
	"go.trai.ch/upkeep/internal/adapters/metrics"
	"go.trai.ch/upkeep/internal/adapters/telemetry"
	"go.trai.ch/upkeep/internal/app"
	"go.trai.ch/upkeep/internal/build"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/upkeep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newCLI(t *testing.T, factory app.BackendFactory) (*commands.CLI, *mocks.MockConfigLoader, *domain.Config) {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	cfg := domain.DefaultConfig(t.TempDir())
	a := app.New(loader, logger)
	if factory != nil {
		a = a.WithBackends(factory)
	}
	return commands.New(a), loader, cfg
}

func TestVersion(t *testing.T) {
	cli, _, _ := newCLI(t, nil)
	var out bytes.Buffer
	cli.SetOut(&out)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "upkeep version "+build.Version+"\n", out.String())
}

func TestRoot_Help(t *testing.T) {
	cli, _, _ := newCLI(t, nil)
	var out bytes.Buffer
	cli.SetOut(&out)
	cli.SetArgs([]string{"--help"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "plan")
}

func TestRoot_UnknownLogFormat(t *testing.T) {
	cli, _, _ := newCLI(t, nil)
	cli.SetArgs([]string{"--log-format", "xml", "version"})

	assert.Error(t, cli.Execute(context.Background()))
}

func TestRun_PassesFlags(t *testing.T) {
	var seen *domain.Config
	boom := errors.New("boom")
	cli, loader, cfg := newCLI(t, func(_ context.Context, cfg *domain.Config, _ ports.Logger) (*app.Backends, error) {
		seen = cfg
		return nil, boom
	})
	cfg.Validation.Command = []string{"pytest"}
	path := filepath.Join(cfg.Root, domain.ConfigFileName)
	loader.EXPECT().Load(path).Return(cfg, nil)

	cli.SetArgs([]string{"run", "-c", path, "--max-passes", "2", "--no-advisor", "--log-format", "json"})
	err := cli.Execute(context.Background())

	require.ErrorIs(t, err, boom)
	require.NotNil(t, seen)
	assert.Equal(t, 2, seen.MaxPasses)
	assert.False(t, seen.Advisor.Enabled)
}

func TestRun_RejectsArguments(t *testing.T) {
	cli, _, _ := newCLI(t, nil)
	cli.SetArgs([]string{"run", "numpy"})

	assert.Error(t, cli.Execute(context.Background()))
}

func TestPlan_PrintsItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockRequirementsStore(ctrl)
	registry := mocks.NewMockRegistry(ctrl)
	store.EXPECT().Read().Return(domain.ParseLedger("numpy==1.26.4\nrequests==2.32.3\n"), nil)
	store.EXPECT().Path().Return("requirements.txt").AnyTimes()
	registry.EXPECT().LatestStable(gomock.Any(), "numpy").Return(domain.MustParseVersion("2.0.0"), nil)
	registry.EXPECT().LatestStable(gomock.Any(), "requests").Return(domain.MustParseVersion("2.32.3"), nil)

	cli, loader, cfg := newCLI(t, func(context.Context, *domain.Config, ports.Logger) (*app.Backends, error) {
		return &app.Backends{
			Store:    store,
			Registry: registry,
			Tracer:   telemetry.NewNoOpTracer(),
			Metrics:  metrics.New(""),
		}, nil
	})
	path := filepath.Join(cfg.Root, domain.ConfigFileName)
	loader.EXPECT().Load(path).Return(cfg, nil)

	var out bytes.Buffer
	cli.SetOut(&out)
	cli.SetArgs([]string{"plan", "--config", path})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, " 1. numpy 1.26.4 -> 2.0.0 (risk 6)\n", out.String())
}

func TestClean(t *testing.T) {
	cli, loader, cfg := newCLI(t, nil)
	path := filepath.Join(cfg.Root, domain.ConfigFileName)
	loader.EXPECT().Load(path).Return(cfg, nil)

	cli.SetArgs([]string{"clean", "-c", path})

	require.NoError(t, cli.Execute(context.Background()))
}
