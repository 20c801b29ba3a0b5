package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/internal/adapters/logger"
	"go.trai.ch/upkeep/internal/adapters/metrics"
	"go.trai.ch/upkeep/internal/adapters/telemetry"
	"go.trai.ch/upkeep/internal/app"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/upkeep/internal/core/ports/mocks"
	"go.trai.ch/upkeep/internal/engine/advisory"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	logger   *mocks.MockLogger
	store    *mocks.MockRequirementsStore
	registry *mocks.MockRegistry
	scanner  *mocks.MockUsageScanner
	reporter *mocks.MockRunReporter
	cfg      *domain.Config
	path     string

	factoryCalls int
	seen         *domain.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	root := t.TempDir()

	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		store:    mocks.NewMockRequirementsStore(ctrl),
		registry: mocks.NewMockRegistry(ctrl),
		scanner:  mocks.NewMockUsageScanner(ctrl),
		reporter: mocks.NewMockRunReporter(ctrl),
		cfg:      domain.DefaultConfig(root),
		path:     filepath.Join(root, domain.ConfigFileName),
	}
	f.cfg.Validation.Command = []string{"pytest", "-q"}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	f.store.EXPECT().Path().Return(f.cfg.Requirements).AnyTimes()
	return f
}

func (f *fixture) app() *app.App {
	return app.New(f.loader, f.logger).WithBackends(
		func(_ context.Context, cfg *domain.Config, _ ports.Logger) (*app.Backends, error) {
			f.factoryCalls++
			f.seen = cfg
			return &app.Backends{
				Store:    f.store,
				Registry: f.registry,
				Scanner:  f.scanner,
				Tracer:   telemetry.NewNoOpTracer(),
				Metrics:  metrics.New(""),
				Reporter: f.reporter,
			}, nil
		})
}

func TestApp_Run_UpToDate(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(f.path).Return(f.cfg, nil)
	f.scanner.EXPECT().Scan(gomock.Any(), f.cfg.Scan.Root).Return(map[string]int{"numpy": 4}, nil)
	f.store.EXPECT().Read().Return(domain.ParseLedger("numpy==2.0.0\n"), nil)
	f.registry.EXPECT().LatestStable(gomock.Any(), "numpy").Return(domain.MustParseVersion("2.0.0"), nil)

	var reported *domain.RunSummary
	f.reporter.EXPECT().Report(gomock.Any()).DoAndReturn(func(s *domain.RunSummary) error {
		reported = s
		return nil
	})

	summary, err := f.app().Run(context.Background(), app.RunOptions{ConfigPath: f.path, NoAdvisor: true})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeUpToDate, summary.Outcome)
	assert.Zero(t, summary.Passes)
	assert.Equal(t, string(advisory.StatusDisabled), summary.AdvisorStatus)
	assert.Nil(t, summary.Health)
	assert.Same(t, summary, reported)
}

func TestApp_Run_LedgerMissing(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(f.path).Return(f.cfg, nil)
	f.scanner.EXPECT().Scan(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.store.EXPECT().Read().Return(domain.Ledger{}, zerr.Wrap(domain.ErrLedgerMissing, "requirements file does not exist"))
	f.reporter.EXPECT().Report(gomock.Any()).Return(nil)

	summary, err := f.app().Run(context.Background(), app.RunOptions{ConfigPath: f.path})
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrLedgerMissing)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Updated)
}

func TestApp_Run_NoValidationCommand(t *testing.T) {
	f := newFixture(t)
	f.cfg.Validation.Command = nil
	f.loader.EXPECT().Load(f.path).Return(f.cfg, nil)

	_, err := f.app().Run(context.Background(), app.RunOptions{ConfigPath: f.path})

	require.ErrorIs(t, err, domain.ErrConfigInvalid)
	assert.Zero(t, f.factoryCalls)
}

func TestApp_Run_ConfigLoaderError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(nil, zerr.Wrap(domain.ErrConfigInvalid, "broken"))

	_, err := f.app().Run(context.Background(), app.RunOptions{})

	require.ErrorIs(t, err, domain.ErrConfigInvalid)
	assert.Zero(t, f.factoryCalls)
}

func TestApp_Run_AppliesOverrides(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(f.path).Return(f.cfg, nil)
	boom := errors.New("boom")

	a := app.New(f.loader, f.logger).WithBackends(
		func(_ context.Context, cfg *domain.Config, _ ports.Logger) (*app.Backends, error) {
			f.seen = cfg
			return nil, boom
		})
	_, err := a.Run(context.Background(), app.RunOptions{ConfigPath: f.path, MaxPasses: 2, NoAdvisor: true})

	require.ErrorIs(t, err, boom)
	require.NotNil(t, f.seen)
	assert.Equal(t, 2, f.seen.MaxPasses)
	assert.False(t, f.seen.Advisor.Enabled)
}

func TestApp_Run_ScanFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(f.path).Return(f.cfg, nil)
	f.scanner.EXPECT().Scan(gomock.Any(), gomock.Any()).Return(nil, errors.New("permission denied"))
	f.store.EXPECT().Read().Return(domain.ParseLedger("numpy==2.0.0\n"), nil)
	f.registry.EXPECT().LatestStable(gomock.Any(), "numpy").Return(domain.MustParseVersion("2.0.0"), nil)
	f.reporter.EXPECT().Report(gomock.Any()).Return(errors.New("terminal closed"))

	summary, err := f.app().Run(context.Background(), app.RunOptions{ConfigPath: f.path})

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpToDate, summary.Outcome)
}

func TestApp_Plan(t *testing.T) {
	f := newFixture(t)
	f.cfg.Validation.Command = nil
	f.loader.EXPECT().Load(f.path).Return(f.cfg, nil)
	f.scanner.EXPECT().Scan(gomock.Any(), gomock.Any()).Return(map[string]int{"pandas": 10}, nil)
	f.store.EXPECT().Read().Return(domain.ParseLedger("numpy==1.26.4\npandas==2.0.0\nrequests==2.32.3\n"), nil)
	f.registry.EXPECT().LatestStable(gomock.Any(), "numpy").Return(domain.MustParseVersion("2.0.0"), nil)
	f.registry.EXPECT().LatestStable(gomock.Any(), "pandas").Return(domain.MustParseVersion("2.2.0"), nil)
	f.registry.EXPECT().LatestStable(gomock.Any(), "requests").Return(domain.MustParseVersion("2.32.3"), nil)

	plan, err := f.app().Plan(context.Background(), app.RunOptions{ConfigPath: f.path})
	require.NoError(t, err)

	assert.Equal(t, []string{"pandas", "numpy"}, plan.Names())
}

func TestApp_Plan_NotPinned(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(f.path).Return(f.cfg, nil)
	f.scanner.EXPECT().Scan(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.store.EXPECT().Read().Return(domain.ParseLedger("numpy>=1.0\n"), nil)

	_, err := f.app().Plan(context.Background(), app.RunOptions{ConfigPath: f.path})

	require.ErrorIs(t, err, domain.ErrLedgerNotPinned)
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	for _, dir := range []string{f.cfg.ScratchDir, f.cfg.Registry.CacheDir} {
		require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "stale"), []byte("x"), domain.FilePerm))
	}
	f.loader.EXPECT().Load(f.path).Return(f.cfg, nil)

	require.NoError(t, f.app().Clean(context.Background(), app.RunOptions{ConfigPath: f.path}))

	assert.NoDirExists(t, f.cfg.ScratchDir)
	assert.NoDirExists(t, f.cfg.Registry.CacheDir)
}

func TestApp_SetLogFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.New()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	app.New(mocks.NewMockConfigLoader(ctrl), log).SetLogFormat(true)
	log.Info("hello")

	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
}
