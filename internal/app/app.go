// Package app implements the application layer for upkeep.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/upkeep/internal/engine/advisory"
	"go.trai.ch/upkeep/internal/engine/orchestrator"
	"go.trai.ch/upkeep/internal/engine/risk"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 10 * time.Second

// RunOptions are the command line overrides applied on top of the configuration file.
type RunOptions struct {
	// ConfigPath is the configuration file. Empty means discover it from the working directory.
	ConfigPath string
	// MaxPasses overrides max_passes when positive.
	MaxPasses int
	// NoAdvisor disables the advisor for this run.
	NoAdvisor bool
}

// App represents the main application logic.
type App struct {
	loader   ports.ConfigLoader
	logger   ports.Logger
	backends BackendFactory
	discover func(cwd string) string
}

// New creates a new App instance wired to the real adapters.
func New(loader ports.ConfigLoader, logger ports.Logger) *App {
	return &App{
		loader:   loader,
		logger:   logger,
		backends: DefaultBackends,
		discover: discoverConfig,
	}
}

// WithBackends replaces the factory used to build the run's adapters.
func (a *App) WithBackends(factory BackendFactory) *App {
	a.backends = factory
	return a
}

// SetLogFormat switches the logger between the pretty and the JSON format.
func (a *App) SetLogFormat(json bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(json)
	}
}

// Run executes one upgrade session and reports its outcome. The summary is returned
// even when the run fails.
func (a *App) Run(ctx context.Context, opts RunOptions) (*domain.RunSummary, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if len(cfg.Validation.Command) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "no validation command configured"),
			"field", "validation.command")
	}

	s, err := a.open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer s.close()

	summary, runErr := s.orchestrator.Run(ctx)
	if summary != nil && s.backends.Reporter != nil {
		if err := s.backends.Reporter.Report(summary); err != nil {
			a.logger.Warn(fmt.Sprintf("could not report the run summary: %v", err))
		}
	}
	if runErr != nil {
		return summary, zerr.Wrap(runErr, "upgrade run failed")
	}
	return summary, nil
}

// Plan computes the prioritized upgrade plan for the current ledger without probing.
func (a *App) Plan(ctx context.Context, opts RunOptions) (domain.UpdatePlan, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return domain.UpdatePlan{}, err
	}
	s, err := a.open(ctx, cfg)
	if err != nil {
		return domain.UpdatePlan{}, err
	}
	defer s.close()

	plan, err := s.orchestrator.Plan(ctx)
	if err != nil {
		return domain.UpdatePlan{}, zerr.Wrap(err, "failed to plan upgrades")
	}
	return plan, nil
}

// Clean removes the scratch environment and the registry cache.
func (a *App) Clean(_ context.Context, opts RunOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}
	for _, dir := range []string{cfg.ScratchDir, cfg.Registry.CacheDir} {
		if dir == "" {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove directory"), "path", dir)
		}
		a.logger.Info("removed " + dir)
	}
	return nil
}

func (a *App) loadConfig(opts RunOptions) (*domain.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to get working directory")
		}
		path = a.discover(cwd)
	}

	cfg, err := a.loader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.MaxPasses > 0 {
		cfg.MaxPasses = opts.MaxPasses
	}
	if opts.NoAdvisor {
		cfg.Advisor.Enabled = false
	}
	return cfg, nil
}

// session is one set of opened backends and the orchestrator driving them.
type session struct {
	backends     *Backends
	orchestrator *orchestrator.Orchestrator
	logger       ports.Logger
}

func (a *App) open(ctx context.Context, cfg *domain.Config) (*session, error) {
	b, err := a.backends(ctx, cfg, a.logger)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to prepare backends")
	}

	var usage map[string]int
	if b.Scanner != nil {
		usage, err = b.Scanner.Scan(ctx, cfg.Scan.Root)
		if err != nil {
			a.logger.Warn(fmt.Sprintf("import scan failed, usage will not affect priorities: %v", err))
			usage = nil
		}
	}

	gate := advisory.NewGate(b.Advisor, cfg.Advisor.Timeout, a.logger, b.Metrics)
	orch := orchestrator.New(orchestrator.Deps{
		Store:     b.Store,
		Registry:  b.Registry,
		Probe:     b.Probe,
		Oracle:    b.Oracle,
		Advisor:   gate,
		Scorer:    risk.NewScorer(cfg.Weights, usage, b.Primary),
		Committer: b.Committer,
		Journal:   b.Journal,
		Tracer:    b.Tracer,
		Metrics:   b.Metrics,
		Logger:    a.logger,
	}, orchestrator.Settings{
		MaxPasses:     cfg.MaxPasses,
		MaxCandidates: cfg.Advisor.MaxCandidates,
	})
	return &session{backends: b, orchestrator: orch, logger: a.logger}, nil
}

// close flushes metrics and traces. It runs on a fresh context so an interrupted run
// still exports what it recorded.
func (s *session) close() {
	if err := s.backends.Metrics.Flush(); err != nil {
		s.logger.Warn(fmt.Sprintf("could not write run metrics: %v", err))
	}
	if s.backends.Shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.backends.Shutdown(ctx); err != nil {
		s.logger.Warn(fmt.Sprintf("could not flush traces: %v", err))
	}
}
