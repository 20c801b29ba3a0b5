package app

import (
	"context"
	"fmt"
	"os"

	"go.trai.ch/upkeep/internal/adapters/advisor"   //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/gitvcs"    //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/ledger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/pypi"      //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/report"    //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/scan"      //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/adapters/venv"      //nolint:depguard // Wired in app layer
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
)

// Backends are the adapters one run works against. Advisor, Scanner, Committer, Journal,
// Reporter and Shutdown may be nil.
type Backends struct {
	Store     ports.RequirementsStore
	Registry  ports.Registry
	Probe     ports.EnvironmentProbe
	Oracle    ports.ValidationOracle
	Advisor   ports.Advisor
	Scanner   ports.UsageScanner
	Committer ports.Committer
	Journal   ports.UpdateJournal
	Tracer    ports.Tracer
	Metrics   ports.RunMetrics
	Reporter  ports.RunReporter
	// Primary lists the canonical names of the directly required packages.
	Primary  []string
	Shutdown func(ctx context.Context) error
}

// BackendFactory builds the backends for a resolved configuration.
type BackendFactory func(ctx context.Context, cfg *domain.Config, logger ports.Logger) (*Backends, error)

func discoverConfig(cwd string) string {
	return config.Discover(cwd)
}

// DefaultBackends builds the production adapters.
func DefaultBackends(ctx context.Context, cfg *domain.Config, logger ports.Logger) (*Backends, error) {
	oracle, err := shell.NewOracle(cfg.Validation, logger)
	if err != nil {
		return nil, err
	}
	primary, err := ledger.ReadNames(cfg.PrimaryRequirements)
	if err != nil {
		return nil, err
	}
	tracer, shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	b := &Backends{
		Store:    ledger.NewStore(cfg.Requirements),
		Registry: pypi.New(cfg.Registry, logger),
		Probe:    venv.New(cfg.Probe, cfg.ScratchDir, logger),
		Oracle:   oracle,
		Scanner:  scan.New(cfg.Scan),
		Tracer:   tracer,
		Metrics:  metrics.New(cfg.Report.Textfile),
		Reporter: report.NewReporter(os.Stdout, cfg.Report.SummaryFile),
		Primary:  primary,
		Shutdown: shutdown,
	}
	if cfg.Git.Enabled {
		b.Committer = gitvcs.New(cfg.Root, cfg.Git)
	}
	if cfg.Report.MetricsFile != "" {
		b.Journal = report.NewJournal(cfg.Report.MetricsFile)
	}
	if cfg.Advisor.Enabled {
		if key := os.Getenv(cfg.Advisor.APIKeyEnv); key != "" {
			b.Advisor = advisor.New(cfg.Advisor, key, logger)
		} else {
			logger.Warn(fmt.Sprintf("%s is not set, running without the advisor", cfg.Advisor.APIKeyEnv))
		}
	}
	return b, nil
}
