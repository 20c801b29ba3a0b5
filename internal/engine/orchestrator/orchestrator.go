// Package orchestrator drives the multi-pass upgrade state machine: bootstrap a pinned
// baseline, then plan, prioritize and try upgrades pass after pass, learning constraints
// along the way, until the plan is empty, a pass makes no progress or the pass bound is hit.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/upkeep/internal/engine/advisory"
	"go.trai.ch/upkeep/internal/engine/backtrack"
	"go.trai.ch/upkeep/internal/engine/risk"
	"go.trai.ch/zerr"
)

// State is a node of the run state machine.
type State string

const (
	// StateIdle is the state before Run.
	StateIdle State = "idle"
	// StateBootstrap establishes a fully pinned, passing baseline.
	StateBootstrap State = "bootstrap"
	// StatePlanPass computes and prioritizes the next pass's plan.
	StatePlanPass State = "plan-pass"
	// StateExecutePass works through the plan.
	StateExecutePass State = "execute-pass"
	// StateConverged is the normal terminal state.
	StateConverged State = "converged"
	// StateFatal is the terminal state after an unrecoverable error.
	StateFatal State = "fatal"
)

// Deps are the collaborators of an Orchestrator. Committer and Journal are optional.
type Deps struct {
	Store     ports.RequirementsStore
	Registry  ports.Registry
	Probe     ports.EnvironmentProbe
	Oracle    ports.ValidationOracle
	Advisor   *advisory.Gate
	Scorer    *risk.Scorer
	Committer ports.Committer
	Journal   ports.UpdateJournal
	Tracer    ports.Tracer
	Metrics   ports.RunMetrics
	Logger    ports.Logger
}

// Settings bound the run.
type Settings struct {
	// MaxPasses is the maximum number of plan/execute passes.
	MaxPasses int
	// MaxCandidates bounds advisor version suggestions and bootstrap heal attempts.
	MaxCandidates int
}

// Orchestrator runs one upgrade session against a requirements ledger.
type Orchestrator struct {
	store     ports.RequirementsStore
	registry  ports.Registry
	advisor   *advisory.Gate
	scorer    *risk.Scorer
	committer ports.Committer
	journal   ports.UpdateJournal
	tracer    ports.Tracer
	metrics   ports.RunMetrics
	logger    ports.Logger

	probe    *prober
	searcher *backtrack.Searcher
	settings Settings
	state    State
}

// New creates an Orchestrator.
func New(deps Deps, settings Settings) *Orchestrator {
	if settings.MaxPasses < 1 {
		settings.MaxPasses = 1
	}
	return &Orchestrator{
		store:     deps.Store,
		registry:  deps.Registry,
		advisor:   deps.Advisor,
		scorer:    deps.Scorer,
		committer: deps.Committer,
		journal:   deps.Journal,
		tracer:    deps.Tracer,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		probe: &prober{
			env:     deps.Probe,
			oracle:  deps.Oracle,
			tracer:  deps.Tracer,
			metrics: deps.Metrics,
			logger:  deps.Logger,
		},
		searcher: backtrack.New(deps.Registry, deps.Logger),
		settings: settings,
		state:    StateIdle,
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) transition(to State) {
	if o.state == to {
		return
	}
	o.state = to
}

// runState is the mutable state of one run, handed explicitly to each pass.
type runState struct {
	ledger      *domain.RequirementsSet
	constraints *domain.ConstraintSet
	excluded    map[string]bool
	summary     *domain.RunSummary
}

// Run executes the whole session. The returned summary is populated even on error.
// Errors are fatal: a missing or unwritable ledger, an unrecoverable bootstrap,
// or cancellation of ctx.
func (o *Orchestrator) Run(ctx context.Context) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{RunID: uuid.NewString(), StartedAt: time.Now()}
	defer func() {
		summary.FinishedAt = time.Now()
		summary.AdvisorStatus = string(o.advisor.Status())
	}()

	ctx, span := o.tracer.Start(ctx, "upkeep.run", ports.WithAttribute("run_id", summary.RunID))
	defer span.End()

	state, err := o.establishBaseline(ctx, summary)
	if err != nil {
		o.transition(StateFatal)
		span.RecordError(err)
		return summary, err
	}

	if err := o.loop(ctx, state); err != nil {
		o.transition(StateFatal)
		span.RecordError(err)
		summary.Constraints = state.constraints.Strings()
		return summary, err
	}
	o.transition(StateConverged)
	summary.Constraints = state.constraints.Strings()
	o.logger.Info(fmt.Sprintf("run finished after %d passes: %s", summary.Passes, summary.Outcome))

	if summary.Changed() {
		summary.Health = o.healthCheck(ctx, state)
	}
	return summary, nil
}

func (o *Orchestrator) establishBaseline(ctx context.Context, summary *domain.RunSummary) (*runState, error) {
	ledger, err := o.store.Read()
	if err != nil {
		return nil, err
	}

	state := &runState{
		constraints: &domain.ConstraintSet{},
		excluded:    make(map[string]bool),
		summary:     summary,
	}

	if !ledger.FullyPinned {
		o.transition(StateBootstrap)
		healed, err := o.bootstrap(ctx, ledger)
		if err != nil {
			return nil, err
		}
		summary.Bootstrapped = true
		summary.Excluded = healed
		for _, name := range healed {
			state.excluded[name] = true
		}
		ledger, err = o.store.Read()
		if err != nil {
			return nil, err
		}
		if !ledger.FullyPinned {
			return nil, zerr.Wrap(domain.ErrNoBaseline, "baseline ledger is not fully pinned")
		}
	}

	state.ledger = ledger.Specs
	return state, nil
}

// loop plans and executes passes. Only a pass that executes a non-empty plan counts
// towards summary.Passes and the pass bound; the final empty plan does not.
func (o *Orchestrator) loop(ctx context.Context, state *runState) error {
	summary := state.summary
	for {
		if err := ctx.Err(); err != nil {
			return zerr.Wrap(err, "run interrupted")
		}
		pass := summary.Passes + 1

		o.transition(StatePlanPass)
		passCtx, span := o.tracer.Start(ctx, "upkeep.pass", ports.WithAttribute("pass", pass))
		plan := o.plan(passCtx, pass, state)
		if plan.Empty() {
			span.End()
			if summary.Passes == 0 && len(state.excluded) == 0 {
				o.logger.Info("all packages are up to date")
				summary.Outcome = domain.OutcomeUpToDate
			} else {
				o.logger.Info("no upgrades left, converged")
				summary.Outcome = domain.OutcomeConverged
			}
			return nil
		}
		if pass > o.settings.MaxPasses {
			span.End()
			o.logger.Warn(fmt.Sprintf("pass limit of %d reached", o.settings.MaxPasses))
			summary.Outcome = domain.OutcomePassLimit
			return nil
		}

		summary.Passes = pass
		o.metrics.ObservePass()
		o.transition(StateExecutePass)
		result, err := o.executePass(passCtx, plan, state)
		span.End()
		if err != nil {
			return err
		}
		if result.learned {
			o.logger.Info(fmt.Sprintf("pass %d ended early with a new constraint, restarting", pass))
			continue
		}
		if !result.changed {
			o.logger.Info(fmt.Sprintf("pass %d made no progress, stopping", pass))
			summary.Outcome = domain.OutcomeStable
			return nil
		}
	}
}

func (o *Orchestrator) healthCheck(ctx context.Context, state *runState) *domain.HealthCheck {
	ctx, span := o.tracer.Start(ctx, "upkeep.health_check")
	defer span.End()

	lines := state.ledger.Lines()
	if ledger, err := o.store.Read(); err == nil {
		lines = ledger.Lines
	} else {
		o.logger.Warn(fmt.Sprintf("could not re-read ledger for the health check: %v", err))
	}

	o.logger.Info("running final health check on the combined requirement set")
	res := o.probe.run(ctx, lines)
	check := &domain.HealthCheck{Passed: res.Success, Stage: res.Stage, Metrics: res.Metrics}
	if res.Success {
		o.logger.Info("final health check passed")
	} else {
		o.logger.Warn(fmt.Sprintf("final health check failed at the %s stage, individual upgrades are kept", res.Stage))
	}
	return check
}
