package orchestrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
)

// prober runs one isolated install, validate, freeze attempt. It never returns an error:
// every failure becomes a ProbeResult carrying the stage and log.
type prober struct {
	env     ports.EnvironmentProbe
	oracle  ports.ValidationOracle
	tracer  ports.Tracer
	metrics ports.RunMetrics
	logger  ports.Logger
}

func (p *prober) run(ctx context.Context, lines []string) domain.ProbeResult {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "upkeep.probe",
		ports.WithAttribute("env", domain.EnvFingerprint(lines)),
		ports.WithAttribute("requirements", len(lines)),
	)
	defer span.End()

	res := p.attempt(ctx, lines)

	span.SetAttribute("stage", string(res.Stage))
	if !res.Success && res.Log != "" {
		_, _ = io.WriteString(span, logTail(res.Log))
	}
	p.metrics.ObserveProbe(res.Stage, time.Since(start))
	return res
}

// spanLogLimit bounds the failure log attached to a probe span.
const spanLogLimit = 4096

func logTail(log string) string {
	if len(log) <= spanLogLimit {
		return log
	}
	return log[len(log)-spanLogLimit:]
}

func (p *prober) attempt(ctx context.Context, lines []string) domain.ProbeResult {
	res := domain.ProbeResult{Requested: lines}

	env, err := p.env.Create(ctx)
	if err != nil {
		res.Stage = domain.StageEnvironment
		res.Log = err.Error()
		return res
	}
	defer func() {
		if err := p.env.Destroy(context.WithoutCancel(ctx), env); err != nil {
			p.logger.Warn(fmt.Sprintf("could not remove scratch environment: %v", err))
		}
	}()

	installed, err := p.env.Install(ctx, env, lines)
	if err != nil {
		res.Stage = domain.StageInstall
		res.Log = err.Error()
		return res
	}
	if !installed.OK {
		res.Stage = domain.StageInstall
		res.Log = installed.Log
		return res
	}

	validation, err := p.oracle.Validate(ctx, env)
	if err != nil {
		validation = domain.Validation{Log: err.Error()}
	}
	res.Metrics = validation.Metrics
	res.Log = validation.Log

	frozen, freezeErr := p.env.Freeze(ctx, env)
	if freezeErr == nil {
		res.Installed = domain.PruneFrozen(frozen)
	}

	switch {
	case !validation.Success:
		res.Stage = domain.StageValidate
	case freezeErr != nil:
		res.Stage = domain.StageFreeze
		res.Log = freezeErr.Error()
	case len(res.Installed) == 0:
		res.Stage = domain.StageFreeze
		res.Log = "installed set is empty after pruning"
	default:
		res.Stage = domain.StagePassed
		res.Success = true
	}
	return res
}

// composeRequirements renders the install set for a probe: the ledger with overrides applied
// and learned constraints enforced. A pin that violates a constraint is replaced by the
// constraint itself; constraints on packages outside the ledger are appended.
func composeRequirements(
	ledger *domain.RequirementsSet,
	constraints *domain.ConstraintSet,
	overrides ...domain.PackageSpec,
) []string {
	byName := make(map[string]domain.PackageSpec, len(overrides))
	for _, o := range overrides {
		byName[o.Name] = o
	}

	lines := make([]string, 0, ledger.Len()+constraints.Len())
	seen := make(map[string]bool, ledger.Len())
	for _, spec := range ledger.Specs() {
		seen[spec.Name] = true
		if o, ok := byName[spec.Name]; ok {
			lines = append(lines, o.String())
			continue
		}
		if line := constraints.Line(spec.Name); line != "" {
			if v, err := spec.ParsedVersion(); err != nil || !constraints.Allows(spec.Name, v) {
				lines = append(lines, line)
				continue
			}
		}
		lines = append(lines, spec.String())
	}

	for _, o := range overrides {
		if !seen[o.Name] {
			seen[o.Name] = true
			lines = append(lines, o.String())
		}
	}
	for _, c := range constraints.All() {
		if !seen[c.Name] {
			seen[c.Name] = true
			lines = append(lines, constraints.Line(c.Name))
		}
	}
	return lines
}
