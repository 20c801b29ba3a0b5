package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/zerr"
)

// Plan computes the prioritized first-pass plan for the current ledger without probing
// anything. The ledger must be fully pinned.
func (o *Orchestrator) Plan(ctx context.Context) (domain.UpdatePlan, error) {
	ledger, err := o.store.Read()
	if err != nil {
		return domain.UpdatePlan{}, err
	}
	if !ledger.FullyPinned {
		return domain.UpdatePlan{}, zerr.With(zerr.Wrap(domain.ErrLedgerNotPinned, "planning needs a fully pinned ledger"), "path", o.store.Path())
	}
	state := &runState{
		ledger:      ledger.Specs,
		constraints: &domain.ConstraintSet{},
		excluded:    map[string]bool{},
	}
	return o.plan(ctx, 1, state), nil
}

func (o *Orchestrator) plan(ctx context.Context, pass int, state *runState) domain.UpdatePlan {
	plan := domain.UpdatePlan{Pass: pass}
	for _, spec := range state.ledger.Specs() {
		if ctx.Err() != nil {
			break
		}
		if state.excluded[spec.Name] {
			continue
		}
		current, err := spec.ParsedVersion()
		if err != nil {
			o.logger.Warn(fmt.Sprintf("skipping %s: %v", spec.Name, err))
			continue
		}
		latest, err := o.registry.LatestStable(ctx, spec.Name)
		if err != nil {
			o.logger.Warn(fmt.Sprintf("could not resolve the latest version of %s: %v", spec.Name, err))
			continue
		}
		target, ok := o.target(ctx, spec.Name, current, latest, state.constraints)
		if !ok {
			continue
		}
		plan.Items = append(plan.Items, domain.PlanItem{Name: spec.Name, Current: current, Target: target})
	}

	o.scorer.Prioritize(&plan)
	o.tracer.EmitPlan(ctx, pass, plan.Names())

	if !plan.Empty() {
		steps := make([]string, len(plan.Items))
		for i, item := range plan.Items {
			steps[i] = fmt.Sprintf("%s %s->%s", item.Name, item.Current, item.Target)
		}
		o.logger.Info(fmt.Sprintf("pass %d plan: %s", pass, strings.Join(steps, ", ")))
	}
	return plan
}

// target picks the upgrade target: the latest release, or the highest release newer than
// current that satisfies the learned constraints on the package.
func (o *Orchestrator) target(
	ctx context.Context,
	name string,
	current, latest domain.Version,
	constraints *domain.ConstraintSet,
) (domain.Version, bool) {
	if !latest.GreaterThan(current) {
		return domain.Version{}, false
	}
	if constraints.Allows(name, latest) {
		return latest, true
	}

	versions, err := o.registry.VersionsInRange(ctx, name, current, latest)
	if err != nil {
		o.logger.Warn(fmt.Sprintf("could not list versions of %s: %v", name, err))
		return domain.Version{}, false
	}
	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		if v.GreaterThan(current) && !v.IsPrerelease() && constraints.Allows(name, v) {
			return v, true
		}
	}
	return domain.Version{}, false
}
