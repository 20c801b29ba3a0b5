package orchestrator

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/upkeep/internal/engine/backtrack"
	"go.trai.ch/zerr"
)

type itemOutcome int

const (
	outcomeFailed itemOutcome = iota
	outcomeUpdated
	outcomeLearned
	outcomeUnchanged
)

type passResult struct {
	changed bool
	learned bool
}

func (o *Orchestrator) executePass(ctx context.Context, plan domain.UpdatePlan, state *runState) (passResult, error) {
	var result passResult
	for _, item := range plan.Items {
		if err := ctx.Err(); err != nil {
			return result, zerr.Wrap(err, "run interrupted")
		}
		outcome, err := o.update(ctx, plan.Pass, item, state)
		if err != nil {
			return result, err
		}
		switch outcome {
		case outcomeUpdated:
			result.changed = true
		case outcomeLearned:
			result.learned = true
			return result, nil
		case outcomeFailed:
			o.metrics.ObserveFailure()
		}
	}
	return result, nil
}

// update runs the healing chain for one plan item: direct attempt, advisor conflict
// resolution, root-cause diagnosis, advisor-suggested versions, then binary search.
func (o *Orchestrator) update(ctx context.Context, pass int, item domain.PlanItem, state *runState) (itemOutcome, error) {
	ctx, span := o.tracer.Start(ctx, "upkeep.update",
		ports.WithAttribute("package", item.Name),
		ports.WithAttribute("from", item.Current.String()),
		ports.WithAttribute("to", item.Target.String()),
	)
	defer span.End()

	o.logger.Info(fmt.Sprintf("updating %s from %s to %s (risk %.0f)",
		item.Name, item.Current, item.Target, item.Risk.Value))

	direct := o.tryVersion(ctx, state, item.Name, item.Target)
	if direct.Success {
		return o.persist(ctx, pass, item, direct, domain.MethodDirect, state)
	}
	reason := o.failureReason(ctx, direct)
	o.logger.Warn(fmt.Sprintf("%s %s failed: %s", item.Name, item.Target, reason))

	if direct.Stage == domain.StageInstall {
		if lines, ok := o.advisor.ResolveConflict(ctx, direct.Log, direct.Requested); ok {
			resolved := o.probe.run(ctx, lines)
			if resolved.Success && o.advances(item, resolved) {
				return o.persist(ctx, pass, item, resolved, domain.MethodConflictResolution, state)
			}
		}
	}

	if diagnosis, ok := o.advisor.Diagnose(ctx, item.Name, direct.Log); ok &&
		diagnosis.Cause == domain.CauseIncompatibility && !domain.SameName(diagnosis.Culprit, item.Name) {
		c, err := domain.NewConstraint(diagnosis.Culprit, diagnosis.Constraint)
		switch {
		case err != nil:
			o.logger.Warn(fmt.Sprintf("ignoring unusable constraint %q on %s: %v",
				diagnosis.Constraint, diagnosis.Culprit, err))
		case state.constraints.Add(c):
			o.logger.Info(fmt.Sprintf("learned constraint %s from the failed upgrade of %s", c, item.Name))
			span.SetAttribute("learned_constraint", c.String())
			o.recordFailure(state, pass, item, fmt.Sprintf("%s; incompatible with %s, learned %s", reason, c.Name, c))
			return outcomeLearned, nil
		}
	}

	if res, ok := o.tryAdvisorCandidates(ctx, item, direct.Log, state); ok {
		return o.persist(ctx, pass, item, res, domain.MethodAdvisor, state)
	}

	found, ok := o.searcher.Search(ctx, backtrack.Request{
		Name:        item.Name,
		LastGood:    item.Current,
		Failed:      item.Target,
		Constraints: state.constraints,
	}, func(ctx context.Context, v domain.Version) domain.ProbeResult {
		return o.tryVersion(ctx, state, item.Name, v)
	})
	span.SetAttribute("backtrack_probes", found.Probes)
	if ok && found.Version.GreaterThan(item.Current) {
		return o.persist(ctx, pass, item, found.Probe, domain.MethodBacktrack, state)
	}
	if ok {
		o.logger.Info(fmt.Sprintf("no version of %s newer than %s passed, keeping the current pin", item.Name, item.Current))
		return outcomeUnchanged, nil
	}

	o.recordFailure(state, pass, item, reason+"; all healing avenues exhausted")
	return outcomeFailed, nil
}

func (o *Orchestrator) tryVersion(ctx context.Context, state *runState, name string, v domain.Version) domain.ProbeResult {
	spec, ok := state.ledger.Get(name)
	if !ok {
		spec = domain.Pin(name, v.String())
	}
	return o.probe.run(ctx, composeRequirements(state.ledger, state.constraints, spec.WithVersion(v.String())))
}

// tryAdvisorCandidates probes advisor-suggested versions strictly between the current pin
// and the failed target, newest first.
func (o *Orchestrator) tryAdvisorCandidates(
	ctx context.Context,
	item domain.PlanItem,
	log string,
	state *runState,
) (domain.ProbeResult, bool) {
	suggested, ok := o.advisor.SuggestPriorVersions(ctx, item.Name, item.Target.String(), log, o.settings.MaxCandidates)
	if !ok {
		return domain.ProbeResult{}, false
	}

	candidates := make([]domain.Version, 0, len(suggested))
	for _, raw := range suggested {
		v, err := domain.ParseVersion(raw)
		if err != nil {
			o.logger.Warn(fmt.Sprintf("ignoring suggested version %q of %s: %v", raw, item.Name, err))
			continue
		}
		if !v.GreaterThan(item.Current) || !v.LessThan(item.Target) || v.IsPrerelease() {
			continue
		}
		if !state.constraints.Allows(item.Name, v) {
			continue
		}
		candidates = append(candidates, v)
	}
	domain.SortVersions(candidates)
	candidates = slices.CompactFunc(candidates, domain.Version.Equal)
	slices.Reverse(candidates)

	for _, v := range candidates {
		o.logger.Info(fmt.Sprintf("trying advisor-suggested %s %s", item.Name, v))
		res := o.tryVersion(ctx, state, item.Name, v)
		if res.Success {
			return res, true
		}
	}
	return domain.ProbeResult{}, false
}

func (o *Orchestrator) failureReason(ctx context.Context, res domain.ProbeResult) string {
	switch res.Stage {
	case domain.StageInstall:
		summary, ok := o.advisor.Summarize(ctx, res.Log)
		if !ok {
			summary = "(advisor unavailable)"
		}
		return "installation conflict: " + summary
	case domain.StageValidate:
		return "validation failed"
	case domain.StageFreeze:
		return "could not list installed packages"
	default:
		return "environment error: " + firstLine(res.Log)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// advances reports whether a passing probe moved the package above its current pin.
func (o *Orchestrator) advances(item domain.PlanItem, res domain.ProbeResult) bool {
	raw, ok := res.InstalledVersion(item.Name)
	if !ok {
		return false
	}
	v, err := domain.ParseVersion(raw)
	return err == nil && v.GreaterThan(item.Current)
}

// persist writes the frozen set of a passing probe as the new ledger. A write failure is fatal.
func (o *Orchestrator) persist(
	ctx context.Context,
	pass int,
	item domain.PlanItem,
	res domain.ProbeResult,
	method domain.Method,
	state *runState,
) (itemOutcome, error) {
	set, err := domain.NewRequirementsSet(res.Installed...)
	if err != nil {
		o.recordFailure(state, pass, item, "passing set could not be recorded: "+err.Error())
		return outcomeFailed, nil
	}
	if err := o.store.Write(set); err != nil {
		return outcomeFailed, err
	}
	state.ledger = set

	reached, ok := res.InstalledVersion(item.Name)
	if !ok {
		reached = item.Target.String()
	}
	record := domain.UpdateRecord{
		Name:    item.Name,
		From:    item.Current.String(),
		Target:  item.Target.String(),
		Reached: reached,
		Method:  method,
		Pass:    pass,
		Metrics: res.Metrics,
	}
	state.summary.RecordUpdate(record)
	o.metrics.ObserveUpdate(method)
	o.logger.Info(fmt.Sprintf("updated %s to %s via %s", item.Name, reached, method))

	paths := []string{o.store.Path()}
	if o.journal != nil {
		if err := o.journal.Append(record); err != nil {
			o.logger.Warn(fmt.Sprintf("could not append to the update journal: %v", err))
		} else {
			paths = append(paths, o.journal.Path())
		}
	}
	if o.committer != nil {
		message := fmt.Sprintf("Update %s from %s to %s", item.Name, item.Current, reached)
		if _, err := o.committer.Commit(ctx, message, paths...); err != nil {
			o.logger.Warn(fmt.Sprintf("could not commit the update of %s: %v", item.Name, err))
		}
	}
	return outcomeUpdated, nil
}

func (o *Orchestrator) recordFailure(state *runState, pass int, item domain.PlanItem, reason string) {
	state.summary.RecordFailure(domain.FailureRecord{
		Name:   item.Name,
		Target: item.Target.String(),
		Reason: reason,
		Pass:   pass,
	})
}
