package orchestrator

import (
	"context"
	"fmt"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/zerr"
)

// bootstrap turns a permissive ledger into a fully pinned, passing baseline.
// It returns the names of packages it had to downgrade; those are left alone for the rest
// of the run.
func (o *Orchestrator) bootstrap(ctx context.Context, ledger domain.Ledger) ([]string, error) {
	ctx, span := o.tracer.Start(ctx, "upkeep.bootstrap")
	defer span.End()

	o.logger.Info("requirements are not fully pinned, establishing a baseline")
	res := o.probe.run(ctx, ledger.Lines)
	if res.Success {
		o.logger.Info("permissive requirements pass as installed, pinning them")
		return nil, o.writeBaseline(res)
	}

	if res.Stage == domain.StageInstall {
		if lines, ok := o.advisor.ResolveConflict(ctx, res.Log, ledger.Lines); ok {
			resolved := o.probe.run(ctx, lines)
			if resolved.Success {
				o.logger.Info("advisor-resolved requirements pass, pinning them")
				return nil, o.writeBaseline(resolved)
			}
			if len(resolved.Installed) > 0 {
				res = resolved
			}
		}
	}

	if len(res.Installed) == 0 {
		err := zerr.With(zerr.Wrap(domain.ErrNoBaseline, "requirements did not install"), "stage", string(res.Stage))
		span.RecordError(err)
		return nil, err
	}

	failing, err := domain.NewRequirementsSet(res.Installed...)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrNoBaseline, err.Error())
	}
	o.logger.Warn(fmt.Sprintf("installed baseline of %d packages fails validation, healing", failing.Len()))

	healed, ok, err := o.healWithAdvisor(ctx, failing, res.Log)
	if err != nil || ok {
		return healed, err
	}
	healed, ok, err = o.healDeterministically(ctx, failing)
	if err != nil || ok {
		return healed, err
	}

	err = zerr.Wrap(domain.ErrNoBaseline, "no healing attempt produced a passing set")
	span.RecordError(err)
	return nil, err
}

func (o *Orchestrator) writeBaseline(res domain.ProbeResult) error {
	set, err := domain.NewRequirementsSet(res.Installed...)
	if err != nil {
		return zerr.Wrap(domain.ErrNoBaseline, err.Error())
	}
	return o.store.Write(set)
}

// healWithAdvisor applies advisor-proposed downgrades to the failing set, one proposal
// per attempt, feeding back the latest failure log.
func (o *Orchestrator) healWithAdvisor(
	ctx context.Context,
	failing *domain.RequirementsSet,
	log string,
) ([]string, bool, error) {
	attempts := max(o.settings.MaxCandidates, 1)
	for attempt := 1; attempt <= attempts && o.advisor.Available(); attempt++ {
		if ctx.Err() != nil {
			return nil, false, nil
		}
		changes, ok := o.advisor.ProposeDowngrades(ctx, failing.Lines(), log)
		if !ok {
			return nil, false, nil
		}

		candidate := failing.Clone()
		var changed []string
		for _, change := range changes {
			spec, ok := candidate.Get(change.Name)
			if !ok || change.Version() == "" || spec.Version() == change.Version() {
				continue
			}
			candidate.Put(spec.WithVersion(change.Version()))
			changed = append(changed, spec.Name)
		}
		if len(changed) == 0 {
			o.logger.Warn(fmt.Sprintf("bootstrap heal attempt %d: advisor proposed no applicable changes", attempt))
			continue
		}

		o.logger.Info(fmt.Sprintf("bootstrap heal attempt %d: trying advisor changes to %v", attempt, changed))
		res := o.probe.run(ctx, candidate.Lines())
		if res.Success {
			return changed, true, o.writeBaseline(res)
		}
		log = res.Log
	}
	return nil, false, nil
}

// healDeterministically moves one suspect at a time, highest risk first, to the highest
// registry version below its installed one.
func (o *Orchestrator) healDeterministically(ctx context.Context, failing *domain.RequirementsSet) ([]string, bool, error) {
	for _, spec := range o.scorer.Rank(failing.Specs()) {
		if ctx.Err() != nil {
			return nil, false, nil
		}
		installed, err := spec.ParsedVersion()
		if err != nil {
			continue
		}
		versions, err := o.registry.VersionsInRange(ctx, spec.Name, domain.Version{}, installed)
		if err != nil {
			o.logger.Warn(fmt.Sprintf("could not list versions of %s: %v", spec.Name, err))
			continue
		}
		var previous domain.Version
		for i := len(versions) - 1; i >= 0; i-- {
			if versions[i].LessThan(installed) && !versions[i].IsPrerelease() {
				previous = versions[i]
				break
			}
		}
		if previous.IsZero() {
			continue
		}

		candidate := failing.Clone()
		candidate.Put(spec.WithVersion(previous.String()))
		o.logger.Info(fmt.Sprintf("bootstrap heal: trying %s %s", spec.Name, previous))
		res := o.probe.run(ctx, candidate.Lines())
		if res.Success {
			return []string{spec.Name}, true, o.writeBaseline(res)
		}
	}
	return nil, false, nil
}
