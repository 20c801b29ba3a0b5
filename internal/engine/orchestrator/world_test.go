package orchestrator_test

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"go.trai.ch/upkeep/internal/adapters/metrics"
	"go.trai.ch/upkeep/internal/adapters/telemetry"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/upkeep/internal/core/ports/mocks"
	"go.trai.ch/upkeep/internal/engine/advisory"
	"go.trai.ch/upkeep/internal/engine/orchestrator"
	"go.trai.ch/upkeep/internal/engine/risk"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// world simulates a package index plus an installer: pinned lines install exactly,
// other lines resolve to the highest release matching their specifier, and implicit
// packages are pulled in at their highest release unless a line mentions them.
type world struct {
	history  map[string][]string
	implicit []string
	valid    func(installed map[string]string) bool
	// conflict, when set, makes the install step reject a resolved set.
	conflict func(installed map[string]string) bool

	probes    [][]string
	installed map[string]string
}

func (w *world) highest(name, specifier string) (string, bool) {
	var c *domain.Constraint
	if specifier != "" {
		parsed, err := domain.NewConstraint(name, specifier)
		if err != nil {
			return "", false
		}
		c = &parsed
	}
	vs := w.history[name]
	for i := len(vs) - 1; i >= 0; i-- {
		if c == nil || c.Allows(domain.MustParseVersion(vs[i])) {
			return vs[i], true
		}
	}
	return "", false
}

func (w *world) resolve(lines []string) (map[string]string, bool) {
	installed := make(map[string]string)
	for _, line := range lines {
		spec, err := domain.ParseRequirement(line)
		if err != nil {
			return nil, false
		}
		if spec.Pinned() {
			installed[spec.Name] = spec.Version()
			continue
		}
		v, ok := w.highest(spec.Name, spec.Specifier)
		if !ok {
			return nil, false
		}
		installed[spec.Name] = v
	}
	for _, name := range w.implicit {
		if _, ok := installed[name]; !ok {
			v, _ := w.highest(name, "")
			installed[name] = v
		}
	}
	return installed, true
}

func (w *world) Create(_ context.Context) (domain.EnvHandle, error) {
	w.installed = nil
	return domain.EnvHandle{Root: "/scratch"}, nil
}

func (w *world) Install(_ context.Context, _ domain.EnvHandle, lines []string) (domain.InstallResult, error) {
	w.probes = append(w.probes, slices.Clone(lines))
	installed, ok := w.resolve(lines)
	if !ok || (w.conflict != nil && w.conflict(installed)) {
		return domain.InstallResult{ExitCode: 1, Log: "ERROR: ResolutionImpossible"}, nil
	}
	w.installed = installed
	return domain.InstallResult{OK: true}, nil
}

func (w *world) Freeze(_ context.Context, _ domain.EnvHandle) ([]string, error) {
	out := make([]string, 0, len(w.installed))
	for name, v := range w.installed {
		out = append(out, name+"=="+v)
	}
	slices.Sort(out)
	return out, nil
}

func (w *world) Destroy(_ context.Context, _ domain.EnvHandle) error {
	return nil
}

func (w *world) Validate(_ context.Context, _ domain.EnvHandle) (domain.Validation, error) {
	if w.valid(w.installed) {
		return domain.Validation{Success: true, Metrics: domain.Metrics{"accuracy": "0.93"}, Log: "ok"}, nil
	}
	return domain.Validation{Log: "Traceback: validation failed"}, nil
}

func (w *world) LatestStable(_ context.Context, name string) (domain.Version, error) {
	vs := w.history[name]
	if len(vs) == 0 {
		return domain.Version{}, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "unknown package"), "package", name)
	}
	return domain.MustParseVersion(vs[len(vs)-1]), nil
}

func (w *world) VersionsInRange(_ context.Context, name string, low, high domain.Version) ([]domain.Version, error) {
	var out []domain.Version
	for _, raw := range w.history[name] {
		v := domain.MustParseVersion(raw)
		if (!low.IsZero() && v.LessThan(low)) || !v.LessThan(high) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// probed reports whether any probe requested exactly line.
func (w *world) probed(i int, line string) bool {
	return i < len(w.probes) && slices.Contains(w.probes[i], line)
}

// memStore is an in-memory requirements ledger.
type memStore struct {
	content   string
	missing   bool
	failWrite bool
	writes    int
}

func (s *memStore) Read() (domain.Ledger, error) {
	if s.missing {
		return domain.Ledger{}, zerr.With(zerr.Wrap(domain.ErrLedgerMissing, "no ledger"), "path", s.Path())
	}
	return domain.ParseLedger(s.content), nil
}

func (s *memStore) Write(set *domain.RequirementsSet) error {
	if s.failWrite {
		return zerr.With(zerr.Wrap(domain.ErrLedgerWriteFailed, "write refused"), "path", s.Path())
	}
	s.writes++
	s.content = strings.Join(set.Lines(), "\n") + "\n"
	return nil
}

func (s *memStore) Path() string {
	return "requirements.txt"
}

// scriptedAdvisor answers with the configured functions; an unset function is a failed request.
type scriptedAdvisor struct {
	calls     int
	quota     bool
	diagnose  func(pkg string) domain.Diagnosis
	suggest   func(pkg, failed string) []string
	downgrade func(failing []string) []domain.PackageSpec
	resolve   func(requested []string) []string
}

func (a *scriptedAdvisor) fail() error {
	if a.quota {
		return domain.ErrAdvisorQuotaExhausted
	}
	return domain.ErrAdvisorRequestFailed
}

func (a *scriptedAdvisor) ResolveConflict(_ context.Context, _ string, requested []string) ([]string, error) {
	a.calls++
	if a.quota || a.resolve == nil {
		return nil, a.fail()
	}
	return a.resolve(requested), nil
}

func (a *scriptedAdvisor) DiagnoseRootCause(_ context.Context, pkg string, _ string) (domain.Diagnosis, error) {
	a.calls++
	if a.quota || a.diagnose == nil {
		return domain.Diagnosis{}, a.fail()
	}
	return a.diagnose(pkg), nil
}

func (a *scriptedAdvisor) SuggestPriorVersions(_ context.Context, pkg, failed, _ string, _ int) ([]string, error) {
	a.calls++
	if a.quota || a.suggest == nil {
		return nil, a.fail()
	}
	return a.suggest(pkg, failed), nil
}

func (a *scriptedAdvisor) ProposeDowngrades(_ context.Context, failing []string, _ string) ([]domain.PackageSpec, error) {
	a.calls++
	if a.quota || a.downgrade == nil {
		return nil, a.fail()
	}
	return a.downgrade(failing), nil
}

func (a *scriptedAdvisor) SummarizeError(_ context.Context, _ string) (string, error) {
	a.calls++
	if a.quota {
		return "", a.fail()
	}
	return "dependency conflict", nil
}

type harnessOption func(*orchestrator.Deps, *orchestrator.Settings)

func withCommitter(c ports.Committer, j ports.UpdateJournal) harnessOption {
	return func(d *orchestrator.Deps, _ *orchestrator.Settings) {
		d.Committer = c
		d.Journal = j
	}
}

func withMaxPasses(n int) harnessOption {
	return func(_ *orchestrator.Deps, s *orchestrator.Settings) {
		s.MaxPasses = n
	}
}

// newOrchestrator wires the fakes together. advisor may be nil for a disabled advisor.
func newOrchestrator(
	t *testing.T,
	w *world,
	store *memStore,
	advisor *scriptedAdvisor,
	usage map[string]int,
	primary []string,
	opts ...harnessOption,
) *orchestrator.Orchestrator {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	rec := metrics.New("")
	var adv ports.Advisor
	if advisor != nil {
		adv = advisor
	}

	deps := orchestrator.Deps{
		Store:    store,
		Registry: w,
		Probe:    w,
		Oracle:   w,
		Advisor:  advisory.NewGate(adv, time.Second, log, rec),
		Scorer:   risk.NewScorer(domain.DefaultWeights(), usage, primary),
		Tracer:   telemetry.NewNoOpTracer(),
		Metrics:  rec,
		Logger:   log,
	}
	settings := orchestrator.Settings{MaxPasses: 5, MaxCandidates: 3}
	for _, opt := range opts {
		opt(&deps, &settings)
	}
	return orchestrator.New(deps, settings)
}
