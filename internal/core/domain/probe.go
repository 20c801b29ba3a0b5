package domain

import (
	"maps"
	"slices"
)

// EnvHandle identifies a prepared scratch environment.
type EnvHandle struct {
	// Root is the environment directory.
	Root string
	// BinDir holds the environment's executables.
	BinDir string
	// Python is the environment's interpreter.
	Python string
}

// InstallResult is the outcome of installing a requirement set into an environment.
type InstallResult struct {
	OK       bool
	ExitCode int
	Log      string
}

// Validation is the verdict of the project-specific check.
type Validation struct {
	Success bool
	Metrics Metrics
	Log     string
}

// ProbeStage names the step at which a probe finished.
type ProbeStage string

const (
	// StageEnvironment means the scratch environment could not be prepared.
	StageEnvironment ProbeStage = "environment"
	// StageInstall means the requirement set did not install.
	StageInstall ProbeStage = "install"
	// StageValidate means the set installed but the validation check failed.
	StageValidate ProbeStage = "validate"
	// StageFreeze means the set passed but the installed versions could not be listed.
	StageFreeze ProbeStage = "freeze"
	// StagePassed means the set installed, validated and was frozen.
	StagePassed ProbeStage = "passed"
)

// ProbeResult is the fresh outcome of one install-and-validate attempt.
type ProbeResult struct {
	Success bool
	Stage   ProbeStage
	// Requested holds the requirement lines that were installed.
	Requested []string
	// Installed holds the pruned frozen set; populated whenever installation succeeded.
	Installed []PackageSpec
	Metrics   Metrics
	Log       string
}

// InstalledVersion returns the frozen version of the named package.
func (r ProbeResult) InstalledVersion(name string) (string, bool) {
	name = CanonicalName(name)
	for _, s := range r.Installed {
		if s.Name == name {
			return s.Version(), true
		}
	}
	return "", false
}

// Metrics are named values extracted from validation output.
type Metrics map[string]string

// Keys returns the metric names in sorted order.
func (m Metrics) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Cause is the advisor's classification of a failed upgrade.
type Cause string

const (
	// CauseSelf means the upgraded package itself is at fault.
	CauseSelf Cause = "self"
	// CauseIncompatibility means another package conflicts with the upgrade.
	CauseIncompatibility Cause = "incompatibility"
)

// Diagnosis is a root-cause verdict for a failed upgrade.
type Diagnosis struct {
	Cause      Cause
	Culprit    string
	Constraint string
}
