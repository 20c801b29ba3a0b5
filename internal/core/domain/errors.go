package domain

import "go.trai.ch/zerr"

var (
	// ErrLedgerMissing is returned when the requirements ledger file does not exist.
	ErrLedgerMissing = zerr.New("requirements ledger not found")

	// ErrLedgerWriteFailed is returned when the requirements ledger cannot be replaced.
	ErrLedgerWriteFailed = zerr.New("failed to write requirements ledger")

	// ErrLedgerNotPinned is returned when an operation needs a fully pinned ledger.
	ErrLedgerNotPinned = zerr.New("requirements ledger is not fully pinned")

	// ErrNoBaseline is returned when bootstrap cannot find any passing pinned set.
	ErrNoBaseline = zerr.New("no passing baseline could be established")

	// ErrDuplicatePackage is returned when a package appears twice in a requirements set.
	ErrDuplicatePackage = zerr.New("duplicate package")

	// ErrInvalidRequirement is returned when a requirement line cannot be parsed.
	ErrInvalidRequirement = zerr.New("invalid requirement")

	// ErrInvalidVersion is returned when a version string is not a recognizable release.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrInvalidConstraint is returned when a version predicate cannot be parsed.
	ErrInvalidConstraint = zerr.New("invalid version constraint")

	// ErrPackageNotFound is returned when the registry does not know a package.
	ErrPackageNotFound = zerr.New("package not found in registry")

	// ErrNoStableRelease is returned when a package has no installable non-prerelease version.
	ErrNoStableRelease = zerr.New("no stable release available")

	// ErrRegistryUnavailable is returned when the registry cannot be reached or answers badly.
	ErrRegistryUnavailable = zerr.New("package registry unavailable")

	// ErrAdvisorQuotaExhausted is returned when the advisor reports that its quota is spent.
	ErrAdvisorQuotaExhausted = zerr.New("advisor quota exhausted")

	// ErrAdvisorTimeout is returned when an advisor call exceeds its deadline.
	ErrAdvisorTimeout = zerr.New("advisor call timed out")

	// ErrAdvisorMalformed is returned when an advisor response carries no usable payload.
	ErrAdvisorMalformed = zerr.New("malformed advisor response")

	// ErrAdvisorRequestFailed is returned when the advisor request fails for any other reason.
	ErrAdvisorRequestFailed = zerr.New("advisor request failed")

	// ErrAdvisorUnavailable is returned by the advisor gate once it stopped accepting calls.
	ErrAdvisorUnavailable = zerr.New("advisor unavailable")

	// ErrEnvironmentFailed is returned when the scratch environment cannot be prepared.
	ErrEnvironmentFailed = zerr.New("scratch environment failed")

	// ErrValidationFailed is returned when the validation command cannot be started.
	ErrValidationFailed = zerr.New("validation command failed")

	// ErrCommitFailed is returned when an update cannot be committed to version control.
	ErrCommitFailed = zerr.New("failed to commit update")

	// ErrConfigInvalid is returned when the configuration file is missing required values.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrConfigNotFound is returned when the configuration file cannot be read.
	ErrConfigNotFound = zerr.New("configuration file not found")
)
