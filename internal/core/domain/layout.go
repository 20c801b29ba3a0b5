package domain

import "path/filepath"

const (
	// UpkeepDirName is the name of the internal working directory.
	UpkeepDirName = ".upkeep"

	// ScratchDirName is the name of the scratch environment directory.
	ScratchDirName = "venv"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// RegistryCacheDirName is the name of the registry response cache directory.
	RegistryCacheDirName = "registry"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "upkeep.yaml"

	// RequirementsFileName is the default name of the requirements ledger.
	RequirementsFileName = "requirements.txt"

	// PrimaryRequirementsFileName is the default name of the primary requirements file.
	PrimaryRequirementsFileName = "primary_requirements.txt"

	// MetricsFileName is the default name of the per-update metrics log.
	MetricsFileName = "metrics_output.txt"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultScratchPath returns the default location of the scratch environment.
// It joins .upkeep and venv.
func DefaultScratchPath() string {
	return filepath.Join(UpkeepDirName, ScratchDirName)
}

// DefaultRegistryCachePath returns the default path for the registry response cache.
// It joins .upkeep, cache, and registry.
func DefaultRegistryCachePath() string {
	return filepath.Join(UpkeepDirName, CacheDirName, RegistryCacheDirName)
}
