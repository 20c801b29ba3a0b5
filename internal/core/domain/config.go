package domain

import (
	"path/filepath"
	"time"
)

// Config is the resolved project configuration. Paths are absolute after loading.
type Config struct {
	// Root is the directory holding the configuration file.
	Root                string
	Requirements        string
	PrimaryRequirements string
	ScratchDir          string
	MaxPasses           int
	Weights             Weights
	Scan                ScanConfig
	Registry            RegistryConfig
	Probe               ProbeConfig
	Validation          ValidationConfig
	Advisor             AdvisorConfig
	Git                 GitConfig
	Telemetry           TelemetryConfig
	Report              ReportConfig
}

// ScanConfig controls the import usage scan.
type ScanConfig struct {
	Root    string
	Exclude []string
	// Aliases maps import names to distribution names.
	Aliases map[string]string
}

// RegistryConfig controls the package index client.
type RegistryConfig struct {
	IndexURL string
	CacheDir string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// ProbeConfig controls the scratch environment backend.
type ProbeConfig struct {
	Python  string
	PipArgs []string
}

// ValidationConfig describes the project-specific validation command.
type ValidationConfig struct {
	Command []string
	Workdir string
	Env     map[string]string
	// Timeout bounds one validation run. Zero, the default, means no deadline.
	Timeout time.Duration
	// SuccessMarker, when set, must appear in the output for the check to pass.
	SuccessMarker string
	// Metrics maps a metric name to a regular expression whose first group captures the value.
	Metrics map[string]string
}

// AdvisorConfig controls the LLM advisor.
type AdvisorConfig struct {
	Enabled           bool
	Provider          string
	Model             string
	APIKeyEnv         string
	Endpoint          string
	Timeout           time.Duration
	MaxCandidates     int
	RequestsPerMinute int
}

// GitConfig controls the per-update commit.
type GitConfig struct {
	Enabled     bool
	AuthorName  string
	AuthorEmail string
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	OTLPEndpoint string
}

// ReportConfig names the run's report outputs. Empty paths disable the output.
type ReportConfig struct {
	MetricsFile string
	SummaryFile string
	Textfile    string
}

// DefaultConfig returns the configuration used for unset values, rooted at root.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:                root,
		Requirements:        filepath.Join(root, RequirementsFileName),
		PrimaryRequirements: filepath.Join(root, PrimaryRequirementsFileName),
		ScratchDir:          filepath.Join(root, DefaultScratchPath()),
		MaxPasses:           5,
		Weights:             DefaultWeights(),
		Scan: ScanConfig{
			Root:    root,
			Exclude: []string{UpkeepDirName, ".git", "venv", ".venv", "__pycache__"},
			Aliases: map[string]string{
				"sklearn": "scikit-learn",
				"yaml":    "pyyaml",
				"PIL":     "pillow",
				"cv2":     "opencv-python",
			},
		},
		Registry: RegistryConfig{
			IndexURL: "https://pypi.org",
			CacheDir: filepath.Join(root, DefaultRegistryCachePath()),
			CacheTTL: time.Hour,
			Timeout:  30 * time.Second,
		},
		Probe: ProbeConfig{Python: "python3"},
		Advisor: AdvisorConfig{
			Enabled:           true,
			Provider:          "gemini",
			Model:             "gemini-2.5-flash",
			APIKeyEnv:         "GEMINI_API_KEY",
			Endpoint:          "https://generativelanguage.googleapis.com",
			Timeout:           2 * time.Minute,
			MaxCandidates:     3,
			RequestsPerMinute: 10,
		},
		Git: GitConfig{
			AuthorName:  "upkeep",
			AuthorEmail: "upkeep@localhost",
		},
		Report: ReportConfig{
			MetricsFile: filepath.Join(root, MetricsFileName),
		},
	}
}
