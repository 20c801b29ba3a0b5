package config

import "time"

// Upkeepfile represents the structure of the upkeep.yaml configuration file.
type Upkeepfile struct {
	Requirements        string        `yaml:"requirements"`
	PrimaryRequirements string        `yaml:"primary_requirements"`
	ScratchDir          string        `yaml:"scratch_dir"`
	MaxPasses           int           `yaml:"max_passes"`
	Weights             *WeightsDTO   `yaml:"weights"`
	Scan                ScanDTO       `yaml:"scan"`
	Registry            RegistryDTO   `yaml:"registry"`
	Probe               ProbeDTO      `yaml:"probe"`
	Validation          ValidationDTO `yaml:"validation"`
	Advisor             AdvisorDTO    `yaml:"advisor"`
	Git                 GitDTO        `yaml:"git"`
	Telemetry           TelemetryDTO  `yaml:"telemetry"`
	Report              ReportDTO     `yaml:"report"`
}

// WeightsDTO holds the risk formula coefficients.
type WeightsDTO struct {
	Usage    float64 `yaml:"usage"`
	Primary  float64 `yaml:"primary"`
	Severity float64 `yaml:"severity"`
}

// ScanDTO configures the import usage scan.
type ScanDTO struct {
	Root    string            `yaml:"root"`
	Exclude []string          `yaml:"exclude"`
	Aliases map[string]string `yaml:"aliases"`
}

// RegistryDTO configures the package index client.
type RegistryDTO struct {
	IndexURL string        `yaml:"index_url"`
	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ProbeDTO configures the scratch environment backend.
type ProbeDTO struct {
	Python  string   `yaml:"python"`
	PipArgs []string `yaml:"pip_args"`
}

// ValidationDTO describes the validation command.
type ValidationDTO struct {
	Command       []string          `yaml:"command"`
	Workdir       string            `yaml:"workdir"`
	Env           map[string]string `yaml:"env"`
	Timeout       time.Duration     `yaml:"timeout"`
	SuccessMarker string            `yaml:"success_marker"`
	Metrics       map[string]string `yaml:"metrics"`
}

// AdvisorDTO configures the LLM advisor.
type AdvisorDTO struct {
	Enabled           *bool         `yaml:"enabled"`
	Provider          string        `yaml:"provider"`
	Model             string        `yaml:"model"`
	APIKeyEnv         string        `yaml:"api_key_env"`
	Endpoint          string        `yaml:"endpoint"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxCandidates     int           `yaml:"max_candidates"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// GitDTO configures the per-update commit.
type GitDTO struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// TelemetryDTO configures trace export.
type TelemetryDTO struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// ReportDTO names the report outputs.
type ReportDTO struct {
	MetricsFile string `yaml:"metrics_file"`
	SummaryFile string `yaml:"summary_file"`
	Textfile    string `yaml:"textfile"`
}
