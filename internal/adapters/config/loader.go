// Package config provides the configuration loader for upkeep.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Discover walks up from cwd to the nearest configuration file. When there is none it
// returns the path the file would have in cwd.
func Discover(cwd string) string {
	current := cwd
	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return filepath.Join(cwd, domain.ConfigFileName)
}

// Load reads the configuration file at path on top of the defaults rooted at its directory.
// A missing file yields the defaults.
func (l *Loader) Load(path string) (*domain.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve config path"), "path", path)
	}
	root := filepath.Dir(abs)
	cfg := domain.DefaultConfig(root)

	data, err := os.ReadFile(abs) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.Logger.Info(fmt.Sprintf("no %s found, using defaults rooted at %s", domain.ConfigFileName, root))
		return cfg, nil
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", abs)
	}

	var file Upkeepfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigInvalid, err), "failed to parse config file"), "path", abs)
	}

	apply(cfg, &file)
	if err := validate(cfg); err != nil {
		return nil, zerr.With(err, "path", abs)
	}
	return cfg, nil
}

// apply overlays the values set in file onto cfg, resolving paths against cfg.Root.
func apply(cfg *domain.Config, file *Upkeepfile) {
	resolve := func(dst *string, value string) {
		if value == "" {
			return
		}
		if !filepath.IsAbs(value) {
			value = filepath.Join(cfg.Root, value)
		}
		*dst = filepath.Clean(value)
	}
	set := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}

	resolve(&cfg.Requirements, file.Requirements)
	resolve(&cfg.PrimaryRequirements, file.PrimaryRequirements)
	resolve(&cfg.ScratchDir, file.ScratchDir)
	if file.MaxPasses != 0 {
		cfg.MaxPasses = file.MaxPasses
	}
	if file.Weights != nil {
		cfg.Weights = domain.Weights{
			Usage:    file.Weights.Usage,
			Primary:  file.Weights.Primary,
			Severity: file.Weights.Severity,
		}
	}

	resolve(&cfg.Scan.Root, file.Scan.Root)
	if file.Scan.Exclude != nil {
		cfg.Scan.Exclude = file.Scan.Exclude
	}
	maps.Copy(cfg.Scan.Aliases, file.Scan.Aliases)

	set(&cfg.Registry.IndexURL, file.Registry.IndexURL)
	resolve(&cfg.Registry.CacheDir, file.Registry.CacheDir)
	if file.Registry.CacheTTL != 0 {
		cfg.Registry.CacheTTL = file.Registry.CacheTTL
	}
	if file.Registry.Timeout != 0 {
		cfg.Registry.Timeout = file.Registry.Timeout
	}

	set(&cfg.Probe.Python, file.Probe.Python)
	cfg.Probe.PipArgs = append(cfg.Probe.PipArgs, file.Probe.PipArgs...)

	cfg.Validation.Command = file.Validation.Command
	cfg.Validation.Workdir = cfg.Root
	resolve(&cfg.Validation.Workdir, file.Validation.Workdir)
	cfg.Validation.Env = file.Validation.Env
	if file.Validation.Timeout != 0 {
		cfg.Validation.Timeout = file.Validation.Timeout
	}
	cfg.Validation.SuccessMarker = file.Validation.SuccessMarker
	cfg.Validation.Metrics = file.Validation.Metrics

	if file.Advisor.Enabled != nil {
		cfg.Advisor.Enabled = *file.Advisor.Enabled
	}
	set(&cfg.Advisor.Provider, file.Advisor.Provider)
	set(&cfg.Advisor.Model, file.Advisor.Model)
	set(&cfg.Advisor.APIKeyEnv, file.Advisor.APIKeyEnv)
	set(&cfg.Advisor.Endpoint, file.Advisor.Endpoint)
	if file.Advisor.Timeout != 0 {
		cfg.Advisor.Timeout = file.Advisor.Timeout
	}
	if file.Advisor.MaxCandidates != 0 {
		cfg.Advisor.MaxCandidates = file.Advisor.MaxCandidates
	}
	if file.Advisor.RequestsPerMinute != 0 {
		cfg.Advisor.RequestsPerMinute = file.Advisor.RequestsPerMinute
	}

	cfg.Git.Enabled = file.Git.Enabled
	set(&cfg.Git.AuthorName, file.Git.AuthorName)
	set(&cfg.Git.AuthorEmail, file.Git.AuthorEmail)

	cfg.Telemetry.OTLPEndpoint = file.Telemetry.OTLPEndpoint

	resolve(&cfg.Report.MetricsFile, file.Report.MetricsFile)
	resolve(&cfg.Report.SummaryFile, file.Report.SummaryFile)
	resolve(&cfg.Report.Textfile, file.Report.Textfile)
}

func validate(cfg *domain.Config) error {
	invalid := func(field, reason string) error {
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, reason), "field", field)
	}

	if cfg.MaxPasses < 1 {
		return invalid("max_passes", "must be at least 1")
	}
	if cfg.Weights.Usage < 0 || cfg.Weights.Primary < 0 || cfg.Weights.Severity < 0 {
		return invalid("weights", "weights must not be negative")
	}
	if u, err := url.Parse(cfg.Registry.IndexURL); err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("registry.index_url", "must be an absolute URL")
	}
	if cfg.Validation.Timeout < 0 || cfg.Registry.Timeout < 0 || cfg.Advisor.Timeout < 0 {
		return invalid("timeout", "timeouts must not be negative")
	}
	for name, pattern := range cfg.Validation.Metrics {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return invalid("validation.metrics."+name, "invalid regular expression: "+err.Error())
		}
		if re.NumSubexp() < 1 {
			return invalid("validation.metrics."+name, "pattern needs a capture group for the value")
		}
	}
	if cfg.Advisor.Enabled {
		if cfg.Advisor.Provider != "gemini" {
			return invalid("advisor.provider", "unsupported provider "+cfg.Advisor.Provider)
		}
		if cfg.Advisor.MaxCandidates < 1 || cfg.Advisor.RequestsPerMinute < 1 {
			return invalid("advisor", "max_candidates and requests_per_minute must be positive")
		}
	}
	if cfg.Git.Enabled && cfg.Git.AuthorEmail == "" {
		return invalid("git.author_email", "required when git is enabled")
	}
	return nil
}
