// Package venv provides the scratch environment probe backed by Python virtual environments.
package venv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/zerr"
)

// requestFileName is the requirement file handed to pip inside the scratch environment.
const requestFileName = "upkeep-request.txt"

// Probe implements ports.EnvironmentProbe. Every Create wipes and rebuilds the single
// scratch environment at root, so no state leaks between probes.
type Probe struct {
	root    string
	python  string
	pipArgs []string
	run     Runner
	logger  ports.Logger
}

// New creates a Probe that runs real commands.
func New(cfg domain.ProbeConfig, root string, logger ports.Logger) *Probe {
	return NewWithRunner(cfg, root, ExecRunner, logger)
}

// NewWithRunner creates a Probe with a custom command runner.
func NewWithRunner(cfg domain.ProbeConfig, root string, run Runner, logger ports.Logger) *Probe {
	python := cfg.Python
	if python == "" {
		python = "python3"
	}
	return &Probe{
		root:    root,
		python:  python,
		pipArgs: cfg.PipArgs,
		run:     run,
		logger:  logger,
	}
}

// Create removes any previous scratch environment and creates a fresh one.
func (p *Probe) Create(ctx context.Context) (domain.EnvHandle, error) {
	if err := os.RemoveAll(p.root); err != nil {
		return domain.EnvHandle{}, p.envError(err, "failed to remove previous scratch environment")
	}
	if err := os.MkdirAll(filepath.Dir(p.root), domain.DirPerm); err != nil {
		return domain.EnvHandle{}, p.envError(err, "failed to create scratch parent directory")
	}

	out, err := p.run(ctx, nil, p.python, "-m", "venv", p.root)
	if err != nil {
		return domain.EnvHandle{}, p.envError(err, "failed to start python")
	}
	if out.ExitCode != 0 {
		err := zerr.Wrap(domain.ErrEnvironmentFailed, "python -m venv failed")
		err = zerr.With(err, "exit_code", out.ExitCode)
		return domain.EnvHandle{}, zerr.With(err, "output", tail(out.Combined))
	}
	return Handle(p.root), nil
}

// Handle describes the environment rooted at root.
func Handle(root string) domain.EnvHandle {
	bin := filepath.Join(root, "bin")
	python := filepath.Join(bin, "python")
	if runtime.GOOS == "windows" {
		bin = filepath.Join(root, "Scripts")
		python = filepath.Join(bin, "python.exe")
	}
	return domain.EnvHandle{Root: root, BinDir: bin, Python: python}
}

// Install installs lines into env with pip. A failed resolution or build is reported
// as a non-OK result carrying pip's output.
func (p *Probe) Install(ctx context.Context, env domain.EnvHandle, lines []string) (domain.InstallResult, error) {
	request := filepath.Join(env.Root, requestFileName)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(request, []byte(content), domain.FilePerm); err != nil {
		return domain.InstallResult{}, p.envError(err, "failed to write requirement file")
	}

	args := []string{"-m", "pip", "install", "--disable-pip-version-check", "--no-input"}
	args = append(args, p.pipArgs...)
	args = append(args, "-r", request)

	p.logger.Info(fmt.Sprintf("installing %d requirements into the scratch environment", len(lines)))
	out, err := p.run(ctx, activation(env), env.Python, args...)
	if err != nil {
		return domain.InstallResult{}, p.envError(err, "failed to start pip")
	}
	return domain.InstallResult{
		OK:       out.ExitCode == 0,
		ExitCode: out.ExitCode,
		Log:      out.Combined,
	}, nil
}

// Freeze lists the packages installed in env as requirement lines.
func (p *Probe) Freeze(ctx context.Context, env domain.EnvHandle) ([]string, error) {
	out, err := p.run(ctx, activation(env), env.Python, "-m", "pip", "freeze", "--disable-pip-version-check")
	if err != nil {
		return nil, p.envError(err, "failed to start pip freeze")
	}
	if out.ExitCode != 0 {
		err := zerr.Wrap(domain.ErrEnvironmentFailed, "pip freeze failed")
		err = zerr.With(err, "exit_code", out.ExitCode)
		return nil, zerr.With(err, "output", tail(out.Combined))
	}

	var lines []string
	for _, line := range strings.Split(out.Combined, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Destroy removes the environment directory.
func (p *Probe) Destroy(_ context.Context, env domain.EnvHandle) error {
	if env.Root == "" {
		return nil
	}
	if err := os.RemoveAll(env.Root); err != nil {
		return p.envError(err, "failed to remove scratch environment")
	}
	return nil
}

func (p *Probe) envError(err error, msg string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrEnvironmentFailed, err), msg), "path", p.root)
}

func activation(env domain.EnvHandle) []string {
	return []string{
		"VIRTUAL_ENV=" + env.Root,
		"PIP_NO_INPUT=1",
		"PYTHONDONTWRITEBYTECODE=1",
	}
}

// tail keeps the last lines of command output for error metadata.
func tail(s string) string {
	const keep = 20
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, "\n")
}
