// Package shell provides the validation oracle that runs the project's check command.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/zerr"
)

// waitDelay bounds how long output pipes are drained after the command is killed.
const waitDelay = 5 * time.Second

// Oracle implements ports.ValidationOracle using os/exec.
type Oracle struct {
	cfg     domain.ValidationConfig
	metrics map[string]*regexp.Regexp
	logger  ports.Logger
}

// NewOracle creates an Oracle. Every metric pattern must compile and capture a group.
func NewOracle(cfg domain.ValidationConfig, logger ports.Logger) (*Oracle, error) {
	metrics := make(map[string]*regexp.Regexp, len(cfg.Metrics))
	for name, pattern := range cfg.Metrics {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigInvalid, err), "invalid metric pattern"), "metric", name)
		}
		if re.NumSubexp() < 1 {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "metric pattern has no capture group"), "metric", name)
		}
		metrics[name] = re
	}
	return &Oracle{cfg: cfg, metrics: metrics, logger: logger}, nil
}

// Validate runs the validation command inside env.
// It merges environments with the following priority (low to high):
// 1. os.Environ() (System base)
// 2. the scratch environment (bin directory prepended to PATH, VIRTUAL_ENV)
// 3. the configured validation env (User-defined overrides)
//
// A non-zero exit, a timeout or a missing success marker fails the check. An error is
// returned only when the command cannot be started.
func (o *Oracle) Validate(ctx context.Context, env domain.EnvHandle) (domain.Validation, error) {
	if len(o.cfg.Command) == 0 {
		return domain.Validation{}, zerr.Wrap(domain.ErrValidationFailed, "no validation command configured")
	}
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	name := o.cfg.Command[0]
	args := o.cfg.Command[1:]

	cmdEnv := resolveEnvironment(os.Environ(), scratchEnvironment(env), o.cfg.Env)

	// Resolve the executable against the scratch PATH so "python" means the probe's interpreter.
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	//nolint:gosec // user provided command
	cmd := exec.CommandContext(ctx, executable, args...)
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	if o.cfg.Workdir != "" {
		cmd.Dir = o.cfg.Workdir
	}
	cmd.Env = cmdEnv
	cmd.WaitDelay = waitDelay

	var output lockedBuffer
	stdout := &lineWriter{emit: o.logger.Info}
	stderr := &lineWriter{emit: o.logger.Warn}
	cmd.Stdout = io.MultiWriter(&output, stdout)
	cmd.Stderr = io.MultiWriter(&output, stderr)

	runErr := cmd.Run()
	stdout.Flush()
	stderr.Flush()

	log := output.String()
	result := domain.Validation{Metrics: o.extractMetrics(log), Log: log}

	switch {
	case ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.Log += fmt.Sprintf("\nvalidation timed out after %s\n", o.cfg.Timeout)
		return result, nil
	case runErr != nil:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.Log += fmt.Sprintf("\nvalidation exited with code %d\n", exitErr.ExitCode())
			return result, nil
		}
		err := zerr.Wrap(errors.Join(domain.ErrValidationFailed, runErr), "command failed to start")
		return domain.Validation{}, zerr.With(err, "command", name)
	case o.cfg.SuccessMarker != "" && !strings.Contains(log, o.cfg.SuccessMarker):
		result.Log += fmt.Sprintf("\nsuccess marker %q not found in output\n", o.cfg.SuccessMarker)
		return result, nil
	}

	result.Success = true
	return result, nil
}

// extractMetrics applies each pattern to the output and keeps the first group of the
// first match. Missing metrics are omitted.
func (o *Oracle) extractMetrics(output string) domain.Metrics {
	if len(o.metrics) == 0 {
		return nil
	}
	metrics := make(domain.Metrics, len(o.metrics))
	for name, re := range o.metrics {
		if m := re.FindStringSubmatch(output); m != nil {
			metrics[name] = strings.TrimSpace(m[1])
		}
	}
	return metrics
}

func scratchEnvironment(env domain.EnvHandle) []string {
	if env.Root == "" {
		return nil
	}
	return []string{
		"PATH=" + env.BinDir,
		"VIRTUAL_ENV=" + env.Root,
	}
}

// lineWriter forwards complete lines to emit, buffering partial writes.
type lineWriter struct {
	mu   sync.Mutex
	buf  []byte
	emit func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(strings.TrimRight(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

// lockedBuffer is a bytes.Buffer safe for the concurrent stdout and stderr copiers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv, scratchEnv []string, userEnv map[string]string) []string {
	// 1. Start with System Environment
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	// 2. Apply Scratch Environment (Prepend PATH)
	for _, entry := range scratchEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
			} else {
				envMap[k] = v
			}
		} else {
			envMap[k] = v
		}
	}

	// 3. Apply User Overrides
	for k, v := range userEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
