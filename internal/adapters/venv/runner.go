package venv

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Output is the captured result of one command.
type Output struct {
	// Combined holds stdout and stderr interleaved as written.
	Combined string
	ExitCode int
}

// Runner executes a command. A non-zero exit is reported through Output.ExitCode;
// the error is reserved for commands that could not be started.
type Runner func(ctx context.Context, env []string, name string, args ...string) (Output, error)

// ExecRunner runs commands with os/exec, appending env to the inherited environment.
func ExecRunner(ctx context.Context, env []string, name string, args ...string) (Output, error) {
	//nolint:gosec // interpreter and arguments come from the project configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if exitErr := (*exec.ExitError)(nil); errors.As(err, &exitErr) {
		return Output{Combined: buf.String(), ExitCode: exitErr.ExitCode()}, nil
	}
	if err != nil {
		return Output{Combined: buf.String(), ExitCode: -1}, err
	}
	return Output{Combined: buf.String()}, nil
}
