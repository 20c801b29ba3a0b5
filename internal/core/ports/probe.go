// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/upkeep/internal/core/domain"
)

// EnvironmentProbe manages the single scratch environment used to try requirement sets.
//
// Implementations are responsible for:
//   - Destroying any previous scratch environment before creating a new one
//   - Installing requirement lines in one resolver invocation
//   - Listing the installed distributions after a successful install
//
//go:generate go run go.uber.org/mock/mockgen -source=probe.go -destination=mocks/mock_probe.go -package=mocks
type EnvironmentProbe interface {
	// Create destroys and recreates the scratch environment.
	Create(ctx context.Context) (domain.EnvHandle, error)

	// Install installs the requirement lines into env.
	// A failed resolution is reported through InstallResult, not the error;
	// the error is reserved for failures to run the installer at all.
	Install(ctx context.Context, env domain.EnvHandle, lines []string) (domain.InstallResult, error)

	// Freeze lists the distributions installed in env as requirement lines.
	Freeze(ctx context.Context, env domain.EnvHandle) ([]string, error)

	// Destroy removes env.
	Destroy(ctx context.Context, env domain.EnvHandle) error
}

// ValidationOracle runs the project-specific check inside an environment.
type ValidationOracle interface {
	// Validate runs the check. A failing check is reported through Validation.Success;
	// the error is reserved for failures to start the check.
	Validate(ctx context.Context, env domain.EnvHandle) (domain.Validation, error)
}
