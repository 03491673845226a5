package commands

import (
	"errors"

	"routeplanner/internal/pkg/guard"
)

var ErrRefreshETAsCommandIsNotConstructed = errors.New(
	"RefreshETAsCommand must be created via NewRefreshETAsCommand constructor",
)

// RefreshETAsCommand represents a request to re-project arrival times for
// every active route. Triggered periodically by the scheduler so estimates
// track real-world drift between progress events.
type RefreshETAsCommand struct {
	guard guard.ConstructorGuard
}

// NewRefreshETAsCommand creates a command to refresh all active routes' estimates.
func NewRefreshETAsCommand() RefreshETAsCommand {
	return RefreshETAsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c RefreshETAsCommand) Validate() error {
	return c.guard.Validate(ErrRefreshETAsCommandIsNotConstructed)
}
