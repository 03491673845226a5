package commands

import (
	"errors"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var (
	ErrCompleteRouteCommandIsNotConstructed = errors.New(
		"CompleteRouteCommand must be created via NewCompleteRouteCommand constructor",
	)
	ErrCompletedAtIsRequired = errors.New("completed at timestamp is required")
)

// CompleteRouteCommand represents a request to close out a finished route.
type CompleteRouteCommand struct { //nolint:recvcheck //using for validation
	routeID     kernel.UUID
	completedAt time.Time

	guard guard.ConstructorGuard
}

// NewCompleteRouteCommand creates a command to complete a route.
func NewCompleteRouteCommand(routeID kernel.UUID, completedAt time.Time) (CompleteRouteCommand, error) {
	command := CompleteRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRouteID(routeID),
		command.setCompletedAt(completedAt),
	); err != nil {
		return CompleteRouteCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteRouteCommand) Validate() error {
	return c.guard.Validate(ErrCompleteRouteCommandIsNotConstructed)
}

// RouteID returns the target route ID from the command.
func (c CompleteRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// CompletedAt returns the completion timestamp from the command.
func (c CompleteRouteCommand) CompletedAt() time.Time {
	return c.completedAt
}

func (c *CompleteRouteCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.routeID = id
	return nil
}

func (c *CompleteRouteCommand) setCompletedAt(completedAt time.Time) error {
	if completedAt.IsZero() {
		return ErrCompletedAtIsRequired
	}

	c.completedAt = completedAt
	return nil
}
