package commands

import (
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var ErrDeleteRouteCommandIsNotConstructed = errors.New(
	"DeleteRouteCommand must be created via NewDeleteRouteCommand constructor",
)

// DeleteRouteCommand represents a request to soft-delete a route.
// Deleted routes disappear from reads but stay in storage for audit.
type DeleteRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteRouteCommand creates a command to soft-delete a route.
func NewDeleteRouteCommand(routeID kernel.UUID) (DeleteRouteCommand, error) {
	command := DeleteRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setRouteID(routeID); err != nil {
		return DeleteRouteCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteRouteCommand) Validate() error {
	return c.guard.Validate(ErrDeleteRouteCommandIsNotConstructed)
}

// RouteID returns the target route ID from the command.
func (c DeleteRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

func (c *DeleteRouteCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.routeID = id
	return nil
}
