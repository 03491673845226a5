package commands

import (
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var ErrRemoveStopCommandIsNotConstructed = errors.New(
	"RemoveStopCommand must be created via NewRemoveStopCommand constructor",
)

// RemoveStopCommand represents a request to delete a pending stop from a route.
type RemoveStopCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID
	stopID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewRemoveStopCommand creates a command to remove a stop from a route.
func NewRemoveStopCommand(routeID, stopID kernel.UUID) (RemoveStopCommand, error) {
	command := RemoveStopCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRouteID(routeID),
		command.setStopID(stopID),
	); err != nil {
		return RemoveStopCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RemoveStopCommand) Validate() error {
	return c.guard.Validate(ErrRemoveStopCommandIsNotConstructed)
}

// RouteID returns the target route ID from the command.
func (c RemoveStopCommand) RouteID() kernel.UUID {
	return c.routeID
}

// StopID returns the stop ID from the command.
func (c RemoveStopCommand) StopID() kernel.UUID {
	return c.stopID
}

func (c *RemoveStopCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.routeID = id
	return nil
}

func (c *RemoveStopCommand) setStopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.stopID = id
	return nil
}
