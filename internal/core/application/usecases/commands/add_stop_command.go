package commands

import (
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var ErrAddStopCommandIsNotConstructed = errors.New(
	"AddStopCommand must be created via NewAddStopCommand constructor",
)

// AddStopCommand represents a request to append a machine visit to a route.
//
// Example:
//
//	cmd, err := NewAddStopCommand(routeID, machineID, nil, false)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to add stop: %w", err)
//	}
type AddStopCommand struct { //nolint:recvcheck //using for validation
	stopID      kernel.UUID
	routeID     kernel.UUID
	machineID   kernel.UUID
	taskID      *kernel.UUID
	repeatVisit bool

	guard guard.ConstructorGuard
}

// NewAddStopCommand creates a command to append a stop to a route.
// Automatically generates a unique ID for the stop. taskID optionally links
// a work order; repeatVisit allows the machine to appear on the route twice.
func NewAddStopCommand(
	routeID, machineID kernel.UUID,
	taskID *kernel.UUID,
	repeatVisit bool,
) (AddStopCommand, error) {
	command := AddStopCommand{
		repeatVisit: repeatVisit,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setStopID(kernel.NewUUID()),
		command.setRouteID(routeID),
		command.setMachineID(machineID),
		command.setTaskID(taskID),
	); err != nil {
		return AddStopCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AddStopCommand) Validate() error {
	return c.guard.Validate(ErrAddStopCommandIsNotConstructed)
}

// StopID returns the generated stop ID from the command.
func (c AddStopCommand) StopID() kernel.UUID {
	return c.stopID
}

// RouteID returns the target route ID from the command.
func (c AddStopCommand) RouteID() kernel.UUID {
	return c.routeID
}

// MachineID returns the machine ID from the command.
func (c AddStopCommand) MachineID() kernel.UUID {
	return c.machineID
}

// TaskID returns the linked work order ID, or nil.
func (c AddStopCommand) TaskID() *kernel.UUID {
	return c.taskID
}

// RepeatVisit returns whether the stop intentionally revisits a machine.
func (c AddStopCommand) RepeatVisit() bool {
	return c.repeatVisit
}

func (c *AddStopCommand) setStopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.stopID = id
	return nil
}

func (c *AddStopCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.routeID = id
	return nil
}

func (c *AddStopCommand) setMachineID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.machineID = id
	return nil
}

func (c *AddStopCommand) setTaskID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}

	taskID := *id
	c.taskID = &taskID
	return nil
}
