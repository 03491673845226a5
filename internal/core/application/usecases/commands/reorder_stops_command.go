package commands

import (
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var (
	ErrReorderStopsCommandIsNotConstructed = errors.New(
		"ReorderStopsCommand must be created via NewReorderStopsCommand constructor",
	)
	ErrOrderedStopIDsAreRequired = errors.New("ordered stop ids are required")
)

// ReorderStopsCommand represents a dispatcher's manual reorder of a route.
// The ordered ids must cover every non-terminal stop exactly once.
type ReorderStopsCommand struct { //nolint:recvcheck //using for validation
	routeID        kernel.UUID
	orderedStopIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewReorderStopsCommand creates a command to manually reorder a route's stops.
func NewReorderStopsCommand(routeID kernel.UUID, orderedStopIDs []kernel.UUID) (ReorderStopsCommand, error) {
	command := ReorderStopsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRouteID(routeID),
		command.setOrderedStopIDs(orderedStopIDs),
	); err != nil {
		return ReorderStopsCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReorderStopsCommand) Validate() error {
	return c.guard.Validate(ErrReorderStopsCommandIsNotConstructed)
}

// RouteID returns the target route ID from the command.
func (c ReorderStopsCommand) RouteID() kernel.UUID {
	return c.routeID
}

// OrderedStopIDs returns the desired visit order from the command.
func (c ReorderStopsCommand) OrderedStopIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(c.orderedStopIDs))
	copy(out, c.orderedStopIDs)
	return out
}

func (c *ReorderStopsCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.routeID = id
	return nil
}

func (c *ReorderStopsCommand) setOrderedStopIDs(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return ErrOrderedStopIDsAreRequired
	}
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.orderedStopIDs = make([]kernel.UUID, len(ids))
	copy(c.orderedStopIDs, ids)
	return nil
}
