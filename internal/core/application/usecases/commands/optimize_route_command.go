package commands

import (
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var ErrOptimizeRouteCommandIsNotConstructed = errors.New(
	"OptimizeRouteCommand must be created via NewOptimizeRouteCommand constructor",
)

// OptimizeRouteCommand represents a request to run the tour optimizer on a route.
// In preview mode the proposal is computed and returned but not persisted.
type OptimizeRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID
	preview bool

	guard guard.ConstructorGuard
}

// NewOptimizeRouteCommand creates a command to optimize a route's stop order.
func NewOptimizeRouteCommand(routeID kernel.UUID, preview bool) (OptimizeRouteCommand, error) {
	command := OptimizeRouteCommand{
		preview: preview,
		guard:   guard.NewConstructorGuard(),
	}

	if err := command.setRouteID(routeID); err != nil {
		return OptimizeRouteCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c OptimizeRouteCommand) Validate() error {
	return c.guard.Validate(ErrOptimizeRouteCommandIsNotConstructed)
}

// RouteID returns the target route ID from the command.
func (c OptimizeRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// Preview returns whether the proposal should be returned without persisting.
func (c OptimizeRouteCommand) Preview() bool {
	return c.preview
}

func (c *OptimizeRouteCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.routeID = id
	return nil
}
