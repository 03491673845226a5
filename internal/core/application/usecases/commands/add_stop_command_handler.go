package commands

import (
	"context"
	"fmt"

	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/errs"
)

// AddStopCommandHandler handles appending a machine visit to a route.
//
// The handler snapshots the machine's current location onto the new stop so
// that later machine relocations do not silently change an already planned
// tour. When the route has auto-optimization enabled, the whole route is
// re-planned in the same transaction.
type AddStopCommandHandler struct {
	uowFactory      RouteUoWFactory
	machineRegistry ports.MachineRegistry
	planner         RoutePlanner
}

// NewAddStopCommandHandler creates a handler for stop addition.
func NewAddStopCommandHandler(
	uowFactory RouteUoWFactory,
	machineRegistry ports.MachineRegistry,
	planner RoutePlanner,
) AddStopCommandHandler {
	return AddStopCommandHandler{
		uowFactory:      uowFactory,
		machineRegistry: machineRegistry,
		planner:         planner,
	}
}

// Handle processes the stop addition command.
// Verifies the machine exists and belongs to the route's organization,
// appends the stop at the end of the route, and re-optimizes when the route
// has auto-optimization enabled.
func (h *AddStopCommandHandler) Handle(ctx context.Context, cmd AddStopCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	aggregate, err := routeRepo.Get(ctx, cmd.RouteID())
	if err != nil {
		return err
	}

	machine, err := h.machineRegistry.GetMachine(ctx, cmd.MachineID())
	if err != nil {
		return err
	}
	if !machine.OrganizationID.IsEqual(aggregate.OrganizationID()) {
		return errs.NewObjectNotFoundErrorWithCause("machineId", cmd.MachineID(),
			fmt.Errorf("machine belongs to another organization"))
	}

	stop, err := aggregate.AddStop(cmd.StopID(), cmd.MachineID(), machine.Location, cmd.RepeatVisit())
	if err != nil {
		return err
	}

	if taskID := cmd.TaskID(); taskID != nil {
		if err = stop.AssignTask(*taskID); err != nil {
			return err
		}
	}

	if aggregate.AutoOptimize() {
		if err = h.planner.replan(ctx, aggregate); err != nil {
			return err
		}
	}

	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
