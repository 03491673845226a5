package commands

import (
	"context"
)

// RemoveStopCommandHandler handles deleting a pending stop from a route.
// Removal renumbers the remaining stops so the sequence stays dense; stops
// that are already in progress or finished cannot be removed.
type RemoveStopCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewRemoveStopCommandHandler creates a handler for stop removal.
func NewRemoveStopCommandHandler(uowFactory RouteUoWFactory) RemoveStopCommandHandler {
	return RemoveStopCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the stop removal command within a transaction.
func (h *RemoveStopCommandHandler) Handle(ctx context.Context, cmd RemoveStopCommand) error {
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

	if err = aggregate.RemoveStop(cmd.StopID()); err != nil {
		return err
	}

	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
