package commands

import (
	"context"
)

// ReorderStopsCommandHandler handles manual stop reordering by a dispatcher.
// The supplied order is authoritative: the optimizer is not consulted, but
// estimated arrivals are re-projected along the new order so the schedule
// stays consistent.
type ReorderStopsCommandHandler struct {
	uowFactory RouteUoWFactory
	planner    RoutePlanner
}

// NewReorderStopsCommandHandler creates a handler for manual reordering.
func NewReorderStopsCommandHandler(uowFactory RouteUoWFactory, planner RoutePlanner) ReorderStopsCommandHandler {
	return ReorderStopsCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes the reorder command within a transaction.
// A concurrent mutation of the same route surfaces as
// *errs.ConcurrentModificationError from the repository update.
func (h *ReorderStopsCommandHandler) Handle(ctx context.Context, cmd ReorderStopsCommand) error {
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

	if err = aggregate.ReplaceSequence(cmd.OrderedStopIDs()); err != nil {
		return err
	}

	if err = h.planner.refreshEstimates(ctx, aggregate); err != nil {
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
