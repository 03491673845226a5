package commands

import (
	"context"
)

// CompleteRouteCommandHandler closes out finished routes.
// Completion requires every stop to be in a terminal status and computes the
// route's actual distance and duration from the recorded timestamps.
type CompleteRouteCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewCompleteRouteCommandHandler creates a handler for route completion.
func NewCompleteRouteCommandHandler(uowFactory RouteUoWFactory) CompleteRouteCommandHandler {
	return CompleteRouteCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the route completion command within a transaction.
func (h *CompleteRouteCommandHandler) Handle(ctx context.Context, cmd CompleteRouteCommand) error {
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

	if err = aggregate.Complete(cmd.CompletedAt()); err != nil {
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
