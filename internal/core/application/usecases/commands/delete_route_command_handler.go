package commands

import (
	"context"
	"time"
)

// DeleteRouteCommandHandler soft-deletes routes.
// The row is kept with a deletion timestamp; reads filter it out.
type DeleteRouteCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewDeleteRouteCommandHandler creates a handler for route deletion.
func NewDeleteRouteCommandHandler(uowFactory RouteUoWFactory) DeleteRouteCommandHandler {
	return DeleteRouteCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the route deletion command within a transaction.
func (h *DeleteRouteCommandHandler) Handle(ctx context.Context, cmd DeleteRouteCommand) error {
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

	aggregate.MarkDeleted(time.Now().UTC())

	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
