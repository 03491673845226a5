package commands

import (
	"context"
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
)

// RefreshETAsCommandHandler re-projects arrival times for every active route.
//
// Each route is processed in its own transaction so one stale route cannot
// block the rest of the batch; per-route failures are collected and returned
// after the sweep.
//
// Example:
//
//	handler := NewRefreshETAsCommandHandler(uowFactory, planner)
//	cmd := NewRefreshETAsCommand()
//
//	// This would typically be called periodically by a scheduler
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("schedule refresh failed: %w", err)
//	}
type RefreshETAsCommandHandler struct {
	uowFactory RouteUoWFactory
	planner    RoutePlanner
}

// NewRefreshETAsCommandHandler creates a handler for the periodic schedule refresh.
func NewRefreshETAsCommandHandler(uowFactory RouteUoWFactory, planner RoutePlanner) RefreshETAsCommandHandler {
	return RefreshETAsCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes the refresh command.
// Loads every active route, re-projects its schedule in current stop order,
// and persists the updates. Errors from individual routes are joined so a
// single failure does not hide the others.
func (h *RefreshETAsCommandHandler) Handle(ctx context.Context, cmd RefreshETAsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	routeIDs, err := h.listActiveRouteIDs(ctx)
	if err != nil {
		return err
	}

	var refreshErrs []error
	for _, id := range routeIDs {
		if refreshErr := h.refreshRoute(ctx, id); refreshErr != nil {
			refreshErrs = append(refreshErrs, refreshErr)
		}
	}

	return errors.Join(refreshErrs...)
}

func (h *RefreshETAsCommandHandler) listActiveRouteIDs(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routes, err := uow.RouteRepository().GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(routes))
	for _, aggregate := range routes {
		ids = append(ids, aggregate.ID())
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ids, nil
}

func (h *RefreshETAsCommandHandler) refreshRoute(ctx context.Context, id kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	aggregate, err := routeRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err = h.planner.refreshEstimates(ctx, aggregate); err != nil {
		return err
	}

	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
