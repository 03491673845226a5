package commands

import (
	"context"

	"routeplanner/internal/core/domain/services"
)

// OptimizeRouteCommandHandler runs the tour optimizer on a route.
//
// In the default mode the proposal is installed on the aggregate and
// persisted; in preview mode the transaction is rolled back and the caller
// only receives the proposal. Either way the computed result is returned so
// the API can echo the new order and projections.
type OptimizeRouteCommandHandler struct {
	uowFactory RouteUoWFactory
	planner    RoutePlanner
}

// NewOptimizeRouteCommandHandler creates a handler for route optimization.
func NewOptimizeRouteCommandHandler(uowFactory RouteUoWFactory, planner RoutePlanner) OptimizeRouteCommandHandler {
	return OptimizeRouteCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes the optimization command and returns the proposal.
func (h *OptimizeRouteCommandHandler) Handle(
	ctx context.Context,
	cmd OptimizeRouteCommand,
) (services.OptimizeResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.OptimizeResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.OptimizeResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	aggregate, err := routeRepo.Get(ctx, cmd.RouteID())
	if err != nil {
		return services.OptimizeResult{}, err
	}

	result, err := h.planner.plan(ctx, aggregate)
	if err != nil {
		return services.OptimizeResult{}, err
	}

	if cmd.Preview() {
		return result, nil
	}

	if err = aggregate.ApplyOptimizedOrder(
		result.OrderedStopIDs, result.ETAs, result.Warnings,
		result.TotalDistanceKm, result.TotalDurationMinutes,
	); err != nil {
		return services.OptimizeResult{}, err
	}

	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return services.OptimizeResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.OptimizeResult{}, err
	}

	return result, nil
}
