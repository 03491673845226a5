package ports

import (
	"context"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
)

// RouteRepository defines the persistence operations for the Route aggregate.
// Implementations must persist the whole aggregate atomically, stops included,
// and enforce optimistic locking on Update: saving a route whose persisted
// version no longer matches the aggregate's version fails with
// *errs.ConcurrentModificationError.
type RouteRepository interface {
	// Add persists a newly created route with all its stops.
	Add(ctx context.Context, aggregate *route.Route) error

	// Update saves changes to an existing route and bumps its version.
	// Returns *errs.ConcurrentModificationError when the persisted version
	// differs from the aggregate's version.
	Update(ctx context.Context, aggregate *route.Route) error

	// Get loads a route by its identifier.
	// Soft-deleted routes are not returned.
	// Returns *errs.ObjectNotFoundError when no such route exists.
	Get(ctx context.Context, routeID kernel.UUID) (*route.Route, error)

	// GetByStopID loads the route that owns the given stop.
	// Returns *errs.ObjectNotFoundError when no route owns the stop.
	GetByStopID(ctx context.Context, stopID kernel.UUID) (*route.Route, error)

	// GetAllActive loads every route that is neither completed nor deleted.
	GetAllActive(ctx context.Context) ([]*route.Route, error)
}
