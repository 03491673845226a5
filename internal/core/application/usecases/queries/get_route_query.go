// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var (
	ErrGetRouteQueryIsNotConstructed = errors.New(
		"GetRouteQuery must be created via NewGetRouteQuery constructor",
	)
)

// GetRouteQuery retrieves a single route with its stops in visiting order.
//
// Example:
//
//	query, err := NewGetRouteQuery(routeID)
//	if err != nil {
//	    return err
//	}
//
//	response, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve route: %w", err)
//	}
//
//	for _, stop := range response.Stops {
//	    fmt.Printf("#%d %s (%s)\n", stop.Sequence, stop.MachineID, stop.Status)
//	}
type GetRouteQuery struct {
	routeID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewGetRouteQuery creates a query to retrieve the route with the given ID.
func NewGetRouteQuery(routeID kernel.UUID) (GetRouteQuery, error) {
	if err := routeID.Validate(); err != nil {
		return GetRouteQuery{}, err
	}

	return GetRouteQuery{
		routeID: routeID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// RouteID returns the identifier of the requested route.
func (q GetRouteQuery) RouteID() kernel.UUID {
	return q.routeID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetRouteQueryIsNotConstructed if validation fails.
func (q GetRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteQueryIsNotConstructed)
}

// GetRouteQueryResponse represents a route in the read model,
// including its stops sorted by sequence.
type GetRouteQueryResponse struct {
	ID                       kernel.UUID
	OrganizationID           kernel.UUID
	OperatorID               kernel.UUID
	Name                     string
	RouteType                string
	PlannedDate              time.Time
	AutoOptimize             bool
	EstimatedTotalDistanceKm *float64
	EstimatedDurationMinutes *int
	ActualDistanceKm         *float64
	ActualDurationMinutes    *int
	CompletedAt              *time.Time
	Version                  int
	Stops                    []GetRouteStopResponse
}

// GetRouteStopResponse represents a single stop in the route read model.
type GetRouteStopResponse struct {
	ID               kernel.UUID
	MachineID        kernel.UUID
	Sequence         int
	Status           string
	EstimatedArrival *time.Time
	ActualArrival    *time.Time
	DepartedAt       *time.Time
	Latitude         *float64
	Longitude        *float64
	Notes            string
}
