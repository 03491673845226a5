package queries

import (
	"errors"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"
	"routeplanner/internal/pkg/guard"
)

var (
	ErrGetOperatorRoutesQueryIsNotConstructed = errors.New(
		"GetOperatorRoutesQuery must be created via NewGetOperatorRoutesQuery constructor",
	)
)

// GetOperatorRoutesQuery retrieves the routes assigned to an operator on a
// given planned date. Used by the mobile workday view and by dispatchers
// checking an operator's load.
//
// Example:
//
//	query, err := NewGetOperatorRoutesQuery(operatorID, workday)
//	if err != nil {
//	    return err
//	}
//
//	routes, err := handler.Handle(ctx, query)
//	for _, r := range routes {
//	    fmt.Printf("%s: %d stops, %d done\n", r.Name, r.TotalStops, r.CompletedStops)
//	}
type GetOperatorRoutesQuery struct {
	operatorID  kernel.UUID
	plannedDate time.Time
	guard       guard.ConstructorGuard
}

// NewGetOperatorRoutesQuery creates a query for an operator's routes on a date.
// The date is compared by calendar day.
func NewGetOperatorRoutesQuery(operatorID kernel.UUID, plannedDate time.Time) (GetOperatorRoutesQuery, error) {
	if err := operatorID.Validate(); err != nil {
		return GetOperatorRoutesQuery{}, err
	}
	if plannedDate.IsZero() {
		return GetOperatorRoutesQuery{}, errs.NewValueIsRequiredError("plannedDate")
	}

	return GetOperatorRoutesQuery{
		operatorID:  operatorID,
		plannedDate: plannedDate,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// OperatorID returns the operator whose routes are requested.
func (q GetOperatorRoutesQuery) OperatorID() kernel.UUID {
	return q.operatorID
}

// PlannedDate returns the workday the routes are planned for.
func (q GetOperatorRoutesQuery) PlannedDate() time.Time {
	return q.plannedDate
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOperatorRoutesQueryIsNotConstructed if validation fails.
func (q GetOperatorRoutesQuery) Validate() error {
	return q.guard.Validate(ErrGetOperatorRoutesQueryIsNotConstructed)
}

// GetOperatorRoutesQueryResponse summarizes one route in the operator's workday.
type GetOperatorRoutesQueryResponse struct {
	ID                       kernel.UUID
	Name                     string
	RouteType                string
	PlannedDate              time.Time
	EstimatedTotalDistanceKm *float64
	EstimatedDurationMinutes *int
	CompletedAt              *time.Time
	TotalStops               int
	CompletedStops           int
}
