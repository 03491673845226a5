package ports

import (
	"context"

	"routeplanner/internal/core/domain/model/kernel"
)

// Operator is a read model of a field operator from the staff directory.
type Operator struct {
	ID             kernel.UUID
	OrganizationID kernel.UUID
	Name           string
	// StartLocation is where the operator begins the workday (home depot),
	// nil when not configured.
	StartLocation *kernel.GeoPoint
}

// OperatorDirectory exposes the staff directory to the planning engine.
// Route creation validates the assigned operator through this port, and the
// optimizer anchors the tour at the operator's start location when available.
type OperatorDirectory interface {
	// GetOperator loads an operator by its identifier.
	// Returns *errs.ObjectNotFoundError when no such operator exists.
	GetOperator(ctx context.Context, operatorID kernel.UUID) (Operator, error)
}
