package ports

import (
	"context"

	"routeplanner/internal/core/domain/model/kernel"
)

// Machine is a read model of a vending machine owned by the machine inventory.
// The planning engine only needs identity, tenancy, and placement.
type Machine struct {
	ID             kernel.UUID
	OrganizationID kernel.UUID
	Name           string
	// Location is nil for machines whose placement has not been surveyed yet.
	Location *kernel.GeoPoint
}

// MachineRegistry exposes the machine inventory to the planning engine.
// Stop creation snapshots the machine location through this port.
type MachineRegistry interface {
	// GetMachine loads a machine by its identifier.
	// Returns *errs.ObjectNotFoundError when no such machine exists.
	GetMachine(ctx context.Context, machineID kernel.UUID) (Machine, error)
}
