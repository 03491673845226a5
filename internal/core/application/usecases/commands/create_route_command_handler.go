package commands

import (
	"context"
	"fmt"
	"time"

	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/errs"
)

// CreateRouteCommandHandler handles the business logic for route planning.
// Validates the assigned operator against the staff directory, rejects
// planned dates further in the past than the configured tolerance, and
// persists a new empty route.
//
// Example:
//
//	handler := NewCreateRouteCommandHandler(uowFactory, operatorDirectory, 24*time.Hour)
//	cmd, _ := NewCreateRouteCommand(orgID, operatorID, "Downtown collection",
//	    route.Collection, plannedDate, false)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("route planning failed: %w", err)
//	}
type CreateRouteCommandHandler struct {
	uowFactory        RouteUoWFactory
	operatorDirectory ports.OperatorDirectory
	pastDateTolerance time.Duration
}

// NewCreateRouteCommandHandler creates a handler for route planning.
// Requires a RouteUoWFactory for transactional persistence, an
// OperatorDirectory for validating the assigned operator, and the tolerance
// for how far in the past a planned date may still lie (late same-day or
// backdated planning across midnight).
func NewCreateRouteCommandHandler(
	uowFactory RouteUoWFactory,
	operatorDirectory ports.OperatorDirectory,
	pastDateTolerance time.Duration,
) CreateRouteCommandHandler {
	return CreateRouteCommandHandler{
		uowFactory:        uowFactory,
		operatorDirectory: operatorDirectory,
		pastDateTolerance: pastDateTolerance,
	}
}

// Handle processes the route creation command.
// Verifies the planned date is not in the past beyond the tolerance and that
// the operator exists and belongs to the same organization, then creates and
// persists the route within a transaction.
func (h *CreateRouteCommandHandler) Handle(ctx context.Context, cmd CreateRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if earliest := time.Now().UTC().Add(-h.pastDateTolerance); cmd.PlannedDate().Before(earliest) {
		return errs.NewValueIsInvalidErrorWithCause("plannedDate",
			fmt.Errorf("%s is more than %s in the past",
				cmd.PlannedDate().Format(time.RFC3339), h.pastDateTolerance))
	}

	operator, err := h.operatorDirectory.GetOperator(ctx, cmd.OperatorID())
	if err != nil {
		return err
	}
	if !operator.OrganizationID.IsEqual(cmd.OrganizationID()) {
		return errs.NewObjectNotFoundErrorWithCause("operatorId", cmd.OperatorID(),
			fmt.Errorf("operator belongs to another organization"))
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	aggregate, err := route.NewRoute(
		cmd.RouteID(), cmd.OrganizationID(), cmd.OperatorID(),
		cmd.Name(), cmd.RouteType(), cmd.PlannedDate(), cmd.AutoOptimize(),
	)
	if err != nil {
		return err
	}

	if err = routeRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
