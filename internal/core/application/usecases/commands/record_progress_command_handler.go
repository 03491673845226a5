package commands

import (
	"context"
)

// RecordProgressCommandHandler applies stop lifecycle events to routes.
//
// The whole read-modify-write happens in one transaction, so a departure's
// schedule-drift propagation to downstream stops is persisted atomically with
// the status change itself.
type RecordProgressCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewRecordProgressCommandHandler creates a handler for progress events.
func NewRecordProgressCommandHandler(uowFactory RouteUoWFactory) RecordProgressCommandHandler {
	return RecordProgressCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the progress event command.
// Loads the route owning the stop, applies the event through the aggregate's
// state machine, and persists the result.
func (h *RecordProgressCommandHandler) Handle(ctx context.Context, cmd RecordProgressCommand) error {
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
	aggregate, err := routeRepo.GetByStopID(ctx, cmd.StopID())
	if err != nil {
		return err
	}

	if err = aggregate.RecordProgress(cmd.StopID(), cmd.Event(), cmd.OccurredAt()); err != nil {
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
