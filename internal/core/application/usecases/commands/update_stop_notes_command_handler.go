package commands

import (
	"context"
)

// UpdateStopNotesCommandHandler updates stop annotations.
// Annotations bypass the stop state machine: they stay writable after the
// stop reached a terminal status.
type UpdateStopNotesCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewUpdateStopNotesCommandHandler creates a handler for stop annotation updates.
func NewUpdateStopNotesCommandHandler(uowFactory RouteUoWFactory) UpdateStopNotesCommandHandler {
	return UpdateStopNotesCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the annotation update command.
func (h *UpdateStopNotesCommandHandler) Handle(ctx context.Context, cmd UpdateStopNotesCommand) error {
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

	stop, err := aggregate.StopByID(cmd.StopID())
	if err != nil {
		return err
	}

	stop.UpdateNotes(cmd.Notes())
	for key, value := range cmd.Metadata() {
		stop.SetMetadataValue(key, value)
	}

	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
