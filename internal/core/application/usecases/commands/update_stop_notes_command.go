package commands

import (
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var (
	ErrUpdateStopNotesCommandIsNotConstructed = errors.New(
		"UpdateStopNotesCommand must be created via NewUpdateStopNotesCommand constructor",
	)
)

// UpdateStopNotesCommand updates the free-text notes and metadata of a stop.
// Unlike lifecycle events, this is allowed at any stop status: operators
// record outcomes ("machine jammed, parts ordered") after the stop is done.
type UpdateStopNotesCommand struct { //nolint:recvcheck //using for validation
	stopID   kernel.UUID
	notes    string
	metadata map[string]string

	guard guard.ConstructorGuard
}

// NewUpdateStopNotesCommand creates a command to update stop annotations.
// The metadata entries are merged into the stop's existing metadata.
func NewUpdateStopNotesCommand(
	stopID kernel.UUID,
	notes string,
	metadata map[string]string,
) (UpdateStopNotesCommand, error) {
	command := UpdateStopNotesCommand{
		notes:    notes,
		metadata: metadata,
		guard:    guard.NewConstructorGuard(),
	}

	if err := command.setStopID(stopID); err != nil {
		return UpdateStopNotesCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateStopNotesCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStopNotesCommandIsNotConstructed)
}

// StopID returns the stop ID from the command.
func (c UpdateStopNotesCommand) StopID() kernel.UUID {
	return c.stopID
}

// Notes returns the replacement notes text.
func (c UpdateStopNotesCommand) Notes() string {
	return c.notes
}

// Metadata returns the metadata entries to merge.
func (c UpdateStopNotesCommand) Metadata() map[string]string {
	return c.metadata
}

func (c *UpdateStopNotesCommand) setStopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.stopID = id
	return nil
}
