package commands

import (
	"errors"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/pkg/guard"
)

var (
	ErrRecordProgressCommandIsNotConstructed = errors.New(
		"RecordProgressCommand must be created via NewRecordProgressCommand constructor",
	)
	ErrOccurredAtIsRequired = errors.New("occurred at timestamp is required")
)

// RecordProgressCommand represents a stop lifecycle event reported from the
// field: an operator action in the mobile app or a GPS-derived inference.
type RecordProgressCommand struct { //nolint:recvcheck //using for validation
	stopID     kernel.UUID
	event      route.ProgressEvent
	occurredAt time.Time

	guard guard.ConstructorGuard
}

// NewRecordProgressCommand creates a command to apply a stop lifecycle event.
// The route is resolved from the stop, so callers only need the stop ID.
func NewRecordProgressCommand(
	stopID kernel.UUID,
	event route.ProgressEvent,
	occurredAt time.Time,
) (RecordProgressCommand, error) {
	command := RecordProgressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setStopID(stopID),
		command.setEvent(event),
		command.setOccurredAt(occurredAt),
	); err != nil {
		return RecordProgressCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordProgressCommand) Validate() error {
	return c.guard.Validate(ErrRecordProgressCommandIsNotConstructed)
}

// StopID returns the stop ID from the command.
func (c RecordProgressCommand) StopID() kernel.UUID {
	return c.stopID
}

// Event returns the lifecycle event from the command.
func (c RecordProgressCommand) Event() route.ProgressEvent {
	return c.event
}

// OccurredAt returns the event timestamp from the command.
func (c RecordProgressCommand) OccurredAt() time.Time {
	return c.occurredAt
}

func (c *RecordProgressCommand) setStopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.stopID = id
	return nil
}

func (c *RecordProgressCommand) setEvent(event route.ProgressEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	c.event = event
	return nil
}

func (c *RecordProgressCommand) setOccurredAt(occurredAt time.Time) error {
	if occurredAt.IsZero() {
		return ErrOccurredAtIsRequired
	}

	c.occurredAt = occurredAt
	return nil
}
