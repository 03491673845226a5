package route

import (
	"fmt"
	"strings"

	"routeplanner/internal/pkg/errs"
)

// ProgressEvent is an operator action or GPS-derived inference that drives
// a stop status transition.
type ProgressEvent int

const (
	// EventUnknown represents an invalid or undefined event.
	EventUnknown ProgressEvent = iota

	// EventStartTravel marks the beginning of travel towards a stop.
	EventStartTravel

	// EventArrive marks arrival at the machine.
	EventArrive

	// EventDepart marks work completion and departure from the machine.
	EventDepart

	// EventSkip marks the stop unreachable.
	EventSkip

	// EventCancel removes the stop from the plan before the route starts.
	EventCancel
)

// getProgressEventStrings returns a map of ProgressEvent values to their wire representations.
func getProgressEventStrings() map[ProgressEvent]string {
	return map[ProgressEvent]string{
		EventUnknown:     "UNKNOWN",
		EventStartTravel: "START_TRAVEL",
		EventArrive:      "ARRIVE",
		EventDepart:      "DEPART",
		EventSkip:        "SKIP",
		EventCancel:      "CANCEL",
	}
}

// ProgressEventFromString parses a progress event from its wire representation
// (case-insensitive). Returns an error for unrecognized values.
func ProgressEventFromString(s string) (ProgressEvent, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for event, str := range getProgressEventStrings() {
		if event != EventUnknown && str == normalized {
			return event, nil
		}
	}
	return EventUnknown, errs.NewValueIsInvalidErrorWithCause("event",
		fmt.Errorf("%q is not a valid progress event", s))
}

// Validate checks if the ProgressEvent value is valid.
func (e ProgressEvent) Validate() error {
	switch e {
	case EventStartTravel, EventArrive, EventDepart, EventSkip, EventCancel:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("event is invalid",
			fmt.Errorf("%d is not a valid progress event", e))
	}
}

// String returns the wire representation of the event.
// This method implements the fmt.Stringer interface.
func (e ProgressEvent) String() string {
	if str, ok := getProgressEventStrings()[e]; ok {
		return str
	}
	return "UNKNOWN"
}
