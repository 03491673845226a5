package route

import (
	"fmt"

	"routeplanner/internal/pkg/errs"
)

// Status represents the lifecycle state of a route stop.
// It implements a state machine with defined transitions to ensure
// stops follow the correct field workflow.
//
// State transitions:
//
//	Pending ──┬──> EnRoute ──┬──> Arrived ──> Departed
//	          │              └──> Skipped
//	          ├──> Skipped
//	          └──> Cancelled
//
// Departed, Skipped, and Cancelled are terminal: a stop that reached one of
// them never transitions again. Status is a value object that validates state
// transitions and provides string representations for persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Pending is the initial status when a stop is added to a route.
	// The operator has not started travelling towards it yet.
	Pending

	// EnRoute indicates the operator is travelling towards the stop.
	EnRoute

	// Arrived indicates the operator reached the machine, either by GPS
	// proximity or by manual check-in.
	Arrived

	// Departed indicates the work at the stop is complete and the operator left.
	// This is a terminal state.
	Departed

	// Skipped indicates the stop was marked unreachable by the operator or a
	// manager. This is a terminal state.
	Skipped

	// Cancelled indicates the stop was removed from the plan before the route
	// started. This is a terminal state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Pending:       "Pending",
		EnRoute:       "EnRoute",
		Arrived:       "Arrived",
		Departed:      "Departed",
		Skipped:       "Skipped",
		Cancelled:     "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		EnRoute:   "EnRoute",
		Arrived:   "Arrived",
		Departed:  "Departed",
		Skipped:   "Skipped",
		Cancelled: "Cancelled",
	}
}

// Validate checks if the Status value is valid.
// StatusUnknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status is one of the final states.
// Terminal stops never transition again and are immutable except for
// notes and metadata.
func (s Status) IsTerminal() bool {
	return s == Departed || s == Skipped || s == Cancelled
}

// StartTravel transitions the status to EnRoute.
//
// Valid transitions:
//   - Pending -> EnRoute (operator begins travel toward the stop)
//
// Returns (0, *errs.IllegalTransitionError) for any other current state.
func (s Status) StartTravel() (Status, error) {
	if s != Pending {
		return 0, errs.NewIllegalTransitionError(s.String(), EnRoute.String())
	}
	return EnRoute, nil
}

// Arrive transitions the status to Arrived.
//
// Valid transitions:
//   - EnRoute -> Arrived (GPS proximity or manual check-in)
//
// Returns (0, *errs.IllegalTransitionError) for any other current state.
func (s Status) Arrive() (Status, error) {
	if s != EnRoute {
		return 0, errs.NewIllegalTransitionError(s.String(), Arrived.String())
	}
	return Arrived, nil
}

// Depart transitions the status to Departed.
//
// Valid transitions:
//   - Arrived -> Departed (work complete, operator leaves)
//
// Returns (0, *errs.IllegalTransitionError) for any other current state.
func (s Status) Depart() (Status, error) {
	if s != Arrived {
		return 0, errs.NewIllegalTransitionError(s.String(), Departed.String())
	}
	return Departed, nil
}

// Skip transitions the status to Skipped.
//
// Valid transitions:
//   - Pending -> Skipped
//   - EnRoute -> Skipped
//
// Returns (0, *errs.IllegalTransitionError) for any other current state.
func (s Status) Skip() (Status, error) {
	if s != Pending && s != EnRoute {
		return 0, errs.NewIllegalTransitionError(s.String(), Skipped.String())
	}
	return Skipped, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Pending -> Cancelled (route edited before start)
//
// Returns (0, *errs.IllegalTransitionError) for any other current state.
func (s Status) Cancel() (Status, error) {
	if s != Pending {
		return 0, errs.NewIllegalTransitionError(s.String(), Cancelled.String())
	}
	return Cancelled, nil
}
