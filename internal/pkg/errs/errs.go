package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification via errors.Is.
var (
	// ErrObjectNotFound indicates that a requested object does not exist.
	ErrObjectNotFound = errors.New("object not found")
	// ErrValueIsInvalid indicates that a provided value failed validation.
	ErrValueIsInvalid = errors.New("value is invalid")
	// ErrValueIsOutOfRange indicates that a provided value is outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")
	// ErrValueIsRequired indicates that a required value is missing.
	ErrValueIsRequired = errors.New("value is required")
	// ErrVersionIsInvalid indicates an aggregate version conflict or malformed version.
	ErrVersionIsInvalid = errors.New("version is invalid")
	// ErrIllegalTransition indicates a stop status transition that the state machine forbids.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrInvalidState indicates that an object is not in a state that permits the operation.
	ErrInvalidState = errors.New("invalid state")
	// ErrDuplicateMachine indicates that a machine already has a stop on the route.
	ErrDuplicateMachine = errors.New("duplicate machine")
	// ErrSequenceMismatch indicates that a reorder request does not match the route's stop set.
	ErrSequenceMismatch = errors.New("sequence mismatch")
	// ErrConcurrentModification indicates that another operation changed the route first.
	// Callers are expected to refetch the route and retry.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrDependencyUnavailable indicates that an upstream collaborator could not be reached.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// sanitize removes newlines from values interpolated into error messages
// so a single error always renders as a single log line.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// ObjectNotFoundError is returned when an object cannot be found by its identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without an underlying cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when a value fails a validation rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without an underlying cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError is returned when a numeric value is outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without an underlying cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %s)",
			ErrValueIsOutOfRange, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsOutOfRange, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError is returned when a required value is missing or empty.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without an underlying cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// VersionIsInvalidError is returned when an aggregate version check fails.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidError creates a VersionIsInvalidError without an underlying cause.
func NewVersionIsInvalidError(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

// NewVersionIsInvalidErrorWithCause creates a VersionIsInvalidError wrapping an underlying cause.
func NewVersionIsInvalidErrorWithCause(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *VersionIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrVersionIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName))
}

func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// IllegalTransitionError is returned when a stop status transition is not allowed
// by the state machine. It names both the current and the requested state so the
// caller can see exactly which rule was violated.
type IllegalTransitionError struct {
	From string
	To   string
}

// NewIllegalTransitionError creates an IllegalTransitionError for the given state pair.
func NewIllegalTransitionError(from, to string) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return sanitize(fmt.Sprintf("%s: cannot move from %s to %s", ErrIllegalTransition, e.From, e.To))
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// InvalidStateError is returned when an operation is not permitted in the
// subject's current state, for example removing a stop that already left Pending.
type InvalidStateError struct {
	Subject string
	State   string
}

// NewInvalidStateError creates an InvalidStateError for the given subject and state.
func NewInvalidStateError(subject, state string) *InvalidStateError {
	return &InvalidStateError{Subject: subject, State: state}
}

func (e *InvalidStateError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s is %s", ErrInvalidState, e.Subject, e.State))
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// DuplicateMachineError is returned when adding a stop for a machine that already
// has a stop on the same route and no repeat-visit override was requested.
type DuplicateMachineError struct {
	MachineID string
}

// NewDuplicateMachineError creates a DuplicateMachineError for the given machine.
func NewDuplicateMachineError(machineID string) *DuplicateMachineError {
	return &DuplicateMachineError{MachineID: machineID}
}

func (e *DuplicateMachineError) Error() string {
	return sanitize(fmt.Sprintf("%s: machine %s already has a stop on this route", ErrDuplicateMachine, e.MachineID))
}

func (e *DuplicateMachineError) Unwrap() error {
	return ErrDuplicateMachine
}

// SequenceMismatchError is returned when a reorder request does not cover exactly
// the route's current non-terminal stops.
type SequenceMismatchError struct {
	Expected int
	Got      int
	Cause    error
}

// NewSequenceMismatchError creates a SequenceMismatchError for the given set sizes.
func NewSequenceMismatchError(expected, got int) *SequenceMismatchError {
	return &SequenceMismatchError{Expected: expected, Got: got}
}

// NewSequenceMismatchErrorWithCause creates a SequenceMismatchError wrapping an underlying cause.
func NewSequenceMismatchErrorWithCause(expected, got int, cause error) *SequenceMismatchError {
	return &SequenceMismatchError{Expected: expected, Got: got, Cause: cause}
}

func (e *SequenceMismatchError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: expected %d reorderable stops, got %d (cause: %s)",
			ErrSequenceMismatch, e.Expected, e.Got, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: expected %d reorderable stops, got %d",
		ErrSequenceMismatch, e.Expected, e.Got))
}

func (e *SequenceMismatchError) Unwrap() error {
	return ErrSequenceMismatch
}

// ConcurrentModificationError is returned to the loser of a race between two
// mutations of the same route. The error is retryable: the caller should reload
// the route and reapply its change.
type ConcurrentModificationError struct {
	RouteID string
}

// NewConcurrentModificationError creates a ConcurrentModificationError for the given route.
func NewConcurrentModificationError(routeID string) *ConcurrentModificationError {
	return &ConcurrentModificationError{RouteID: routeID}
}

func (e *ConcurrentModificationError) Error() string {
	return sanitize(fmt.Sprintf("%s: route %s was changed by another operation", ErrConcurrentModification, e.RouteID))
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

// DependencyUnavailableError is returned when an upstream collaborator
// (machine registry, operator directory, distance provider) cannot be reached.
// The engine does not retry on its own; no partial mutation is left behind.
type DependencyUnavailableError struct {
	Dependency string
	Cause      error
}

// NewDependencyUnavailableError creates a DependencyUnavailableError for the named collaborator.
func NewDependencyUnavailableError(dependency string, cause error) *DependencyUnavailableError {
	return &DependencyUnavailableError{Dependency: dependency, Cause: cause}
}

func (e *DependencyUnavailableError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrDependencyUnavailable, e.Dependency, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrDependencyUnavailable, e.Dependency))
}

func (e *DependencyUnavailableError) Unwrap() error {
	return ErrDependencyUnavailable
}
