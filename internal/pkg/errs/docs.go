// Package errs provides standardized error types for the route planning engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - IllegalTransitionError: For forbidden stop status transitions
//   - DuplicateMachineError: For repeated machines within one route
//   - SequenceMismatchError: For reorder requests that do not match the stop set
//   - ConcurrentModificationError: For lost races between route mutations
//   - DependencyUnavailableError: For unreachable upstream collaborators
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrIllegalTransition)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach to error handling improves error reporting,
// makes error handling more consistent, and enables better error classification
// and handling throughout the application.
package errs
