package errs_test

import (
	"errors"
	"testing"

	"routeplanner/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("routeId", "123")

		assert.Equal(t, "routeId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("routeId", "123", cause)

		assert.Equal(t, "routeId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: routeId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("plannedDate")

		assert.Equal(t, "plannedDate", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: plannedDate", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("date is in the past")
		err := errs.NewValueIsInvalidErrorWithCause("plannedDate", cause)

		assert.Equal(t, "plannedDate", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: plannedDate (cause: date is in the past)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 120.0, -90.0, 90.0)

		assert.Equal(t, "latitude", err.ParamName)
		assert.Equal(t, 120.0, err.Value)
		assert.Equal(t, -90.0, err.Min)
		assert.Equal(t, 90.0, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is out of range: 120 is latitude, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("operatorId")

		assert.Equal(t, "operatorId", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: operatorId", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("operatorId", cause)

		assert.Equal(t, "operatorId", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: operatorId (cause: missing required field)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestIllegalTransitionError(t *testing.T) {
	err := errs.NewIllegalTransitionError("Departed", "Arrived")

	assert.Equal(t, "Departed", err.From)
	assert.Equal(t, "Arrived", err.To)
	assert.Equal(t, "illegal status transition: cannot move from Departed to Arrived", err.Error())
	assert.Equal(t, errs.ErrIllegalTransition, err.Unwrap())
}

func TestInvalidStateError(t *testing.T) {
	err := errs.NewInvalidStateError("stop stop-1", "Departed")

	assert.Equal(t, "stop stop-1", err.Subject)
	assert.Equal(t, "Departed", err.State)
	assert.Equal(t, "invalid state: stop stop-1 is Departed", err.Error())
	assert.Equal(t, errs.ErrInvalidState, err.Unwrap())
}

func TestDuplicateMachineError(t *testing.T) {
	err := errs.NewDuplicateMachineError("machine-42")

	assert.Equal(t, "machine-42", err.MachineID)
	assert.Equal(t, "duplicate machine: machine machine-42 already has a stop on this route", err.Error())
	assert.Equal(t, errs.ErrDuplicateMachine, err.Unwrap())
}

func TestSequenceMismatchError(t *testing.T) {
	t.Run("NewSequenceMismatchError", func(t *testing.T) {
		err := errs.NewSequenceMismatchError(4, 3)

		assert.Equal(t, 4, err.Expected)
		assert.Equal(t, 3, err.Got)
		assert.Equal(t, "sequence mismatch: expected 4 reorderable stops, got 3", err.Error())
		assert.Equal(t, errs.ErrSequenceMismatch, err.Unwrap())
	})

	t.Run("NewSequenceMismatchErrorWithCause", func(t *testing.T) {
		cause := errors.New("stop abc does not belong to route")
		err := errs.NewSequenceMismatchErrorWithCause(4, 4, cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"sequence mismatch: expected 4 reorderable stops, got 4 (cause: stop abc does not belong to route)",
			err.Error())
	})
}

func TestConcurrentModificationError(t *testing.T) {
	err := errs.NewConcurrentModificationError("route-7")

	assert.Equal(t, "route-7", err.RouteID)
	assert.Equal(t, "concurrent modification: route route-7 was changed by another operation", err.Error())
	assert.Equal(t, errs.ErrConcurrentModification, err.Unwrap())
}

func TestDependencyUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := errs.NewDependencyUnavailableError("machine registry", cause)

	assert.Equal(t, "machine registry", err.Dependency)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, "dependency unavailable: machine registry (cause: connection refused)", err.Error())
	assert.Equal(t, errs.ErrDependencyUnavailable, err.Unwrap())
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrObjectNotFound)
		require.Error(t, errs.ErrValueIsInvalid)
		require.Error(t, errs.ErrValueIsOutOfRange)
		require.Error(t, errs.ErrValueIsRequired)
		require.Error(t, errs.ErrVersionIsInvalid)
		require.Error(t, errs.ErrIllegalTransition)
		require.Error(t, errs.ErrDuplicateMachine)
		require.Error(t, errs.ErrSequenceMismatch)
		require.Error(t, errs.ErrConcurrentModification)
		require.Error(t, errs.ErrDependencyUnavailable)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "version is invalid", errs.ErrVersionIsInvalid.Error())
		assert.Equal(t, "illegal status transition", errs.ErrIllegalTransition.Error())
		assert.Equal(t, "duplicate machine", errs.ErrDuplicateMachine.Error())
		assert.Equal(t, "sequence mismatch", errs.ErrSequenceMismatch.Error())
		assert.Equal(t, "concurrent modification", errs.ErrConcurrentModification.Error())
		assert.Equal(t, "dependency unavailable", errs.ErrDependencyUnavailable.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("routeId", "123"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("name"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsOutOfRangeError("lat", 120.0, -90.0, 90.0), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, errs.NewValueIsRequiredError("name"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewVersionIsInvalidError("version"), errs.ErrVersionIsInvalid)
		require.ErrorIs(t, errs.NewIllegalTransitionError("Pending", "Departed"), errs.ErrIllegalTransition)
		require.ErrorIs(t, errs.NewDuplicateMachineError("m1"), errs.ErrDuplicateMachine)
		require.ErrorIs(t, errs.NewSequenceMismatchError(2, 1), errs.ErrSequenceMismatch)
		require.ErrorIs(t, errs.NewConcurrentModificationError("r1"), errs.ErrConcurrentModification)
		require.ErrorIs(t, errs.NewDependencyUnavailableError("geo", nil), errs.ErrDependencyUnavailable)
	})
}
