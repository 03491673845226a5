package http

import (
	"errors"
	"net/http"

	"routeplanner/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// jsonError writes the uniform error envelope with the status derived from
// the domain error taxonomy.
func jsonError(ctx echo.Context, err error) error {
	code := statusFor(err)
	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

// statusFor maps domain errors onto HTTP status codes.
// Conflicts (state machine violations, optimistic lock losses, sequence
// mismatches) map to 409 so clients know a retry with fresh state may work.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrIllegalTransition),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrDuplicateMachine),
		errors.Is(err, errs.ErrSequenceMismatch),
		errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, errs.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// badRequest writes a 400 with the given message.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
