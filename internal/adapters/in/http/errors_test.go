package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	id := kernel.NewUUID()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errs.NewObjectNotFoundError("route", id), http.StatusNotFound},
		{"illegal transition", errs.NewIllegalTransitionError("Departed", "EnRoute"), http.StatusConflict},
		{"invalid state", errs.NewInvalidStateError("route", "completed"), http.StatusConflict},
		{"duplicate machine", errs.NewDuplicateMachineError(id.String()), http.StatusConflict},
		{"sequence mismatch", errs.NewSequenceMismatchError(4, 3), http.StatusConflict},
		{"concurrent modification", errs.NewConcurrentModificationError(id.String()), http.StatusConflict},
		{"dependency unavailable", errs.NewDependencyUnavailableError("machine registry", errors.New("dial timeout")), http.StatusServiceUnavailable},
		{"invalid value", errs.NewValueIsInvalidError("routeType"), http.StatusBadRequest},
		{"required value", errs.NewValueIsRequiredError("name"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("latitude", 91, -90, 90), http.StatusBadRequest},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestJsonErrorEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	id := kernel.NewUUID()
	err := jsonError(ctx, errs.NewObjectNotFoundError("route", id))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Code)
	assert.Contains(t, body.Message, id.String())
}
