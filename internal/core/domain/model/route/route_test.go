package route_test

import (
	"testing"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoute(t *testing.T) *route.Route {
	t.Helper()
	r, err := route.NewRoute(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		"Munich North refill",
		route.Refill,
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		false,
	)
	require.NoError(t, err)
	return r
}

func mustGeoPoint(t *testing.T, lat, lon float64) *kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return &p
}

func addStop(t *testing.T, r *route.Route, location *kernel.GeoPoint) *route.Stop {
	t.Helper()
	stop, err := r.AddStop(kernel.NewUUID(), kernel.NewUUID(), location, false)
	require.NoError(t, err)
	return stop
}

func TestNewRoute(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		r := newTestRoute(t)

		require.NoError(t, r.Validate())
		assert.Equal(t, "Munich North refill", r.Name())
		assert.Equal(t, route.Refill, r.RouteType())
		assert.Equal(t, 1, r.Version())
		assert.False(t, r.IsCompleted())
		assert.False(t, r.IsDeleted())
		assert.Empty(t, r.Stops())
	})

	t.Run("invalid parameters are joined", func(t *testing.T) {
		_, err := route.NewRoute(
			kernel.UUID{}, kernel.NewUUID(), kernel.UUID{},
			"",
			route.TypeUnknown,
			time.Time{},
			false,
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRouteAddStop(t *testing.T) {
	t.Run("appended stops get sequence max plus one", func(t *testing.T) {
		r := newTestRoute(t)

		first := addStop(t, r, nil)
		second := addStop(t, r, nil)
		third := addStop(t, r, nil)

		assert.Equal(t, 1, first.Sequence())
		assert.Equal(t, 2, second.Sequence())
		assert.Equal(t, 3, third.Sequence())
		assert.Equal(t, route.Pending, third.Status())
	})

	t.Run("adding a stop does not disturb existing positions", func(t *testing.T) {
		r := newTestRoute(t)
		existing := []*route.Stop{addStop(t, r, nil), addStop(t, r, nil)}

		addStop(t, r, nil)

		assert.Equal(t, 1, existing[0].Sequence())
		assert.Equal(t, 2, existing[1].Sequence())
	})

	t.Run("duplicate machine is rejected", func(t *testing.T) {
		r := newTestRoute(t)
		machineID := kernel.NewUUID()

		_, err := r.AddStop(kernel.NewUUID(), machineID, nil, false)
		require.NoError(t, err)

		_, err = r.AddStop(kernel.NewUUID(), machineID, nil, false)
		require.ErrorIs(t, err, errs.ErrDuplicateMachine)

		var dupErr *errs.DuplicateMachineError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, machineID.String(), dupErr.MachineID)
	})

	t.Run("repeat visit flag allows the same machine twice", func(t *testing.T) {
		r := newTestRoute(t)
		machineID := kernel.NewUUID()

		_, err := r.AddStop(kernel.NewUUID(), machineID, nil, false)
		require.NoError(t, err)

		revisit, err := r.AddStop(kernel.NewUUID(), machineID, nil, true)
		require.NoError(t, err)
		assert.True(t, revisit.IsRepeatVisit())
		assert.Equal(t, 2, revisit.Sequence())
	})

	t.Run("cancelled stop frees the machine slot", func(t *testing.T) {
		r := newTestRoute(t)
		machineID := kernel.NewUUID()

		cancelled, err := r.AddStop(kernel.NewUUID(), machineID, nil, false)
		require.NoError(t, err)
		require.NoError(t, r.RecordProgress(cancelled.ID(), route.EventCancel, time.Now()))

		_, err = r.AddStop(kernel.NewUUID(), machineID, nil, false)
		require.NoError(t, err)
	})
}

func TestRouteRemoveStop(t *testing.T) {
	t.Run("removal renumbers remaining stops densely", func(t *testing.T) {
		r := newTestRoute(t)
		first := addStop(t, r, nil)
		second := addStop(t, r, nil)
		third := addStop(t, r, nil)

		require.NoError(t, r.RemoveStop(second.ID()))

		assert.Len(t, r.Stops(), 2)
		assert.Equal(t, 1, first.Sequence())
		assert.Equal(t, 2, third.Sequence())
	})

	t.Run("only pending stops can be removed", func(t *testing.T) {
		r := newTestRoute(t)
		stop := addStop(t, r, nil)
		require.NoError(t, r.RecordProgress(stop.ID(), route.EventStartTravel, time.Now()))

		err := r.RemoveStop(stop.ID())
		require.ErrorIs(t, err, errs.ErrInvalidState)

		var stateErr *errs.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "EnRoute", stateErr.State)
	})

	t.Run("unknown stop", func(t *testing.T) {
		r := newTestRoute(t)
		addStop(t, r, nil)

		err := r.RemoveStop(kernel.NewUUID())
		require.ErrorIs(t, err, route.ErrStopNotFound)
	})
}

func TestRouteReplaceSequence(t *testing.T) {
	t.Run("reorders non-terminal stops", func(t *testing.T) {
		r := newTestRoute(t)
		a := addStop(t, r, nil)
		b := addStop(t, r, nil)
		c := addStop(t, r, nil)

		require.NoError(t, r.ReplaceSequence([]kernel.UUID{c.ID(), a.ID(), b.ID()}))

		assert.Equal(t, 1, c.Sequence())
		assert.Equal(t, 2, a.Sequence())
		assert.Equal(t, 3, b.Sequence())

		stops := r.Stops()
		assert.True(t, stops[0].IsEqual(c))
		assert.True(t, stops[1].IsEqual(a))
		assert.True(t, stops[2].IsEqual(b))
	})

	t.Run("terminal stops keep their slot", func(t *testing.T) {
		r := newTestRoute(t)
		a := addStop(t, r, nil)
		b := addStop(t, r, nil)
		c := addStop(t, r, nil)
		require.NoError(t, r.RecordProgress(b.ID(), route.EventSkip, time.Now()))

		require.NoError(t, r.ReplaceSequence([]kernel.UUID{c.ID(), a.ID()}))

		assert.Equal(t, 1, c.Sequence())
		assert.Equal(t, 2, b.Sequence())
		assert.Equal(t, 3, a.Sequence())
	})

	t.Run("wrong count fails with sequence mismatch", func(t *testing.T) {
		r := newTestRoute(t)
		a := addStop(t, r, nil)
		addStop(t, r, nil)

		err := r.ReplaceSequence([]kernel.UUID{a.ID()})
		require.ErrorIs(t, err, errs.ErrSequenceMismatch)

		var mismatchErr *errs.SequenceMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, 2, mismatchErr.Expected)
		assert.Equal(t, 1, mismatchErr.Got)
	})

	t.Run("foreign stop id fails with sequence mismatch", func(t *testing.T) {
		r := newTestRoute(t)
		a := addStop(t, r, nil)
		addStop(t, r, nil)

		err := r.ReplaceSequence([]kernel.UUID{a.ID(), kernel.NewUUID()})
		require.ErrorIs(t, err, errs.ErrSequenceMismatch)
	})

	t.Run("duplicate stop id fails with sequence mismatch", func(t *testing.T) {
		r := newTestRoute(t)
		a := addStop(t, r, nil)
		addStop(t, r, nil)

		err := r.ReplaceSequence([]kernel.UUID{a.ID(), a.ID()})
		require.ErrorIs(t, err, errs.ErrSequenceMismatch)
	})
}

func TestRouteRecordProgress(t *testing.T) {
	t.Run("arrive stamps the actual arrival", func(t *testing.T) {
		r := newTestRoute(t)
		stop := addStop(t, r, nil)
		arrivedAt := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

		require.NoError(t, r.RecordProgress(stop.ID(), route.EventStartTravel, arrivedAt.Add(-10*time.Minute)))
		require.NoError(t, r.RecordProgress(stop.ID(), route.EventArrive, arrivedAt))

		assert.Equal(t, route.Arrived, stop.Status())
		require.NotNil(t, stop.ActualArrival())
		assert.Equal(t, arrivedAt, *stop.ActualArrival())
	})

	t.Run("second arrive fails and keeps the first timestamp", func(t *testing.T) {
		r := newTestRoute(t)
		stop := addStop(t, r, nil)
		arrivedAt := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

		require.NoError(t, r.RecordProgress(stop.ID(), route.EventStartTravel, arrivedAt.Add(-10*time.Minute)))
		require.NoError(t, r.RecordProgress(stop.ID(), route.EventArrive, arrivedAt))

		err := r.RecordProgress(stop.ID(), route.EventArrive, arrivedAt.Add(5*time.Minute))
		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, arrivedAt, *stop.ActualArrival())
	})

	t.Run("depart stamps the departure", func(t *testing.T) {
		r := newTestRoute(t)
		stop := addStop(t, r, nil)
		departedAt := time.Date(2025, 6, 2, 9, 45, 0, 0, time.UTC)

		require.NoError(t, r.RecordProgress(stop.ID(), route.EventStartTravel, departedAt.Add(-30*time.Minute)))
		require.NoError(t, r.RecordProgress(stop.ID(), route.EventArrive, departedAt.Add(-15*time.Minute)))
		require.NoError(t, r.RecordProgress(stop.ID(), route.EventDepart, departedAt))

		assert.Equal(t, route.Departed, stop.Status())
		require.NotNil(t, stop.DepartedAt())
		assert.Equal(t, departedAt, *stop.DepartedAt())
	})

	t.Run("skip from pending and en route", func(t *testing.T) {
		r := newTestRoute(t)
		pending := addStop(t, r, nil)
		enRoute := addStop(t, r, nil)
		require.NoError(t, r.RecordProgress(enRoute.ID(), route.EventStartTravel, time.Now()))

		require.NoError(t, r.RecordProgress(pending.ID(), route.EventSkip, time.Now()))
		require.NoError(t, r.RecordProgress(enRoute.ID(), route.EventSkip, time.Now()))

		assert.Equal(t, route.Skipped, pending.Status())
		assert.Equal(t, route.Skipped, enRoute.Status())
	})

	t.Run("invalid event", func(t *testing.T) {
		r := newTestRoute(t)
		stop := addStop(t, r, nil)

		err := r.RecordProgress(stop.ID(), route.EventUnknown, time.Now())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRouteDepartShiftsDownstreamEstimates(t *testing.T) {
	r := newTestRoute(t)
	first := addStop(t, r, nil)
	second := addStop(t, r, nil)
	third := addStop(t, r, nil)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	etas := map[kernel.UUID]time.Time{
		first.ID():  base,
		second.ID(): base.Add(30 * time.Minute),
		third.ID():  base.Add(60 * time.Minute),
	}
	require.NoError(t, r.ApplyOptimizedOrder(
		[]kernel.UUID{first.ID(), second.ID(), third.ID()}, etas, nil, 12.5, 75))

	require.NoError(t, r.RecordProgress(first.ID(), route.EventStartTravel, base.Add(-10*time.Minute)))
	require.NoError(t, r.RecordProgress(first.ID(), route.EventArrive, base))

	// Refill service takes 15 minutes, so departing at +35 means 20 minutes late.
	require.NoError(t, r.RecordProgress(first.ID(), route.EventDepart, base.Add(35*time.Minute)))

	assert.Equal(t, base.Add(50*time.Minute), *second.EstimatedArrival())
	assert.Equal(t, base.Add(80*time.Minute), *third.EstimatedArrival())
}

func TestRouteApplyOptimizedOrder(t *testing.T) {
	t.Run("installs order, estimates and warnings", func(t *testing.T) {
		r := newTestRoute(t)
		a := addStop(t, r, nil)
		b := addStop(t, r, nil)

		base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
		err := r.ApplyOptimizedOrder(
			[]kernel.UUID{b.ID(), a.ID()},
			map[kernel.UUID]time.Time{b.ID(): base, a.ID(): base.Add(25 * time.Minute)},
			map[kernel.UUID]string{a.ID(): route.WarningMissingCoordinates},
			8.4, 40,
		)
		require.NoError(t, err)

		assert.Equal(t, 1, b.Sequence())
		assert.Equal(t, 2, a.Sequence())
		assert.Equal(t, base, *b.EstimatedArrival())

		warning, ok := a.MetadataValue(route.MetadataWarning)
		assert.True(t, ok)
		assert.Equal(t, route.WarningMissingCoordinates, warning)

		require.NotNil(t, r.EstimatedTotalDistanceKm())
		assert.InDelta(t, 8.4, *r.EstimatedTotalDistanceKm(), 1e-9)
		require.NotNil(t, r.EstimatedDurationMinutes())
		assert.Equal(t, 40, *r.EstimatedDurationMinutes())
	})

	t.Run("only movable stops are reorderable", func(t *testing.T) {
		r := newTestRoute(t)
		a := addStop(t, r, nil)
		b := addStop(t, r, nil)
		require.NoError(t, r.RecordProgress(a.ID(), route.EventSkip, time.Now()))

		// a is terminal, so the optimizer output must cover b only.
		err := r.ApplyOptimizedOrder([]kernel.UUID{b.ID(), a.ID()}, nil, nil, 0, 0)
		require.ErrorIs(t, err, errs.ErrSequenceMismatch)

		require.NoError(t, r.ApplyOptimizedOrder([]kernel.UUID{b.ID()}, nil, nil, 0, 0))
		assert.Equal(t, 1, a.Sequence())
		assert.Equal(t, 2, b.Sequence())
	})
}

func TestRouteComplete(t *testing.T) {
	t.Run("fails while stops are open", func(t *testing.T) {
		r := newTestRoute(t)
		addStop(t, r, nil)

		err := r.Complete(time.Now())
		require.ErrorIs(t, err, route.ErrRouteHasUnfinishedStops)
	})

	t.Run("computes actuals from recorded timestamps", func(t *testing.T) {
		r := newTestRoute(t)
		munich := mustGeoPoint(t, 48.1351, 11.5820)
		augsburg := mustGeoPoint(t, 48.3705, 10.8978)
		first := addStop(t, r, munich)
		second := addStop(t, r, augsburg)
		skipped := addStop(t, r, nil)

		base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
		visit := func(stop *route.Stop, arrive, depart time.Time) {
			require.NoError(t, r.RecordProgress(stop.ID(), route.EventStartTravel, arrive.Add(-10*time.Minute)))
			require.NoError(t, r.RecordProgress(stop.ID(), route.EventArrive, arrive))
			require.NoError(t, r.RecordProgress(stop.ID(), route.EventDepart, depart))
		}
		visit(first, base, base.Add(20*time.Minute))
		visit(second, base.Add(70*time.Minute), base.Add(90*time.Minute))
		require.NoError(t, r.RecordProgress(skipped.ID(), route.EventSkip, base.Add(95*time.Minute)))

		completedAt := base.Add(2 * time.Hour)
		require.NoError(t, r.Complete(completedAt))

		assert.True(t, r.IsCompleted())
		assert.Equal(t, completedAt, *r.CompletedAt())

		require.NotNil(t, r.ActualDurationMinutes())
		assert.Equal(t, 90, *r.ActualDurationMinutes())

		// Munich to Augsburg is roughly 57 km as the crow flies.
		require.NotNil(t, r.ActualDistanceKm())
		assert.InDelta(t, 57.0, *r.ActualDistanceKm(), 3.0)
	})

	t.Run("completed route rejects further mutations", func(t *testing.T) {
		r := newTestRoute(t)
		require.NoError(t, r.Complete(time.Now()))

		_, err := r.AddStop(kernel.NewUUID(), kernel.NewUUID(), nil, false)
		require.ErrorIs(t, err, errs.ErrInvalidState)

		var stateErr *errs.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "completed", stateErr.State)

		// Notes and metadata stay mutable.
		r.UpdateNotes("wrapped up early")
		r.SetMetadataValue("weather", "rain")
		assert.Equal(t, "wrapped up early", r.Notes())
	})
}

func TestRouteMarkDeleted(t *testing.T) {
	r := newTestRoute(t)
	deletedAt := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	r.MarkDeleted(deletedAt)
	assert.True(t, r.IsDeleted())
	assert.Equal(t, deletedAt, *r.DeletedAt())

	// Idempotent: the original timestamp survives a second call.
	r.MarkDeleted(deletedAt.Add(time.Hour))
	assert.Equal(t, deletedAt, *r.DeletedAt())

	err := r.RemoveStop(kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestRestoreRoute(t *testing.T) {
	t.Run("round trip preserves state", func(t *testing.T) {
		stop, err := route.RestoreStop(
			kernel.NewUUID(), kernel.NewUUID(), nil,
			1, route.Departed,
			nil, timePtr(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)),
			timePtr(time.Date(2025, 6, 2, 9, 20, 0, 0, time.UTC)),
			nil, "left refill receipt", map[string]string{"bay": "3"},
		)
		require.NoError(t, err)

		distance := 12.5
		duration := 85
		restored, err := route.RestoreRoute(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			"restored", route.Collection,
			time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			true,
			&distance, &duration, nil, nil,
			"route notes", map[string]string{"region": "south"},
			nil, nil, 7,
			[]*route.Stop{stop},
		)
		require.NoError(t, err)

		assert.Equal(t, 7, restored.Version())
		assert.True(t, restored.AutoOptimize())
		assert.Equal(t, "south", restored.Metadata()["region"])
		require.Len(t, restored.Stops(), 1)
		assert.Equal(t, route.Departed, restored.Stops()[0].Status())
	})

	t.Run("gapped sequence is rejected", func(t *testing.T) {
		first, err := route.NewStop(kernel.NewUUID(), kernel.NewUUID(), 1, nil)
		require.NoError(t, err)
		third, err := route.NewStop(kernel.NewUUID(), kernel.NewUUID(), 3, nil)
		require.NoError(t, err)

		_, err = route.RestoreRoute(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			"gapped", route.Refill,
			time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			false,
			nil, nil, nil, nil, "", nil, nil, nil, 1,
			[]*route.Stop{first, third},
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("invalid version is rejected", func(t *testing.T) {
		_, err := route.RestoreRoute(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			"bad version", route.Refill,
			time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			false,
			nil, nil, nil, nil, "", nil, nil, nil, 0,
			nil,
		)
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})
}

func TestStopTaskAssignment(t *testing.T) {
	r := newTestRoute(t)
	stop := addStop(t, r, nil)
	taskID := kernel.NewUUID()

	require.NoError(t, stop.AssignTask(taskID))
	require.NotNil(t, stop.TaskID())
	assert.True(t, stop.TaskID().IsEqual(taskID))

	require.NoError(t, r.RecordProgress(stop.ID(), route.EventSkip, time.Now()))
	err := stop.AssignTask(kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
