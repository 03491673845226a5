package gps

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRouteRepo serves a single in-memory aggregate.
type fakeRouteRepo struct {
	aggregate *route.Route
	updated   int
}

func (f *fakeRouteRepo) Add(_ context.Context, _ *route.Route) error { return nil }

func (f *fakeRouteRepo) Update(_ context.Context, _ *route.Route) error {
	f.updated++
	return nil
}

func (f *fakeRouteRepo) Get(_ context.Context, _ kernel.UUID) (*route.Route, error) {
	return f.aggregate, nil
}

func (f *fakeRouteRepo) GetByStopID(_ context.Context, _ kernel.UUID) (*route.Route, error) {
	return f.aggregate, nil
}

func (f *fakeRouteRepo) GetAllActive(_ context.Context) ([]*route.Route, error) {
	return []*route.Route{f.aggregate}, nil
}

// fakeUoW is a no-op transaction wrapper around the fake repository.
type fakeUoW struct {
	repo *fakeRouteRepo
}

func (f *fakeUoW) Begin(_ context.Context) error          { return nil }
func (f *fakeUoW) Commit(_ context.Context) error         { return nil }
func (f *fakeUoW) Rollback(_ context.Context) error       { return nil }
func (f *fakeUoW) RouteRepository() ports.RouteRepository { return f.repo }

type fakeUoWFactory struct {
	uow *fakeUoW
}

func (f *fakeUoWFactory) Create() commands.RouteUoW { return f.uow }

func newPingSubscriber(t *testing.T, repo *fakeRouteRepo) *Subscriber {
	t.Helper()
	factory := &fakeUoWFactory{uow: &fakeUoW{repo: repo}}
	return &Subscriber{
		uowFactory:      factory,
		progressHandler: commands.NewRecordProgressCommandHandler(factory),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func enRouteStop(t *testing.T, aggregate *route.Route, lat, lon float64) *route.Stop {
	t.Helper()
	location, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	stop, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), &location, false)
	require.NoError(t, err)
	err = aggregate.RecordProgress(stop.ID(), route.EventStartTravel,
		time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return stop
}

func pingPayload(t *testing.T, routeID kernel.UUID, lat, lon float64) []byte {
	t.Helper()
	payload, err := json.Marshal(PositionMessage{
		RouteID:    routeID.String(),
		Lat:        lat,
		Lon:        lon,
		RecordedAt: time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return payload
}

func newGpsTestRoute(t *testing.T) *route.Route {
	t.Helper()
	aggregate, err := route.NewRoute(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		"gps route", route.Refill,
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), false,
	)
	require.NoError(t, err)
	return aggregate
}

func TestSubscriber_HandlePing_InfersArrivalWithinProximity(t *testing.T) {
	aggregate := newGpsTestRoute(t)
	stop := enRouteStop(t, aggregate, 48.1351, 11.5820)

	repo := &fakeRouteRepo{aggregate: aggregate}
	subscriber := newPingSubscriber(t, repo)

	// ~20 m away from the stop
	subscriber.handlePing(t.Context(), pingPayload(t, aggregate.ID(), 48.13528, 11.5820))

	assert.Equal(t, route.Arrived, stop.Status())
	require.NotNil(t, stop.ActualArrival())
	assert.Equal(t, 1, repo.updated)
}

func TestSubscriber_HandlePing_IgnoresDistantPing(t *testing.T) {
	aggregate := newGpsTestRoute(t)
	stop := enRouteStop(t, aggregate, 48.1351, 11.5820)

	repo := &fakeRouteRepo{aggregate: aggregate}
	subscriber := newPingSubscriber(t, repo)

	// ~1.1 km away, a drive-by must not count as arrival
	subscriber.handlePing(t.Context(), pingPayload(t, aggregate.ID(), 48.1450, 11.5820))

	assert.Equal(t, route.EnRoute, stop.Status())
	assert.Zero(t, repo.updated)
}

func TestSubscriber_HandlePing_IgnoresPendingStops(t *testing.T) {
	aggregate := newGpsTestRoute(t)
	location, err := kernel.NewGeoPoint(48.1351, 11.5820)
	require.NoError(t, err)
	stop, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), &location, false)
	require.NoError(t, err)

	repo := &fakeRouteRepo{aggregate: aggregate}
	subscriber := newPingSubscriber(t, repo)

	// Right on top of the stop, but travel never started
	subscriber.handlePing(t.Context(), pingPayload(t, aggregate.ID(), 48.1351, 11.5820))

	assert.Equal(t, route.Pending, stop.Status())
	assert.Zero(t, repo.updated)
}

func TestSubscriber_HandlePing_DropsMalformedPayloads(t *testing.T) {
	aggregate := newGpsTestRoute(t)
	repo := &fakeRouteRepo{aggregate: aggregate}
	subscriber := newPingSubscriber(t, repo)

	subscriber.handlePing(t.Context(), []byte("not json"))
	subscriber.handlePing(t.Context(), []byte(`{"routeId":"nope","lat":1,"lon":2}`))
	subscriber.handlePing(t.Context(), pingPayload(t, aggregate.ID(), 200, 11.5820))

	assert.Zero(t, repo.updated)
}
