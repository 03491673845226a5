// Package gps consumes operator position pings from NATS and infers stop
// arrivals from proximity, so operators do not have to check in manually.
package gps

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"

	"github.com/nats-io/nats.go"
)

// ArrivalProximityKm is the distance at which a ping counts as arrival at the
// next stop. 75 meters absorbs urban GPS jitter without triggering on
// drive-bys.
const ArrivalProximityKm = 0.075

// PositionMessage is the JSON payload published by the mobile app on every
// position fix.
type PositionMessage struct {
	RouteID    string    `json:"routeId"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	RecordedAt time.Time `json:"recordedAt"`
}

// SubscriberMetrics is the instrumentation the subscriber reports into.
type SubscriberMetrics interface {
	GPSPingInc()
	GPSArrivalInc()
	NATSSetConnected(connected bool)
}

// Subscriber listens for position pings and turns close-enough ones into
// ARRIVE progress events.
type Subscriber struct {
	nc              *nats.Conn
	subscription    *nats.Subscription
	uowFactory      commands.RouteUoWFactory
	progressHandler commands.RecordProgressCommandHandler
	metrics         SubscriberMetrics
	logger          *slog.Logger
}

// NewSubscriber connects to NATS and prepares a subscriber for the given subject.
// The connection reports state changes into the metrics collector.
func NewSubscriber(
	url string,
	uowFactory commands.RouteUoWFactory,
	progressHandler commands.RecordProgressCommandHandler,
	m SubscriberMetrics,
	logger *slog.Logger,
) (*Subscriber, error) {
	nc, err := nats.Connect(url,
		nats.Name("routeplanner-gps"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Warn("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			logger.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}

	return &Subscriber{
		nc:              nc,
		uowFactory:      uowFactory,
		progressHandler: progressHandler,
		metrics:         m,
		logger:          logger,
	}, nil
}

// Start subscribes to the subject and processes pings until Close is called.
func (s *Subscriber) Start(subject string) error {
	subscription, err := s.nc.Subscribe(subject, func(msg *nats.Msg) {
		s.handlePing(context.Background(), msg.Data)
	})
	if err != nil {
		return err
	}

	s.subscription = subscription
	s.logger.Info("gps subscriber started", "subject", subject)
	return nil
}

// Close drains the subscription and closes the connection.
func (s *Subscriber) Close() {
	if s.subscription != nil {
		_ = s.subscription.Drain()
	}
	if s.nc != nil {
		_ = s.nc.Drain()
		s.nc.Close()
	}
}

// handlePing checks one ping against the route's next EnRoute stop.
// Malformed or irrelevant pings are logged and dropped; GPS is a lossy
// side channel and must never take the subscriber down.
func (s *Subscriber) handlePing(ctx context.Context, data []byte) {
	if s.metrics != nil {
		s.metrics.GPSPingInc()
	}

	var ping PositionMessage
	if err := json.Unmarshal(data, &ping); err != nil {
		s.logger.Warn("dropping malformed gps ping", "error", err)
		return
	}

	routeID, err := kernel.UUIDFromString(ping.RouteID)
	if err != nil {
		s.logger.Warn("dropping gps ping with bad route id", "routeId", ping.RouteID, "error", err)
		return
	}

	position, err := kernel.NewGeoPoint(ping.Lat, ping.Lon)
	if err != nil {
		s.logger.Warn("dropping gps ping with bad coordinates", "routeId", ping.RouteID, "error", err)
		return
	}

	stopID, ok, err := s.findArrivedStop(ctx, routeID, position)
	if err != nil {
		s.logger.Error("gps ping route lookup failed", "routeId", ping.RouteID, "error", err)
		return
	}
	if !ok {
		return
	}

	recordedAt := ping.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	cmd, err := commands.NewRecordProgressCommand(stopID, route.EventArrive, recordedAt)
	if err != nil {
		s.logger.Error("building arrival command failed", "stopId", stopID, "error", err)
		return
	}

	if err = s.progressHandler.Handle(ctx, cmd); err != nil {
		s.logger.Error("recording inferred arrival failed", "stopId", stopID, "error", err)
		return
	}

	if s.metrics != nil {
		s.metrics.GPSArrivalInc()
	}
	s.logger.Info("arrival inferred from gps proximity", "routeId", ping.RouteID, "stopId", stopID)
}

// findArrivedStop returns the route's first EnRoute stop within arrival
// proximity of the position, if any.
func (s *Subscriber) findArrivedStop(
	ctx context.Context, routeID kernel.UUID, position kernel.GeoPoint,
) (kernel.UUID, bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.RouteRepository().Get(ctx, routeID)
	if err != nil {
		return kernel.UUID{}, false, err
	}

	for _, stop := range aggregate.Stops() {
		if stop.Status() != route.EnRoute || !stop.HasLocation() {
			continue
		}

		km, distErr := position.DistanceKm(*stop.Location())
		if distErr != nil {
			return kernel.UUID{}, false, distErr
		}
		if km <= ArrivalProximityKm {
			return stop.ID(), true, nil
		}
	}

	return kernel.UUID{}, false, nil
}
