package commands_test

import (
	"context"
	"time"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing.
type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, routeID kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

func (m *MockRouteRepository) GetByStopID(ctx context.Context, stopID kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, stopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

func (m *MockRouteRepository) GetAllActive(ctx context.Context) ([]*route.Route, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*route.Route), args.Error(1)
}

type MockRouteUoW struct {
	mock.Mock
}

func (m *MockRouteUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRouteUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRouteUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRouteUoW) RouteRepository() ports.RouteRepository {
	args := m.Called()
	return args.Get(0).(ports.RouteRepository)
}

type MockRouteUoWFactory struct {
	mock.Mock
}

func (m *MockRouteUoWFactory) Create() commands.RouteUoW {
	args := m.Called()
	return args.Get(0).(commands.RouteUoW)
}

type MockOperatorDirectory struct {
	mock.Mock
}

func (m *MockOperatorDirectory) GetOperator(ctx context.Context, operatorID kernel.UUID) (ports.Operator, error) {
	args := m.Called(ctx, operatorID)
	return args.Get(0).(ports.Operator), args.Error(1)
}

type MockMachineRegistry struct {
	mock.Mock
}

func (m *MockMachineRegistry) GetMachine(ctx context.Context, machineID kernel.UUID) (ports.Machine, error) {
	args := m.Called(ctx, machineID)
	return args.Get(0).(ports.Machine), args.Error(1)
}

// stubEstimator projects haversine distance at a fixed 30 km/h.
type stubEstimator struct{}

func (stubEstimator) Estimate(_ context.Context, from, to kernel.GeoPoint) (ports.DistanceEstimate, error) {
	km, err := from.DistanceKm(to)
	if err != nil {
		return ports.DistanceEstimate{}, err
	}
	return ports.DistanceEstimate{
		DistanceKm: km,
		TravelTime: time.Duration(km / 30.0 * float64(time.Hour)),
	}, nil
}
