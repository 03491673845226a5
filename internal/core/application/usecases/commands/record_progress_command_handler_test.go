package commands_test

import (
	"testing"
	"time"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordProgressCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	aggregate := plannedRoute(t, kernel.NewUUID(), false)
	stop, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), nil, false)
	require.NoError(t, err)

	occurredAt := time.Date(2025, 6, 2, 8, 15, 0, 0, time.UTC)
	cmd, err := commands.NewRecordProgressCommand(stop.ID(), route.EventStartTravel, occurredAt)
	require.NoError(t, err)

	mockRepo := new(MockRouteRepository)
	mockUoW := new(MockRouteUoW)
	mockFactory := new(MockRouteUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("RouteRepository").Return(mockRepo).Once(),
		mockRepo.On("GetByStopID", ctx, stop.ID()).Return(aggregate, nil).Once(),
		mockRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewRecordProgressCommandHandler(mockFactory)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, route.EnRoute, stop.Status())
	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestRecordProgressCommandHandler_Handle_IllegalTransition(t *testing.T) {
	// Arrange
	ctx := t.Context()
	aggregate := plannedRoute(t, kernel.NewUUID(), false)
	stop, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), nil, false)
	require.NoError(t, err)

	// Arrive straight from Pending is illegal.
	cmd, err := commands.NewRecordProgressCommand(stop.ID(), route.EventArrive, time.Now())
	require.NoError(t, err)

	mockRepo := new(MockRouteRepository)
	mockUoW := new(MockRouteUoW)
	mockFactory := new(MockRouteUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("RouteRepository").Return(mockRepo).Once(),
		mockRepo.On("GetByStopID", ctx, stop.ID()).Return(aggregate, nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewRecordProgressCommandHandler(mockFactory)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrIllegalTransition)
	assert.Equal(t, route.Pending, stop.Status())
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestRecordProgressCommandHandler_Handle_ConcurrentModification(t *testing.T) {
	// Arrange
	ctx := t.Context()
	aggregate := plannedRoute(t, kernel.NewUUID(), false)
	stop, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), nil, false)
	require.NoError(t, err)

	cmd, err := commands.NewRecordProgressCommand(stop.ID(), route.EventStartTravel, time.Now())
	require.NoError(t, err)

	conflict := errs.NewConcurrentModificationError(aggregate.ID().String())
	mockRepo := new(MockRouteRepository)
	mockUoW := new(MockRouteUoW)
	mockFactory := new(MockRouteUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("RouteRepository").Return(mockRepo).Once(),
		mockRepo.On("GetByStopID", ctx, stop.ID()).Return(aggregate, nil).Once(),
		mockRepo.On("Update", ctx, aggregate).Return(conflict).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewRecordProgressCommandHandler(mockFactory)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestRecordProgressCommandHandler_Handle_InvalidCommand(t *testing.T) {
	// Arrange
	ctx := t.Context()
	var invalidCmd commands.RecordProgressCommand // zero value command

	mockFactory := new(MockRouteUoWFactory)
	handler := commands.NewRecordProgressCommandHandler(mockFactory)

	// Act
	err := handler.Handle(ctx, invalidCmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrRecordProgressCommandIsNotConstructed)
	mockFactory.AssertExpectations(t)
}
