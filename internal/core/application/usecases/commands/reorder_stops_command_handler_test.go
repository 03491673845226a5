package commands_test

import (
	"errors"
	"testing"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReorderStopsCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	orgID := kernel.NewUUID()
	aggregate := plannedRoute(t, orgID, false)
	first, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), machinePoint(t, 48.10, 11.60), false)
	require.NoError(t, err)
	second, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), machinePoint(t, 48.20, 11.60), false)
	require.NoError(t, err)

	cmd, err := commands.NewReorderStopsCommand(aggregate.ID(), []kernel.UUID{second.ID(), first.ID()})
	require.NoError(t, err)

	mockRepo := new(MockRouteRepository)
	mockUoW := new(MockRouteUoW)
	mockFactory := new(MockRouteUoWFactory)
	mockDirectory := new(MockOperatorDirectory)

	mockDirectory.On("GetOperator", ctx, aggregate.OperatorID()).
		Return(ports.Operator{ID: aggregate.OperatorID(), OrganizationID: orgID}, nil).Once()
	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("RouteRepository").Return(mockRepo).Once(),
		mockRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		mockRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewReorderStopsCommandHandler(mockFactory, testPlanner(t, mockDirectory))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, second.Sequence())
	assert.Equal(t, 2, first.Sequence())
	// The manual order is kept but estimates are re-projected along it.
	require.NotNil(t, second.EstimatedArrival())
	require.NotNil(t, first.EstimatedArrival())
	assert.True(t, first.EstimatedArrival().After(*second.EstimatedArrival()))

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestReorderStopsCommandHandler_Handle_SequenceMismatch(t *testing.T) {
	// Arrange
	ctx := t.Context()
	aggregate := plannedRoute(t, kernel.NewUUID(), false)
	first, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), nil, false)
	require.NoError(t, err)
	_, err = aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), nil, false)
	require.NoError(t, err)

	// Only one of the two open stops is listed.
	cmd, err := commands.NewReorderStopsCommand(aggregate.ID(), []kernel.UUID{first.ID()})
	require.NoError(t, err)

	mockRepo := new(MockRouteRepository)
	mockUoW := new(MockRouteUoW)
	mockFactory := new(MockRouteUoWFactory)
	mockDirectory := new(MockOperatorDirectory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("RouteRepository").Return(mockRepo).Once(),
		mockRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewReorderStopsCommandHandler(mockFactory, testPlanner(t, mockDirectory))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrSequenceMismatch)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestReorderStopsCommandHandler_Handle_DirectoryOutage(t *testing.T) {
	// Arrange
	ctx := t.Context()
	aggregate := plannedRoute(t, kernel.NewUUID(), false)
	first, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), machinePoint(t, 48.10, 11.60), false)
	require.NoError(t, err)
	second, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), machinePoint(t, 48.20, 11.60), false)
	require.NoError(t, err)

	cmd, err := commands.NewReorderStopsCommand(aggregate.ID(), []kernel.UUID{second.ID(), first.ID()})
	require.NoError(t, err)

	mockRepo := new(MockRouteRepository)
	mockUoW := new(MockRouteUoW)
	mockFactory := new(MockRouteUoWFactory)
	mockDirectory := new(MockOperatorDirectory)

	outage := errs.NewDependencyUnavailableError("operator directory", errors.New("dial timeout"))
	mockDirectory.On("GetOperator", ctx, aggregate.OperatorID()).
		Return(ports.Operator{}, outage).Once()
	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("RouteRepository").Return(mockRepo).Once(),
		mockRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewReorderStopsCommandHandler(mockFactory, testPlanner(t, mockDirectory))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrDependencyUnavailable)
	mockUoW.AssertExpectations(t) // No Update, no Commit
	mockRepo.AssertExpectations(t)
	mockDirectory.AssertExpectations(t)
}

func TestReorderStopsCommandHandler_Handle_UnknownOperatorPlansAnchorless(t *testing.T) {
	// Arrange
	ctx := t.Context()
	aggregate := plannedRoute(t, kernel.NewUUID(), false)
	first, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), machinePoint(t, 48.10, 11.60), false)
	require.NoError(t, err)
	second, err := aggregate.AddStop(kernel.NewUUID(), kernel.NewUUID(), machinePoint(t, 48.20, 11.60), false)
	require.NoError(t, err)

	cmd, err := commands.NewReorderStopsCommand(aggregate.ID(), []kernel.UUID{second.ID(), first.ID()})
	require.NoError(t, err)

	mockRepo := new(MockRouteRepository)
	mockUoW := new(MockRouteUoW)
	mockFactory := new(MockRouteUoWFactory)
	mockDirectory := new(MockOperatorDirectory)

	mockDirectory.On("GetOperator", ctx, aggregate.OperatorID()).
		Return(ports.Operator{}, errs.NewObjectNotFoundError("operator", aggregate.OperatorID().String())).Once()
	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("RouteRepository").Return(mockRepo).Once(),
		mockRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		mockRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewReorderStopsCommandHandler(mockFactory, testPlanner(t, mockDirectory))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, second.Sequence())
	assert.Equal(t, 2, first.Sequence())
	require.NotNil(t, second.EstimatedArrival())

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockDirectory.AssertExpectations(t)
}

func TestNewReorderStopsCommand_RequiresStopIDs(t *testing.T) {
	_, err := commands.NewReorderStopsCommand(kernel.NewUUID(), nil)
	require.ErrorIs(t, err, commands.ErrOrderedStopIDsAreRequired)
}
