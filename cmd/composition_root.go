package cmd

import (
	"fmt"
	"strconv"
	"time"

	"routeplanner/internal/adapters/out/geo"
	"routeplanner/internal/adapters/out/postgres"
	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/application/usecases/queries"
	"routeplanner/internal/core/domain/services"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB            *gorm.DB
	uowFactory        postgres.GormUnitOfWorkFactory
	directory         *postgres.GormDirectory
	planner           commands.RoutePlanner
	pastDateTolerance time.Duration
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (CompositionRoot, error) {
	averageSpeed, err := strconv.ParseFloat(config.AverageSpeedKmph, 64)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("parse AVERAGE_SPEED_KMPH: %w", err)
	}

	workdayStart, err := time.ParseDuration(config.WorkdayStart)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("parse ROUTE_WORKDAY_START: %w", err)
	}

	pastDateTolerance, err := time.ParseDuration(config.PastPlannedDateTolerance)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("parse PAST_PLANNED_DATE_TOLERANCE: %w", err)
	}

	estimator, err := geo.NewHaversineEstimator(averageSpeed)
	if err != nil {
		return CompositionRoot{}, err
	}

	optimizer, err := services.NewRouteOptimizer(estimator)
	if err != nil {
		return CompositionRoot{}, err
	}

	directory := postgres.NewGormDirectory(gormDB)

	return CompositionRoot{
		gormDB:            gormDB,
		uowFactory:        *postgres.NewGormUnitOfWorkFactory(gormDB),
		directory:         directory,
		planner:           commands.NewRoutePlanner(optimizer, directory, workdayStart),
		pastDateTolerance: pastDateTolerance,
	}, nil
}

// RouteUoWFactory exposes the transactional factory for adapters that drive
// use cases outside the HTTP surface, such as the GPS subscriber.
func (c *CompositionRoot) RouteUoWFactory() commands.RouteUoWFactory {
	return FuncRouteUoWFactory(func() commands.RouteUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateRouteCommandHandler() commands.CreateRouteCommandHandler {
	return commands.NewCreateRouteCommandHandler(c.RouteUoWFactory(), c.directory, c.pastDateTolerance)
}

func (c *CompositionRoot) CreateAddStopCommandHandler() commands.AddStopCommandHandler {
	return commands.NewAddStopCommandHandler(c.RouteUoWFactory(), c.directory, c.planner)
}

func (c *CompositionRoot) CreateRemoveStopCommandHandler() commands.RemoveStopCommandHandler {
	return commands.NewRemoveStopCommandHandler(c.RouteUoWFactory())
}

func (c *CompositionRoot) CreateReorderStopsCommandHandler() commands.ReorderStopsCommandHandler {
	return commands.NewReorderStopsCommandHandler(c.RouteUoWFactory(), c.planner)
}

func (c *CompositionRoot) CreateOptimizeRouteCommandHandler() commands.OptimizeRouteCommandHandler {
	return commands.NewOptimizeRouteCommandHandler(c.RouteUoWFactory(), c.planner)
}

func (c *CompositionRoot) CreateRecordProgressCommandHandler() commands.RecordProgressCommandHandler {
	return commands.NewRecordProgressCommandHandler(c.RouteUoWFactory())
}

func (c *CompositionRoot) CreateUpdateStopNotesCommandHandler() commands.UpdateStopNotesCommandHandler {
	return commands.NewUpdateStopNotesCommandHandler(c.RouteUoWFactory())
}

func (c *CompositionRoot) CreateCompleteRouteCommandHandler() commands.CompleteRouteCommandHandler {
	return commands.NewCompleteRouteCommandHandler(c.RouteUoWFactory())
}

func (c *CompositionRoot) CreateDeleteRouteCommandHandler() commands.DeleteRouteCommandHandler {
	return commands.NewDeleteRouteCommandHandler(c.RouteUoWFactory())
}

func (c *CompositionRoot) CreateRefreshETAsCommandHandler() commands.RefreshETAsCommandHandler {
	return commands.NewRefreshETAsCommandHandler(c.RouteUoWFactory(), c.planner)
}

func (c *CompositionRoot) CreateGetRouteQueryHandler() queries.GetRouteQueryHandler {
	return queries.NewGetRouteQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOperatorRoutesQueryHandler() queries.GetOperatorRoutesQueryHandler {
	return queries.NewGetOperatorRoutesQueryHandler(c.gormDB)
}

type FuncRouteUoWFactory func() commands.RouteUoW

func (f FuncRouteUoWFactory) Create() commands.RouteUoW {
	return f()
}
