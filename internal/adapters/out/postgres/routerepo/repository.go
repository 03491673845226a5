package routerepo

import (
	"context"
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRouteRepository implements RouteRepository using GORM.
type GormRouteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRouteRepository creates a new GORM route repository.
func NewGormRouteRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteRepository {
	return &GormRouteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new route to the database.
func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing route to the database.
//
// The write is guarded by the optimistic locking version: the row is bumped
// from the version the aggregate was loaded with, and a lost race surfaces as
// ConcurrentModificationError so the caller can reload and retry.
func (r *GormRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	loadedVersion := aggregate.Version()
	nextVersion := loadedVersion + 1

	bump := r.db.WithContext(ctx).
		Model(&RouteDTO{}).
		Where("id = ? AND version = ?", aggregate.ID().Bytes(), loadedVersion).
		Update("version", nextVersion)
	if bump.Error != nil {
		return bump.Error
	}
	if bump.RowsAffected == 0 {
		return errs.NewConcurrentModificationError(aggregate.ID().String())
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	dto.Version = nextVersion

	// Use Session with FullSaveAssociations to properly update nested associations
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if err := r.deleteOrphanStops(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// deleteOrphanStops removes stop rows that are no longer part of the aggregate.
// Save only upserts associations, so stops removed from the route in memory
// would otherwise linger in the database.
func (r *GormRouteRepository) deleteOrphanStops(ctx context.Context, dto RouteDTO) error {
	if len(dto.Stops) == 0 {
		return r.db.WithContext(ctx).
			Where("route_id = ?", dto.ID).
			Delete(&StopDTO{}).Error
	}

	keep := make([]uuid.UUID, 0, len(dto.Stops))
	for _, stop := range dto.Stops {
		keep = append(keep, stop.ID)
	}

	return r.db.WithContext(ctx).
		Where("route_id = ? AND id NOT IN ?", dto.ID, keep).
		Delete(&StopDTO{}).Error
}

// Get retrieves a route by ID. Soft-deleted routes are treated as absent.
func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RouteDTO
	if err := r.db.WithContext(ctx).
		Preload("Stops").
		First(&dto, "id = ? AND deleted_at IS NULL", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("route", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByStopID retrieves the route that owns the given stop.
// Progress events arrive addressed by stop, so this lookup resolves the
// owning aggregate before the event is applied.
func (r *GormRouteRepository) GetByStopID(ctx context.Context, stopID kernel.UUID) (*route.Route, error) {
	if err := stopID.Validate(); err != nil {
		return nil, err
	}

	var stopDto StopDTO
	if err := r.db.WithContext(ctx).
		Select("route_id").
		First(&stopDto, "id = ?", stopID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stop", stopID.String())
		}
		return nil, err
	}

	routeID, err := kernel.UUIDFromBytes(stopDto.RouteID[:])
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, routeID)
}

// GetAllActive retrieves all routes that are neither completed nor deleted.
//
// Example:
//
//	active, err := repo.GetAllActive(ctx)
//	if err != nil {
//		return fmt.Errorf("failed to get active routes: %w", err)
//	}
//	for _, r := range active {
//		fmt.Printf("Active route: %s\n", r.Name())
//	}
func (r *GormRouteRepository) GetAllActive(ctx context.Context) ([]*route.Route, error) {
	var dtos []RouteDTO
	if err := r.db.WithContext(ctx).
		Preload("Stops").
		Where("completed_at IS NULL AND deleted_at IS NULL").
		Order("planned_date").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	routes := make([]*route.Route, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		routes = append(routes, aggregate)
	}

	return routes, nil
}
