// Package routerepo provides data transfer objects and mapping functions for route persistence.
// This package implements the repository pattern for the route domain aggregate, handling
// the conversion between domain entities and database representations.
package routerepo

import (
	"encoding/json"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// RouteDTO represents the database structure for persisting route aggregates.
// Maps route domain entities to relational database tables with proper foreign
// key relationships and an optimistic locking version column.
type RouteDTO struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID           uuid.UUID `gorm:"type:uuid;not null;index"`
	OperatorID               uuid.UUID `gorm:"type:uuid;not null;index"`
	Name                     string    `gorm:"type:varchar(255);not null"`
	RouteType                int       `gorm:"type:int;not null"`
	PlannedDate              time.Time `gorm:"index"`
	AutoOptimize             bool
	EstimatedTotalDistanceKm *float64
	EstimatedDurationMinutes *int
	ActualDistanceKm         *float64
	ActualDurationMinutes    *int
	Notes                    string     `gorm:"type:text"`
	Metadata                 string     `gorm:"type:jsonb;default:'{}'"`
	CompletedAt              *time.Time `gorm:"index"`
	DeletedAt                *time.Time `gorm:"index"`
	Version                  int        `gorm:"type:int;not null"`
	Stops                    []StopDTO  `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for route entities.
// Overrides GORM's default naming convention to use "routes".
func (RouteDTO) TableName() string {
	return "routes"
}

// StopDTO represents the database structure for persisting route stops.
// Links to routes via foreign key; the coordinate snapshot is stored as
// nullable columns because some machines have no surveyed placement.
type StopDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RouteID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	MachineID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	TaskID           *uuid.UUID `gorm:"type:uuid"`
	Sequence         int        `gorm:"type:int;not null"`
	Status           int        `gorm:"type:int;not null"`
	EstimatedArrival *time.Time
	ActualArrival    *time.Time
	DepartedAt       *time.Time
	Latitude         *float64
	Longitude        *float64
	Notes            string `gorm:"type:text"`
	Metadata         string `gorm:"type:jsonb;default:'{}'"`
}

// TableName specifies the database table name for stop entities.
// Overrides GORM's default naming convention to use "route_stops".
func (StopDTO) TableName() string {
	return "route_stops"
}

// fromDomain converts a route domain aggregate to its database representation.
// Maps all aggregate entities including stops and their current state.
func fromDomain(aggregate *route.Route) (RouteDTO, error) {
	routeID := aggregate.ID().Bytes()

	stops := make([]StopDTO, 0, len(aggregate.Stops()))
	for _, stop := range aggregate.Stops() {
		dto, err := stopFromDomain(routeID, stop)
		if err != nil {
			return RouteDTO{}, err
		}
		stops = append(stops, dto)
	}

	metadata, err := marshalMetadata(aggregate.Metadata())
	if err != nil {
		return RouteDTO{}, err
	}

	return RouteDTO{
		ID:                       routeID,
		OrganizationID:           aggregate.OrganizationID().Bytes(),
		OperatorID:               aggregate.OperatorID().Bytes(),
		Name:                     aggregate.Name(),
		RouteType:                int(aggregate.RouteType()),
		PlannedDate:              aggregate.PlannedDate(),
		AutoOptimize:             aggregate.AutoOptimize(),
		EstimatedTotalDistanceKm: aggregate.EstimatedTotalDistanceKm(),
		EstimatedDurationMinutes: aggregate.EstimatedDurationMinutes(),
		ActualDistanceKm:         aggregate.ActualDistanceKm(),
		ActualDurationMinutes:    aggregate.ActualDurationMinutes(),
		Notes:                    aggregate.Notes(),
		Metadata:                 metadata,
		CompletedAt:              aggregate.CompletedAt(),
		DeletedAt:                aggregate.DeletedAt(),
		Version:                  aggregate.Version(),
		Stops:                    stops,
	}, nil
}

func stopFromDomain(routeID uuid.UUID, stop *route.Stop) (StopDTO, error) {
	var taskID *uuid.UUID
	if id := stop.TaskID(); id != nil {
		raw := id.Bytes()
		taskID = &raw
	}

	var latitude, longitude *float64
	if loc := stop.Location(); loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		latitude, longitude = &lat, &lon
	}

	metadata, err := marshalMetadata(stop.Metadata())
	if err != nil {
		return StopDTO{}, err
	}

	return StopDTO{
		ID:               stop.ID().Bytes(),
		RouteID:          routeID,
		MachineID:        stop.MachineID().Bytes(),
		TaskID:           taskID,
		Sequence:         stop.Sequence(),
		Status:           int(stop.Status()),
		EstimatedArrival: stop.EstimatedArrival(),
		ActualArrival:    stop.ActualArrival(),
		DepartedAt:       stop.DepartedAt(),
		Latitude:         latitude,
		Longitude:        longitude,
		Notes:            stop.Notes(),
		Metadata:         metadata,
	}, nil
}

// toDomain converts a database DTO to a route domain aggregate.
// Reconstructs the complete aggregate including all stops using RestoreRoute.
func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	organizationID, err := kernel.UUIDFromBytes(dto.OrganizationID[:])
	if err != nil {
		return nil, err
	}
	operatorID, err := kernel.UUIDFromBytes(dto.OperatorID[:])
	if err != nil {
		return nil, err
	}

	metadata, err := unmarshalMetadata(dto.Metadata)
	if err != nil {
		return nil, err
	}

	stops := make([]*route.Stop, 0, len(dto.Stops))
	for _, stopDto := range dto.Stops {
		stop, stopErr := stopToDomain(stopDto)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	return route.RestoreRoute(
		id, organizationID, operatorID,
		dto.Name,
		route.RouteType(dto.RouteType),
		dto.PlannedDate,
		dto.AutoOptimize,
		dto.EstimatedTotalDistanceKm,
		dto.EstimatedDurationMinutes,
		dto.ActualDistanceKm,
		dto.ActualDurationMinutes,
		dto.Notes,
		metadata,
		dto.CompletedAt,
		dto.DeletedAt,
		dto.Version,
		stops,
	)
}

// stopToDomain converts a stop DTO to a domain entity.
// Uses RestoreStop to reconstruct the entity with its persisted state.
func stopToDomain(dto StopDTO) (*route.Stop, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	machineID, err := kernel.UUIDFromBytes(dto.MachineID[:])
	if err != nil {
		return nil, err
	}

	var taskID *kernel.UUID
	if dto.TaskID != nil {
		tID, taskErr := kernel.UUIDFromBytes((*dto.TaskID)[:])
		if taskErr != nil {
			return nil, taskErr
		}
		taskID = &tID
	}

	var location *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, locErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if locErr != nil {
			return nil, locErr
		}
		location = &point
	}

	metadata, err := unmarshalMetadata(dto.Metadata)
	if err != nil {
		return nil, err
	}

	return route.RestoreStop(
		id, machineID, taskID,
		dto.Sequence,
		route.Status(dto.Status),
		dto.EstimatedArrival, dto.ActualArrival, dto.DepartedAt,
		location,
		dto.Notes,
		metadata,
	)
}

func marshalMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalMetadata(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	var metadata map[string]string
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
