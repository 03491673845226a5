package queries

import (
	"context"
	"database/sql"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRouteQueryHandler retrieves route details from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetRouteQueryHandler(db)
//	query, _ := NewGetRouteQuery(routeID)
//
//	response, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get route: %v", err)
//	    return err
//	}
type GetRouteQueryHandler struct {
	db *gorm.DB
}

// NewGetRouteQueryHandler creates a handler for route detail queries.
// Requires a GORM database connection for query execution.
func NewGetRouteQueryHandler(db *gorm.DB) GetRouteQueryHandler {
	return GetRouteQueryHandler{db: db}
}

// Handle executes the query to retrieve a route with its stops.
// Soft-deleted routes are treated as absent. Stops are returned in
// sequence order with statuses rendered as strings.
func (h GetRouteQueryHandler) Handle(
	ctx context.Context,
	query GetRouteQuery,
) (GetRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRouteQueryResponse{}, err
	}

	response, err := h.fetchRoute(ctx, query.RouteID())
	if err != nil {
		return GetRouteQueryResponse{}, err
	}

	stops, err := h.fetchStops(ctx, query.RouteID())
	if err != nil {
		return GetRouteQueryResponse{}, err
	}
	response.Stops = stops

	return response, nil
}

func (h GetRouteQueryHandler) fetchRoute(
	ctx context.Context, routeID kernel.UUID,
) (GetRouteQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			organization_id,
			operator_id,
			name,
			route_type,
			planned_date,
			auto_optimize,
			estimated_total_distance_km,
			estimated_duration_minutes,
			actual_distance_km,
			actual_duration_minutes,
			completed_at,
			version
		FROM routes
		WHERE id = ? AND deleted_at IS NULL
	`, routeID.Bytes()).Rows()
	if err != nil {
		return GetRouteQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetRouteQueryResponse{}, err
		}
		return GetRouteQueryResponse{}, errs.NewObjectNotFoundError("route", routeID.String())
	}

	var response GetRouteQueryResponse
	var id, organizationID, operatorID uuid.UUID
	var routeType int
	var completedAt sql.NullTime

	err = rows.Scan(
		&id,
		&organizationID,
		&operatorID,
		&response.Name,
		&routeType,
		&response.PlannedDate,
		&response.AutoOptimize,
		&response.EstimatedTotalDistanceKm,
		&response.EstimatedDurationMinutes,
		&response.ActualDistanceKm,
		&response.ActualDurationMinutes,
		&completedAt,
		&response.Version,
	)
	if err != nil {
		return GetRouteQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetRouteQueryResponse{}, err
	}
	if response.OrganizationID, err = kernel.UUIDFromBytes(organizationID[:]); err != nil {
		return GetRouteQueryResponse{}, err
	}
	if response.OperatorID, err = kernel.UUIDFromBytes(operatorID[:]); err != nil {
		return GetRouteQueryResponse{}, err
	}
	response.RouteType = route.RouteType(routeType).String()
	if completedAt.Valid {
		response.CompletedAt = &completedAt.Time
	}

	return response, rows.Err()
}

func (h GetRouteQueryHandler) fetchStops(
	ctx context.Context, routeID kernel.UUID,
) ([]GetRouteStopResponse, error) {
	stops := make([]GetRouteStopResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			machine_id,
			sequence,
			status,
			estimated_arrival,
			actual_arrival,
			departed_at,
			latitude,
			longitude,
			notes
		FROM route_stops
		WHERE route_id = ?
		ORDER BY sequence
	`, routeID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var stop GetRouteStopResponse
		var id, machineID uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&machineID,
			&stop.Sequence,
			&status,
			&stop.EstimatedArrival,
			&stop.ActualArrival,
			&stop.DepartedAt,
			&stop.Latitude,
			&stop.Longitude,
			&stop.Notes,
		)
		if err != nil {
			return nil, err
		}

		if stop.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if stop.MachineID, err = kernel.UUIDFromBytes(machineID[:]); err != nil {
			return nil, err
		}
		stop.Status = route.Status(status).String()
		stops = append(stops, stop)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}
