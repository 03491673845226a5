package queries

import (
	"context"
	"database/sql"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOperatorRoutesQueryHandler retrieves an operator's workday routes from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetOperatorRoutesQueryHandler(db)
//	query, _ := NewGetOperatorRoutesQuery(operatorID, workday)
//
//	routes, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get operator routes: %v", err)
//	    return err
//	}
type GetOperatorRoutesQueryHandler struct {
	db *gorm.DB
}

// NewGetOperatorRoutesQueryHandler creates a handler for operator workday queries.
// Requires a GORM database connection for query execution.
func NewGetOperatorRoutesQueryHandler(db *gorm.DB) GetOperatorRoutesQueryHandler {
	return GetOperatorRoutesQueryHandler{db: db}
}

// Handle executes the query to retrieve the operator's routes for the date.
// Soft-deleted routes are excluded. Each row carries aggregate stop counts:
// a stop counts as finished once it reached a terminal status.
func (h GetOperatorRoutesQueryHandler) Handle(
	ctx context.Context,
	query GetOperatorRoutesQuery,
) ([]GetOperatorRoutesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	routes := make([]GetOperatorRoutesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.name,
			r.route_type,
			r.planned_date,
			r.estimated_total_distance_km,
			r.estimated_duration_minutes,
			r.completed_at,
			COUNT(s.id) AS total_stops,
			COUNT(s.id) FILTER (WHERE s.status IN (?, ?, ?)) AS completed_stops
		FROM routes r
		LEFT JOIN route_stops s ON s.route_id = r.id
		WHERE r.operator_id = ?
		  AND r.planned_date::date = ?::date
		  AND r.deleted_at IS NULL
		GROUP BY r.id
		ORDER BY r.planned_date, r.name
	`,
		int(route.Departed), int(route.Skipped), int(route.Cancelled),
		query.OperatorID().Bytes(), query.PlannedDate(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetOperatorRoutesQueryResponse
		var id uuid.UUID
		var routeType int
		var completedAt sql.NullTime

		err = rows.Scan(
			&id,
			&response.Name,
			&routeType,
			&response.PlannedDate,
			&response.EstimatedTotalDistanceKm,
			&response.EstimatedDurationMinutes,
			&completedAt,
			&response.TotalStops,
			&response.CompletedStops,
		)
		if err != nil {
			return nil, err
		}

		if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		response.RouteType = route.RouteType(routeType).String()
		if completedAt.Valid {
			response.CompletedAt = &completedAt.Time
		}
		routes = append(routes, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}
