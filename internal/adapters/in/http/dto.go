package http

import (
	"time"

	"routeplanner/internal/core/application/usecases/queries"
	"routeplanner/internal/core/domain/services"
)

// Request DTOs. Validation tags are enforced with go-playground/validator
// before any command is constructed.

// CreateRouteRequest is the payload for POST /api/v1/routes.
type CreateRouteRequest struct {
	OrganizationID string    `json:"organizationId" validate:"required,uuid"`
	OperatorID     string    `json:"operatorId"     validate:"required,uuid"`
	Name           string    `json:"name"           validate:"required,max=255"`
	RouteType      string    `json:"routeType"      validate:"required"`
	PlannedDate    time.Time `json:"plannedDate"    validate:"required"`
	AutoOptimize   bool      `json:"autoOptimize"`
}

// AddStopRequest is the payload for POST /api/v1/routes/:routeId/stops.
type AddStopRequest struct {
	MachineID   string  `json:"machineId" validate:"required,uuid"`
	TaskID      *string `json:"taskId"    validate:"omitempty,uuid"`
	RepeatVisit bool    `json:"repeatVisit"`
}

// ReorderStopsRequest is the payload for POST /api/v1/routes/:routeId/stops/reorder.
// StopIDs must list every non-terminal stop exactly once, in the desired order.
type ReorderStopsRequest struct {
	StopIDs []string `json:"stopIds" validate:"required,min=1,dive,uuid"`
}

// RecordProgressRequest is the payload for POST /api/v1/stops/:stopId/events.
type RecordProgressRequest struct {
	Event      string    `json:"event"      validate:"required"`
	OccurredAt time.Time `json:"occurredAt" validate:"required"`
}

// UpdateStopNotesRequest is the payload for PATCH /api/v1/stops/:stopId/notes.
type UpdateStopNotesRequest struct {
	Notes    string            `json:"notes"`
	Metadata map[string]string `json:"metadata"`
}

// CompleteRouteRequest is the payload for POST /api/v1/routes/:routeId/complete.
type CompleteRouteRequest struct {
	CompletedAt time.Time `json:"completedAt" validate:"required"`
}

// Response DTOs.

// RouteCreatedResponse returns the generated route identifier.
type RouteCreatedResponse struct {
	RouteID string `json:"routeId"`
}

// StopAddedResponse returns the generated stop identifier.
type StopAddedResponse struct {
	StopID string `json:"stopId"`
}

// RouteResponse is the detail read model for GET /api/v1/routes/:routeId.
type RouteResponse struct {
	ID                       string         `json:"id"`
	OrganizationID           string         `json:"organizationId"`
	OperatorID               string         `json:"operatorId"`
	Name                     string         `json:"name"`
	RouteType                string         `json:"routeType"`
	PlannedDate              time.Time      `json:"plannedDate"`
	AutoOptimize             bool           `json:"autoOptimize"`
	EstimatedTotalDistanceKm *float64       `json:"estimatedTotalDistanceKm,omitempty"`
	EstimatedDurationMinutes *int           `json:"estimatedDurationMinutes,omitempty"`
	ActualDistanceKm         *float64       `json:"actualDistanceKm,omitempty"`
	ActualDurationMinutes    *int           `json:"actualDurationMinutes,omitempty"`
	CompletedAt              *time.Time     `json:"completedAt,omitempty"`
	Version                  int            `json:"version"`
	Stops                    []StopResponse `json:"stops"`
}

// StopResponse is a single stop in the route detail read model.
type StopResponse struct {
	ID               string     `json:"id"`
	MachineID        string     `json:"machineId"`
	Sequence         int        `json:"sequence"`
	Status           string     `json:"status"`
	EstimatedArrival *time.Time `json:"estimatedArrival,omitempty"`
	ActualArrival    *time.Time `json:"actualArrival,omitempty"`
	DepartedAt       *time.Time `json:"departedAt,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// RouteSummaryResponse is one row of GET /api/v1/operators/:operatorId/routes.
type RouteSummaryResponse struct {
	ID                       string     `json:"id"`
	Name                     string     `json:"name"`
	RouteType                string     `json:"routeType"`
	PlannedDate              time.Time  `json:"plannedDate"`
	EstimatedTotalDistanceKm *float64   `json:"estimatedTotalDistanceKm,omitempty"`
	EstimatedDurationMinutes *int       `json:"estimatedDurationMinutes,omitempty"`
	CompletedAt              *time.Time `json:"completedAt,omitempty"`
	TotalStops               int        `json:"totalStops"`
	CompletedStops           int        `json:"completedStops"`
}

// OptimizeResponse is the optimizer proposal for POST /api/v1/routes/:routeId/optimize.
type OptimizeResponse struct {
	OrderedStopIDs       []string             `json:"orderedStopIds"`
	ETAs                 map[string]time.Time `json:"etas"`
	Warnings             map[string]string    `json:"warnings,omitempty"`
	TotalDistanceKm      float64              `json:"totalDistanceKm"`
	TotalDurationMinutes int                  `json:"totalDurationMinutes"`
	Applied              bool                 `json:"applied"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func toRouteResponse(r queries.GetRouteQueryResponse) RouteResponse {
	stops := make([]StopResponse, len(r.Stops))
	for i, stop := range r.Stops {
		stops[i] = StopResponse{
			ID:               stop.ID.String(),
			MachineID:        stop.MachineID.String(),
			Sequence:         stop.Sequence,
			Status:           stop.Status,
			EstimatedArrival: stop.EstimatedArrival,
			ActualArrival:    stop.ActualArrival,
			DepartedAt:       stop.DepartedAt,
			Latitude:         stop.Latitude,
			Longitude:        stop.Longitude,
			Notes:            stop.Notes,
		}
	}

	return RouteResponse{
		ID:                       r.ID.String(),
		OrganizationID:           r.OrganizationID.String(),
		OperatorID:               r.OperatorID.String(),
		Name:                     r.Name,
		RouteType:                r.RouteType,
		PlannedDate:              r.PlannedDate,
		AutoOptimize:             r.AutoOptimize,
		EstimatedTotalDistanceKm: r.EstimatedTotalDistanceKm,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		ActualDistanceKm:         r.ActualDistanceKm,
		ActualDurationMinutes:    r.ActualDurationMinutes,
		CompletedAt:              r.CompletedAt,
		Version:                  r.Version,
		Stops:                    stops,
	}
}

func toOptimizeResponse(result services.OptimizeResult, applied bool) OptimizeResponse {
	orderedIDs := make([]string, len(result.OrderedStopIDs))
	for i, id := range result.OrderedStopIDs {
		orderedIDs[i] = id.String()
	}

	etas := make(map[string]time.Time, len(result.ETAs))
	for id, eta := range result.ETAs {
		etas[id.String()] = eta
	}

	var warnings map[string]string
	if len(result.Warnings) > 0 {
		warnings = make(map[string]string, len(result.Warnings))
		for id, warning := range result.Warnings {
			warnings[id.String()] = warning
		}
	}

	return OptimizeResponse{
		OrderedStopIDs:       orderedIDs,
		ETAs:                 etas,
		Warnings:             warnings,
		TotalDistanceKm:      result.TotalDistanceKm,
		TotalDurationMinutes: result.TotalDurationMinutes,
		Applied:              applied,
	}
}
