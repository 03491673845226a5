// Package http exposes the route planner's REST API on echo.
package http

import (
	"net/http"
	"time"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/application/usecases/queries"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ServerMetrics is the instrumentation the HTTP adapter reports into.
type ServerMetrics interface {
	ObserveOptimize(d time.Duration, err error)
	ProgressEventInc(event string)
}

// Handlers bundles the command and query handlers the server dispatches to.
type Handlers struct {
	CreateRoute       commands.CreateRouteCommandHandler
	AddStop           commands.AddStopCommandHandler
	RemoveStop        commands.RemoveStopCommandHandler
	ReorderStops      commands.ReorderStopsCommandHandler
	OptimizeRoute     commands.OptimizeRouteCommandHandler
	RecordProgress    commands.RecordProgressCommandHandler
	UpdateStopNotes   commands.UpdateStopNotesCommandHandler
	CompleteRoute     commands.CompleteRouteCommandHandler
	DeleteRoute       commands.DeleteRouteCommandHandler
	GetRoute          queries.GetRouteQueryHandler
	GetOperatorRoutes queries.GetOperatorRoutesQueryHandler
}

// Server coordinates between HTTP requests and application use cases.
type Server struct {
	handlers Handlers
	metrics  ServerMetrics
	validate *validator.Validate // For request body validation
}

// NewServer creates a new HTTP server with the required handlers.
// metrics may be nil.
func NewServer(handlers Handlers, metrics ServerMetrics) *Server {
	return &Server{
		handlers: handlers,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// RegisterRoutes registers all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/routes", s.CreateRoute)
	api.GET("/routes/:routeId", s.GetRoute)
	api.DELETE("/routes/:routeId", s.DeleteRoute)
	api.POST("/routes/:routeId/stops", s.AddStop)
	api.DELETE("/routes/:routeId/stops/:stopId", s.RemoveStop)
	api.POST("/routes/:routeId/stops/reorder", s.ReorderStops)
	api.POST("/routes/:routeId/optimize", s.OptimizeRoute)
	api.POST("/routes/:routeId/complete", s.CompleteRoute)
	api.POST("/stops/:stopId/events", s.RecordProgress)
	api.PATCH("/stops/:stopId/notes", s.UpdateStopNotes)
	api.GET("/operators/:operatorId/routes", s.GetOperatorRoutes)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateRoute handles POST /api/v1/routes - creates a new planned route.
func (s *Server) CreateRoute(ctx echo.Context) error {
	var req CreateRouteRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(ctx, "Validation failed: "+err.Error())
	}

	organizationID, err := kernel.UUIDFromString(req.OrganizationID)
	if err != nil {
		return badRequest(ctx, "Invalid organization id")
	}
	operatorID, err := kernel.UUIDFromString(req.OperatorID)
	if err != nil {
		return badRequest(ctx, "Invalid operator id")
	}
	routeType, err := route.RouteTypeFromString(req.RouteType)
	if err != nil {
		return badRequest(ctx, "Invalid route type: "+req.RouteType)
	}

	cmd, err := commands.NewCreateRouteCommand(
		organizationID, operatorID, req.Name, routeType, req.PlannedDate, req.AutoOptimize,
	)
	if err != nil {
		return badRequest(ctx, "Invalid route data: "+err.Error())
	}

	if err = s.handlers.CreateRoute.Handle(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, RouteCreatedResponse{RouteID: cmd.RouteID().String()})
}

// GetRoute handles GET /api/v1/routes/:routeId - retrieves route details.
func (s *Server) GetRoute(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}

	query, err := queries.NewGetRouteQuery(routeID)
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}

	response, err := s.handlers.GetRoute.Handle(ctx.Request().Context(), query)
	if err != nil {
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toRouteResponse(response))
}

// DeleteRoute handles DELETE /api/v1/routes/:routeId - soft-deletes a route.
func (s *Server) DeleteRoute(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}

	cmd, err := commands.NewDeleteRouteCommand(routeID)
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}

	if err = s.handlers.DeleteRoute.Handle(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AddStop handles POST /api/v1/routes/:routeId/stops - appends a machine visit.
func (s *Server) AddStop(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}

	var req AddStopRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err = s.validate.Struct(req); err != nil {
		return badRequest(ctx, "Validation failed: "+err.Error())
	}

	machineID, err := kernel.UUIDFromString(req.MachineID)
	if err != nil {
		return badRequest(ctx, "Invalid machine id")
	}

	var taskID *kernel.UUID
	if req.TaskID != nil {
		id, taskErr := kernel.UUIDFromString(*req.TaskID)
		if taskErr != nil {
			return badRequest(ctx, "Invalid task id")
		}
		taskID = &id
	}

	cmd, err := commands.NewAddStopCommand(routeID, machineID, taskID, req.RepeatVisit)
	if err != nil {
		return badRequest(ctx, "Invalid stop data: "+err.Error())
	}

	if err = s.handlers.AddStop.Handle(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, StopAddedResponse{StopID: cmd.StopID().String()})
}

// RemoveStop handles DELETE /api/v1/routes/:routeId/stops/:stopId.
func (s *Server) RemoveStop(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}
	stopID, err := kernel.UUIDFromString(ctx.Param("stopId"))
	if err != nil {
		return badRequest(ctx, "Invalid stop id")
	}

	cmd, err := commands.NewRemoveStopCommand(routeID, stopID)
	if err != nil {
		return badRequest(ctx, "Invalid stop data: "+err.Error())
	}

	if err = s.handlers.RemoveStop.Handle(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReorderStops handles POST /api/v1/routes/:routeId/stops/reorder.
func (s *Server) ReorderStops(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}

	var req ReorderStopsRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err = s.validate.Struct(req); err != nil {
		return badRequest(ctx, "Validation failed: "+err.Error())
	}

	stopIDs := make([]kernel.UUID, len(req.StopIDs))
	for i, raw := range req.StopIDs {
		id, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return badRequest(ctx, "Invalid stop id: "+raw)
		}
		stopIDs[i] = id
	}

	cmd, err := commands.NewReorderStopsCommand(routeID, stopIDs)
	if err != nil {
		return badRequest(ctx, "Invalid reorder data: "+err.Error())
	}

	if err = s.handlers.ReorderStops.Handle(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// OptimizeRoute handles POST /api/v1/routes/:routeId/optimize.
// With ?preview=true the proposal is returned without being applied.
func (s *Server) OptimizeRoute(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}

	preview := ctx.QueryParam("preview") == "true"

	cmd, err := commands.NewOptimizeRouteCommand(routeID, preview)
	if err != nil {
		return badRequest(ctx, "Invalid optimize request: "+err.Error())
	}

	start := time.Now()
	result, err := s.handlers.OptimizeRoute.Handle(ctx.Request().Context(), cmd)
	if s.metrics != nil {
		s.metrics.ObserveOptimize(time.Since(start), err)
	}
	if err != nil {
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOptimizeResponse(result, !preview))
}

// RecordProgress handles POST /api/v1/stops/:stopId/events - applies a
// lifecycle event reported from the field.
func (s *Server) RecordProgress(ctx echo.Context) error {
	stopID, err := kernel.UUIDFromString(ctx.Param("stopId"))
	if err != nil {
		return badRequest(ctx, "Invalid stop id")
	}

	var req RecordProgressRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err = s.validate.Struct(req); err != nil {
		return badRequest(ctx, "Validation failed: "+err.Error())
	}

	event, err := route.ProgressEventFromString(req.Event)
	if err != nil {
		return badRequest(ctx, "Invalid event: "+req.Event)
	}

	cmd, err := commands.NewRecordProgressCommand(stopID, event, req.OccurredAt)
	if err != nil {
		return badRequest(ctx, "Invalid event data: "+err.Error())
	}

	if err = s.handlers.RecordProgress.Handle(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	if s.metrics != nil {
		s.metrics.ProgressEventInc(event.String())
	}
	return ctx.NoContent(http.StatusNoContent)
}

// UpdateStopNotes handles PATCH /api/v1/stops/:stopId/notes - updates stop
// annotations, allowed at any stop status.
func (s *Server) UpdateStopNotes(ctx echo.Context) error {
	stopID, err := kernel.UUIDFromString(ctx.Param("stopId"))
	if err != nil {
		return badRequest(ctx, "Invalid stop id")
	}

	var req UpdateStopNotesRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateStopNotesCommand(stopID, req.Notes, req.Metadata)
	if err != nil {
		return badRequest(ctx, "Invalid notes data: "+err.Error())
	}

	if err = s.handlers.UpdateStopNotes.Handle(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteRoute handles POST /api/v1/routes/:routeId/complete.
func (s *Server) CompleteRoute(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}

	var req CompleteRouteRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err = s.validate.Struct(req); err != nil {
		return badRequest(ctx, "Validation failed: "+err.Error())
	}

	cmd, err := commands.NewCompleteRouteCommand(routeID, req.CompletedAt)
	if err != nil {
		return badRequest(ctx, "Invalid completion data: "+err.Error())
	}

	if err = s.handlers.CompleteRoute.Handle(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOperatorRoutes handles GET /api/v1/operators/:operatorId/routes.
// The optional ?date=YYYY-MM-DD parameter defaults to today.
func (s *Server) GetOperatorRoutes(ctx echo.Context) error {
	operatorID, err := kernel.UUIDFromString(ctx.Param("operatorId"))
	if err != nil {
		return badRequest(ctx, "Invalid operator id")
	}

	date := time.Now().UTC()
	if raw := ctx.QueryParam("date"); raw != "" {
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(ctx, "Invalid date, expected YYYY-MM-DD")
		}
	}

	query, err := queries.NewGetOperatorRoutesQuery(operatorID, date)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	routes, err := s.handlers.GetOperatorRoutes.Handle(ctx.Request().Context(), query)
	if err != nil {
		return jsonError(ctx, err)
	}

	response := make([]RouteSummaryResponse, len(routes))
	for i, r := range routes {
		response[i] = RouteSummaryResponse{
			ID:                       r.ID.String(),
			Name:                     r.Name,
			RouteType:                r.RouteType,
			PlannedDate:              r.PlannedDate,
			EstimatedTotalDistanceKm: r.EstimatedTotalDistanceKm,
			EstimatedDurationMinutes: r.EstimatedDurationMinutes,
			CompletedAt:              r.CompletedAt,
			TotalStops:               r.TotalStops,
			CompletedStops:           r.CompletedStops,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}
