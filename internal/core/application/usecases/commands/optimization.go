package commands

import (
	"context"
	"errors"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/core/domain/services"
	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/errs"
)

// MetadataPlannedStartTime is the route metadata key holding an RFC 3339
// departure override. Without it departure defaults to the planned date plus
// the configured workday start offset.
const MetadataPlannedStartTime = "plannedStartTime"

// RoutePlanner bundles the collaborators shared by every handler that runs
// the optimizer: the heuristic itself, the staff directory for the tour
// anchor, and the default workday start.
type RoutePlanner struct {
	optimizer         services.RouteOptimizer
	operatorDirectory ports.OperatorDirectory
	workdayStart      time.Duration
}

func NewRoutePlanner(
	optimizer services.RouteOptimizer,
	operatorDirectory ports.OperatorDirectory,
	workdayStart time.Duration,
) RoutePlanner {
	return RoutePlanner{
		optimizer:         optimizer,
		operatorDirectory: operatorDirectory,
		workdayStart:      workdayStart,
	}
}

// plan runs the optimizer for the aggregate without applying the result.
func (p RoutePlanner) plan(ctx context.Context, aggregate *route.Route) (services.OptimizeResult, error) {
	anchor, err := p.tourAnchor(ctx, aggregate)
	if err != nil {
		return services.OptimizeResult{}, err
	}
	return p.optimizer.Optimize(ctx, aggregate, anchor, p.departureTime(aggregate))
}

// replan runs the optimizer and installs the proposal on the aggregate.
func (p RoutePlanner) replan(ctx context.Context, aggregate *route.Route) error {
	result, err := p.plan(ctx, aggregate)
	if err != nil {
		return err
	}
	return aggregate.ApplyOptimizedOrder(
		result.OrderedStopIDs, result.ETAs, result.Warnings,
		result.TotalDistanceKm, result.TotalDurationMinutes,
	)
}

// refreshEstimates re-projects arrival times for the aggregate's movable
// stops in their current order and installs them, leaving the visit order
// untouched.
func (p RoutePlanner) refreshEstimates(ctx context.Context, aggregate *route.Route) error {
	anchor, err := p.tourAnchor(ctx, aggregate)
	if err != nil {
		return err
	}

	result, err := p.optimizer.EstimateSchedule(ctx, aggregate, anchor, p.departureTime(aggregate))
	if err != nil {
		return err
	}

	return aggregate.ApplyOptimizedOrder(
		result.OrderedStopIDs, result.ETAs, result.Warnings,
		result.TotalDistanceKm, result.TotalDurationMinutes,
	)
}

// tourAnchor resolves the operator's start location. An unknown operator or
// an unconfigured start location degrades to an anchorless tour rather than
// failing the command; a directory outage propagates so the caller does not
// silently plan with a worse tour.
func (p RoutePlanner) tourAnchor(ctx context.Context, aggregate *route.Route) (*kernel.GeoPoint, error) {
	operator, err := p.operatorDirectory.GetOperator(ctx, aggregate.OperatorID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil //nolint:nilnil,nilerr //planning proceeds without an anchor
		}
		return nil, err
	}
	return operator.StartLocation, nil
}

// departureTime resolves when the operator leaves the anchor: the route's
// plannedStartTime metadata override when present, otherwise the planned date
// plus the configured workday start offset.
func (p RoutePlanner) departureTime(aggregate *route.Route) time.Time {
	if raw, ok := aggregate.Metadata()[MetadataPlannedStartTime]; ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
	}
	return aggregate.PlannedDate().Add(p.workdayStart)
}
