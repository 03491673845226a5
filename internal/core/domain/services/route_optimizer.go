package services

import (
	"context"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/errs"
)

const (
	// maxTwoOptPasses bounds the improvement loop so optimization stays fast
	// even on pathological inputs.
	maxTwoOptPasses = 16

	// minImprovementKm is the smallest distance gain worth a segment reversal.
	// Anything below it is floating point noise.
	minImprovementKm = 1e-9
)

// OptimizeResult is the optimizer's proposal for a route.
// It is a pure computation result: nothing is applied to the aggregate until
// the caller installs it via Route.ApplyOptimizedOrder.
type OptimizeResult struct {
	// OrderedStopIDs lists the movable stops in the proposed visit order.
	OrderedStopIDs []kernel.UUID

	// ETAs maps stop ids to their projected arrival times.
	// Stops without coordinates get no entry.
	ETAs map[kernel.UUID]time.Time

	// Warnings maps stop ids to non-fatal degradation flags,
	// e.g. route.WarningMissingCoordinates.
	Warnings map[kernel.UUID]string

	// TotalDistanceKm is the projected travel distance over the whole tour.
	TotalDistanceKm float64

	// TotalDurationMinutes is the projected span from departure until work at
	// the last stop finishes, service time included.
	TotalDurationMinutes int
}

// RouteOptimizer is a domain service that proposes a visit order for a
// route's open stops.
//
// The tour is built with a nearest-neighbor construction and then polished
// with a bounded 2-opt improvement loop. Stops the operator is already
// travelling towards (EnRoute) form a frozen prefix that keeps its current
// order; only Pending stops are reordered. Stops without a coordinate
// snapshot cannot take part in distance computation and are appended at the
// end of the tour with a warning.
//
// The result is deterministic: equal distances are broken by comparing
// machine ids lexicographically, so the same input always yields the same
// tour.
type RouteOptimizer struct {
	estimator ports.DistanceEstimator
}

// NewRouteOptimizer creates a RouteOptimizer using the given travel cost estimator.
func NewRouteOptimizer(estimator ports.DistanceEstimator) (RouteOptimizer, error) {
	if estimator == nil {
		return RouteOptimizer{}, errs.NewValueIsRequiredError("estimator")
	}
	return RouteOptimizer{estimator: estimator}, nil
}

// Optimize proposes a visit order for the route's movable stops.
//
// Parameters:
//   - aggregate: The route to plan (must be valid)
//   - start: Tour anchor, usually the operator's start location; nil when unknown
//   - departAt: The moment the operator leaves the anchor
//
// With no anchor the tour starts at the first located stop in the current
// order and the first arrival is projected at departAt.
func (o RouteOptimizer) Optimize(
	ctx context.Context,
	aggregate *route.Route,
	start *kernel.GeoPoint,
	departAt time.Time,
) (OptimizeResult, error) {
	if err := aggregate.Validate(); err != nil {
		return OptimizeResult{}, err
	}

	movable := aggregate.MovableStops()
	result := OptimizeResult{
		ETAs:     make(map[kernel.UUID]time.Time),
		Warnings: make(map[kernel.UUID]string),
	}
	if len(movable) == 0 {
		return result, nil
	}

	var frozen, located, missing []*route.Stop
	for _, stop := range movable {
		switch {
		case stop.Status() == route.EnRoute:
			frozen = append(frozen, stop)
		case stop.HasLocation():
			located = append(located, stop)
		default:
			missing = append(missing, stop)
		}
	}

	ordered, err := o.buildTour(ctx, frozen, located, start)
	if err != nil {
		return OptimizeResult{}, err
	}
	ordered = append(ordered, missing...)

	for _, stop := range missing {
		result.Warnings[stop.ID()] = route.WarningMissingCoordinates
	}
	for _, stop := range ordered {
		result.OrderedStopIDs = append(result.OrderedStopIDs, stop.ID())
	}

	if err = o.rollUpEstimates(ctx, &result, ordered, aggregate.RouteType(), start, departAt); err != nil {
		return OptimizeResult{}, err
	}

	return result, nil
}

// EstimateSchedule projects arrival times for the route's movable stops in
// their current visit order, without reordering. Used after manual reorders
// and by periodic schedule refreshes, where the dispatcher's order is
// authoritative and only the clock projection needs updating.
func (o RouteOptimizer) EstimateSchedule(
	ctx context.Context,
	aggregate *route.Route,
	start *kernel.GeoPoint,
	departAt time.Time,
) (OptimizeResult, error) {
	if err := aggregate.Validate(); err != nil {
		return OptimizeResult{}, err
	}

	movable := aggregate.MovableStops()
	result := OptimizeResult{
		ETAs:     make(map[kernel.UUID]time.Time),
		Warnings: make(map[kernel.UUID]string),
	}

	for _, stop := range movable {
		result.OrderedStopIDs = append(result.OrderedStopIDs, stop.ID())
		if !stop.HasLocation() {
			result.Warnings[stop.ID()] = route.WarningMissingCoordinates
		}
	}

	if err := o.rollUpEstimates(ctx, &result, movable, aggregate.RouteType(), start, departAt); err != nil {
		return OptimizeResult{}, err
	}

	return result, nil
}

// buildTour arranges the located stops after the frozen prefix using
// nearest-neighbor construction followed by 2-opt improvement.
func (o RouteOptimizer) buildTour(
	ctx context.Context,
	frozen, located []*route.Stop,
	start *kernel.GeoPoint,
) ([]*route.Stop, error) {
	tour := make([]*route.Stop, 0, len(frozen)+len(located))
	tour = append(tour, frozen...)

	if len(located) == 0 {
		return tour, nil
	}

	// The anchor is the last known position before the reorderable segment:
	// the last located frozen stop, falling back to the tour start.
	anchor := start
	for _, stop := range frozen {
		if stop.HasLocation() {
			anchor = stop.Location()
		}
	}

	matrix, anchorLegs, err := o.buildDistanceMatrix(ctx, located, anchor)
	if err != nil {
		return nil, err
	}

	order := nearestNeighborOrder(located, matrix, anchorLegs)
	order = twoOptImprove(order, matrix, anchorLegs)

	for _, idx := range order {
		tour = append(tour, located[idx])
	}
	return tour, nil
}

// buildDistanceMatrix computes pairwise distances between the located stops
// and, when an anchor exists, the legs from the anchor to each stop.
// anchorLegs is nil when no anchor is available.
func (o RouteOptimizer) buildDistanceMatrix(
	ctx context.Context,
	located []*route.Stop,
	anchor *kernel.GeoPoint,
) ([][]float64, []float64, error) {
	n := len(located)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			estimate, err := o.estimator.Estimate(ctx, *located[i].Location(), *located[j].Location())
			if err != nil {
				return nil, nil, err
			}
			matrix[i][j] = estimate.DistanceKm
			matrix[j][i] = estimate.DistanceKm
		}
	}

	if anchor == nil {
		return matrix, nil, nil
	}

	anchorLegs := make([]float64, n)
	for i := 0; i < n; i++ {
		estimate, err := o.estimator.Estimate(ctx, *anchor, *located[i].Location())
		if err != nil {
			return nil, nil, err
		}
		anchorLegs[i] = estimate.DistanceKm
	}
	return matrix, anchorLegs, nil
}

// nearestNeighborOrder builds an initial tour greedily: from the current
// position, always move to the closest unvisited stop. Distance ties are
// broken by the lexicographically smaller machine id so the construction is
// deterministic. Without an anchor the tour is seeded with the first stop in
// the current route order.
func nearestNeighborOrder(located []*route.Stop, matrix [][]float64, anchorLegs []float64) []int {
	n := len(located)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	pickNearest := func(legs func(int) float64) int {
		best := -1
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}
			if best == -1 {
				best = candidate
				continue
			}
			d, bestD := legs(candidate), legs(best)
			if d < bestD || (d == bestD && machineIDLess(located[candidate], located[best])) {
				best = candidate
			}
		}
		return best
	}

	var current int
	if anchorLegs != nil {
		current = pickNearest(func(i int) float64 { return anchorLegs[i] })
	} else {
		current = 0
	}
	visited[current] = true
	order = append(order, current)

	for len(order) < n {
		next := pickNearest(func(i int) float64 { return matrix[current][i] })
		visited[next] = true
		order = append(order, next)
		current = next
	}

	return order
}

// twoOptImprove polishes the tour by reversing segments while doing so
// shortens it. The tour is open ended (no return leg), so a reversal of
// [i..j] only changes the legs entering i and leaving j. The loop runs until
// a pass yields no improvement or the pass budget is exhausted.
func twoOptImprove(order []int, matrix [][]float64, anchorLegs []float64) []int {
	n := len(order)
	if n < 3 && anchorLegs == nil {
		return order
	}

	// legInto returns the cost of the leg entering tour position pos
	// if stop idx were placed there.
	legInto := func(pos, idx int) float64 {
		if pos == 0 {
			if anchorLegs == nil {
				return 0
			}
			return anchorLegs[idx]
		}
		return matrix[order[pos-1]][idx]
	}

	for pass := 0; pass < maxTwoOptPasses; pass++ {
		improved := false
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				removed := legInto(i, order[i])
				added := legInto(i, order[j])
				if j+1 < n {
					removed += matrix[order[j]][order[j+1]]
					added += matrix[order[i]][order[j+1]]
				}
				if removed-added > minImprovementKm {
					reverseSegment(order, i, j)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}

	return order
}

func reverseSegment(order []int, i, j int) {
	for i < j {
		order[i], order[j] = order[j], order[i]
		i++
		j--
	}
}

func machineIDLess(a, b *route.Stop) bool {
	return a.MachineID().String() < b.MachineID().String()
}

// rollUpEstimates walks the final tour accumulating travel and service time.
// Each stop's ETA is the running clock on arrival; service time is added
// before moving on. Stops without coordinates contribute no travel leg and
// get no ETA.
func (o RouteOptimizer) rollUpEstimates(
	ctx context.Context,
	result *OptimizeResult,
	ordered []*route.Stop,
	routeType route.RouteType,
	start *kernel.GeoPoint,
	departAt time.Time,
) error {
	clock := departAt
	position := start

	for _, stop := range ordered {
		if !stop.HasLocation() {
			continue
		}

		if position != nil {
			estimate, err := o.estimator.Estimate(ctx, *position, *stop.Location())
			if err != nil {
				return err
			}
			clock = clock.Add(estimate.TravelTime)
			result.TotalDistanceKm += estimate.DistanceKm
		}

		result.ETAs[stop.ID()] = clock
		clock = clock.Add(routeType.ServiceDuration())
		position = stop.Location()
	}

	result.TotalDurationMinutes = int(clock.Sub(departAt).Round(time.Minute) / time.Minute)
	return nil
}
