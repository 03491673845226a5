package ports

import (
	"context"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
)

// DistanceEstimate is the projected cost of travelling between two points.
type DistanceEstimate struct {
	// DistanceKm is the travel distance in kilometers.
	DistanceKm float64
	// TravelTime is the projected time needed to cover the distance.
	TravelTime time.Duration
}

// DistanceEstimator projects travel cost between two geographic points.
// The default implementation uses straight-line haversine distance at a fixed
// average speed; a road-routing engine can be plugged in behind the same port.
type DistanceEstimator interface {
	// Estimate returns the projected travel cost from one point to another.
	Estimate(ctx context.Context, from, to kernel.GeoPoint) (DistanceEstimate, error)
}
