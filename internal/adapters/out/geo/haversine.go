// Package geo provides distance estimation adapters for route planning.
package geo

import (
	"context"
	"fmt"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/errs"
)

// DefaultAverageSpeedKmph is the assumed average urban driving speed used
// when no speed is configured.
const DefaultAverageSpeedKmph = 30.0

// HaversineEstimator estimates travel legs from great-circle distance and a
// flat average speed. It performs no network calls, which makes it suitable
// as the default estimator; a road-network estimator can replace it behind
// the same port.
type HaversineEstimator struct {
	averageSpeedKmph float64
}

// NewHaversineEstimator creates an estimator with the given average speed in km/h.
// Returns an error if the speed is not positive.
func NewHaversineEstimator(averageSpeedKmph float64) (*HaversineEstimator, error) {
	if averageSpeedKmph <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("averageSpeedKmph",
			fmt.Errorf("%f is not greater than 0", averageSpeedKmph))
	}
	return &HaversineEstimator{averageSpeedKmph: averageSpeedKmph}, nil
}

// Estimate returns the straight-line distance between two points and the time
// needed to drive it at the configured average speed.
func (e *HaversineEstimator) Estimate(
	_ context.Context, from, to kernel.GeoPoint,
) (ports.DistanceEstimate, error) {
	km, err := from.DistanceKm(to)
	if err != nil {
		return ports.DistanceEstimate{}, err
	}

	travelTime, err := from.TravelTime(to, e.averageSpeedKmph)
	if err != nil {
		return ports.DistanceEstimate{}, err
	}

	return ports.DistanceEstimate{
		DistanceKm: km,
		TravelTime: travelTime,
	}, nil
}
