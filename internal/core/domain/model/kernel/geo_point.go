package kernel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"routeplanner/internal/pkg/errs"
	"routeplanner/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0

	// EarthRadiusKm is the mean radius of Earth in kilometers,
	// used by the haversine great-circle distance.
	EarthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly initialized GeoPoint.
// GeoPoints must be created using the NewGeoPoint constructor to ensure validity.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a position on Earth as WGS-84 coordinates.
// GeoPoint is an immutable value object that ensures latitude and longitude
// are always within valid bounds. The zero value of GeoPoint is invalid and
// will fail validation - use the constructor to create instances.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(48.137, 11.575)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Printf("Machine at %s", point) // Output: GeoPoint(48.137000,11.575000)
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a new GeoPoint with the specified coordinates.
// Latitude must be within [LatitudeMin..LatitudeMax] and longitude within
// [LongitudeMin..LongitudeMax]. Returns an error if either is out of bounds.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLatitude(latitude), point.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks if the GeoPoint was properly constructed using the constructor.
// The zero value of GeoPoint is invalid and will fail this validation.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String returns a human-readable string representation of the GeoPoint.
// This method implements the fmt.Stringer interface.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.latitude, p.longitude)
}

// IsEqual compares two geo points for equality.
// Two points are considered equal if they have the same latitude and longitude.
// Both points must be properly constructed for the comparison to succeed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p == other, nil
}

// DistanceKm calculates the great-circle distance to another point in kilometers
// using the haversine formula on WGS-84 coordinates. Both points must be properly
// constructed for the calculation to succeed.
//
// Example:
//
//	depot, _ := kernel.NewGeoPoint(48.137, 11.575)
//	machine, _ := kernel.NewGeoPoint(48.210, 11.600)
//
//	km, err := depot.DistanceKm(machine)
//	// km ≈ 8.3
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := degToRad(other.latitude - p.latitude)
	dLon := degToRad(other.longitude - p.longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(p.latitude))*math.Cos(degToRad(other.latitude))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h)), nil
}

// TravelTime estimates the time needed to travel to another point at the given
// average speed in km/h. Returns an error if either point is invalid or the
// speed is not positive.
func (p GeoPoint) TravelTime(other GeoPoint, averageSpeedKmph float64) (time.Duration, error) {
	if averageSpeedKmph <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("averageSpeedKmph",
			fmt.Errorf("%f is not greater than 0", averageSpeedKmph))
	}

	km, err := p.DistanceKm(other)
	if err != nil {
		return 0, err
	}

	hours := km / averageSpeedKmph
	return time.Duration(hours * float64(time.Hour)), nil
}

// setLatitude sets the latitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use value receivers.
// Although mixing receiver types is generally not recommended, in this case we use pointer
// receivers for these private setters to enable self-encapsulated validation of business
// requirements during object construction.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	p.latitude = latitude
	return nil
}

// setLongitude sets the longitude with validation.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	p.longitude = longitude
	return nil
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
