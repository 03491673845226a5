package route

import (
	"fmt"
	"strings"
	"time"

	"routeplanner/internal/pkg/errs"
)

// RouteType classifies the kind of field work a route is planned for.
// The type determines the average service duration spent at each stop,
// which feeds into ETA computation.
type RouteType int

const (
	// TypeUnknown represents an invalid or undefined route type.
	TypeUnknown RouteType = iota

	// Refill routes restock machine inventory.
	Refill

	// Collection routes empty machine cash boxes.
	Collection

	// Maintenance routes service or repair machines.
	Maintenance

	// Mixed routes combine several kinds of work in one trip.
	Mixed
)

// Average time an operator spends at a stop, by route type.
const (
	refillServiceDuration      = 15 * time.Minute
	collectionServiceDuration  = 10 * time.Minute
	maintenanceServiceDuration = 30 * time.Minute
	mixedServiceDuration       = 20 * time.Minute
)

// getRouteTypeStrings returns a map of RouteType values to their wire representations.
func getRouteTypeStrings() map[RouteType]string {
	return map[RouteType]string{
		TypeUnknown: "UNKNOWN",
		Refill:      "REFILL",
		Collection:  "COLLECTION",
		Maintenance: "MAINTENANCE",
		Mixed:       "MIXED",
	}
}

// RouteTypeFromString parses a route type from its wire representation
// (case-insensitive). Returns an error for unrecognized values.
func RouteTypeFromString(s string) (RouteType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for routeType, str := range getRouteTypeStrings() {
		if routeType != TypeUnknown && str == normalized {
			return routeType, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("routeType",
		fmt.Errorf("%q is not a valid route type", s))
}

// Validate checks if the RouteType value is valid.
// TypeUnknown (0) and any other values are invalid.
func (t RouteType) Validate() error {
	switch t {
	case Refill, Collection, Maintenance, Mixed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("routeType is invalid",
			fmt.Errorf("%d is not a valid route type", t))
	}
}

// String returns the wire representation of the route type.
// This method implements the fmt.Stringer interface.
func (t RouteType) String() string {
	if str, ok := getRouteTypeStrings()[t]; ok {
		return str
	}
	return "UNKNOWN"
}

// ServiceDuration returns the average time an operator spends working
// at a stop of this route type. Used when rolling up estimated arrivals.
func (t RouteType) ServiceDuration() time.Duration {
	switch t {
	case Refill:
		return refillServiceDuration
	case Collection:
		return collectionServiceDuration
	case Maintenance:
		return maintenanceServiceDuration
	default:
		return mixedServiceDuration
	}
}
