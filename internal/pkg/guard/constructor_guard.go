// Package guard provides a defensive construction pattern for domain objects.
// Embedding a ConstructorGuard in a struct makes zero-value instances detectable,
// so value objects, entities, and commands can only be used after passing through
// their designated constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures domain objects are only created through their designated
// constructor functions. The guard works by maintaining an internal flag that is only
// set to true when the object is created through the proper constructor; any attempt
// to use a zero-value struct fails validation.
//
// Example usage:
//
//	type GeoPoint struct {
//	    lat   float64
//	    lon   float64
//	    guard guard.ConstructorGuard
//	}
//
//	func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
//	    // validate bounds...
//	    return GeoPoint{lat: lat, lon: lon, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (p GeoPoint) Validate() error {
//	    return p.guard.Validate(ErrGeoPointIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a ConstructorGuard that marks an object as properly
// constructed. Call it in the constructor of domain objects so they can be
// distinguished from zero-value instances.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate checks whether the guarded object was created through its constructor.
// If the object is a zero value, the provided validationError is returned;
// ErrDefaultConstructorGuard is returned when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
