// Package services contains domain services that implement business logic
// spanning multiple aggregates or requiring external collaborators.
//
// RouteOptimizer proposes visit orders for a route's open stops using
// nearest-neighbor construction with 2-opt improvement. It is a pure
// computation: applying the proposal to the Route aggregate is the caller's
// responsibility.
package services
