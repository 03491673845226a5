// Package route provides domain entities and business logic for route planning
// in the vending machine operations platform. It implements the Route aggregate
// root with stop sequencing, status tracking, and ETA propagation.
//
// The package includes:
//   - Route: The aggregate root that owns the ordered set of stops for one operator day
//   - Stop: An entity representing a single machine visit with its own status and timing
//   - Status: A state machine that enforces valid stop status transitions
//   - RouteType: The kind of field work a route is planned for
//   - ProgressEvent: Operator or GPS-derived events that drive stop transitions
//
// Key business rules:
//   - Stop sequence values form a dense permutation of 1..N at all times
//   - A machine appears at most once per route unless a repeat visit is requested
//   - Stop status follows the workflow Pending -> EnRoute -> Arrived -> Departed,
//     with Skipped and Cancelled as alternative terminal states
//   - Terminal stops are immutable except for notes and metadata
//   - Departing a stop shifts the estimated arrival of all downstream open stops
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package route
