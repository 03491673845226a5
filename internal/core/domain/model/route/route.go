package route

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"
	"routeplanner/internal/pkg/guard"
)

var (
	// ErrRouteIsNotConstructed is returned when using an improperly initialized Route.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")

	// ErrRouteHasUnfinishedStops is returned when completing a route that still
	// has stops in a non-terminal status.
	ErrRouteHasUnfinishedStops = errors.New("route has unfinished stops")

	// ErrStopNotFound is returned when the referenced stop does not belong to the route.
	ErrStopNotFound = errors.New("stop not found on route")
)

// Route is the aggregate root for a planned service trip: one operator, one
// day, an ordered list of machine stops. All stop mutations go through the
// Route so that two invariants always hold inside a single aggregate:
//
//  1. Stop sequences form a dense 1..N ordering with no gaps or duplicates.
//  2. A machine appears at most once per route unless a repeat visit is
//     explicitly flagged on the later stop.
//
// A route is editable until it is completed or deleted; after that only
// notes and metadata remain mutable.
type Route struct {
	// id uniquely identifies the route
	id kernel.UUID
	// organizationID scopes the route to a tenant
	organizationID kernel.UUID
	// operatorID is the field operator assigned to drive the route
	operatorID kernel.UUID
	// name is a human-readable label
	name string
	// routeType classifies the work and fixes the per-stop service duration
	routeType RouteType
	// plannedDate is the calendar day the route is scheduled for
	plannedDate time.Time
	// autoOptimize re-runs the optimizer whenever a stop is added
	autoOptimize bool
	// estimatedTotalDistanceKm is the optimizer's projected travel distance
	estimatedTotalDistanceKm *float64
	// estimatedDurationMinutes is the optimizer's projected total duration
	estimatedDurationMinutes *int
	// actualDistanceKm is computed from visited stop locations on completion
	actualDistanceKm *float64
	// actualDurationMinutes is computed from recorded timestamps on completion
	actualDurationMinutes *int
	// notes is free-form text, mutable in any state
	notes string
	// metadata is an opaque key-value bag, mutable in any state
	metadata map[string]string
	// completedAt is stamped when the route is closed out
	completedAt *time.Time
	// deletedAt marks a soft-deleted route
	deletedAt *time.Time
	// version supports optimistic locking at the persistence layer
	version int
	// stops are the machine visits, keyed by position in the slice (not sequence)
	stops []*Stop
	// guard ensures the route was properly constructed
	guard guard.ConstructorGuard
}

// NewRoute creates a new empty Route.
//
// Parameters:
//   - id: Unique identifier for the route (must be valid UUID)
//   - organizationID: Owning tenant (must be valid UUID)
//   - operatorID: Assigned field operator (must be valid UUID)
//   - name: Human-readable label (must be non-empty)
//   - routeType: Kind of work planned (must be valid)
//   - plannedDate: Calendar day the route is scheduled for (must be non-zero)
//   - autoOptimize: Whether adding a stop re-runs the optimizer
//
// Returns an error if any parameter is invalid.
func NewRoute(
	id, organizationID, operatorID kernel.UUID,
	name string,
	routeType RouteType,
	plannedDate time.Time,
	autoOptimize bool,
) (*Route, error) {
	route := &Route{
		autoOptimize: autoOptimize,
		metadata:     make(map[string]string),
		version:      1,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		route.setID(id),
		route.setOrganizationID(organizationID),
		route.setOperatorID(operatorID),
		route.setName(name),
		route.setRouteType(routeType),
		route.setPlannedDate(plannedDate),
	); err != nil {
		return nil, err
	}

	return route, nil
}

// RestoreRoute reconstructs a Route from persistent storage with its full state.
func RestoreRoute(
	id, organizationID, operatorID kernel.UUID,
	name string,
	routeType RouteType,
	plannedDate time.Time,
	autoOptimize bool,
	estimatedTotalDistanceKm *float64,
	estimatedDurationMinutes *int,
	actualDistanceKm *float64,
	actualDurationMinutes *int,
	notes string,
	metadata map[string]string,
	completedAt, deletedAt *time.Time,
	version int,
	stops []*Stop,
) (*Route, error) {
	route := &Route{
		autoOptimize: autoOptimize,
		metadata:     make(map[string]string),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		route.setID(id),
		route.setOrganizationID(organizationID),
		route.setOperatorID(operatorID),
		route.setName(name),
		route.setRouteType(routeType),
		route.setPlannedDate(plannedDate),
		route.setVersion(version),
	); err != nil {
		return nil, err
	}

	route.estimatedTotalDistanceKm = cloneFloat(estimatedTotalDistanceKm)
	route.estimatedDurationMinutes = cloneInt(estimatedDurationMinutes)
	route.actualDistanceKm = cloneFloat(actualDistanceKm)
	route.actualDurationMinutes = cloneInt(actualDurationMinutes)
	route.notes = notes
	for k, v := range metadata {
		route.metadata[k] = v
	}
	route.completedAt = cloneTime(completedAt)
	route.deletedAt = cloneTime(deletedAt)

	for _, stop := range stops {
		if err := stop.Validate(); err != nil {
			return nil, err
		}
	}
	route.stops = append(route.stops, stops...)
	route.sortStops()

	if err := route.checkStopInvariants(); err != nil {
		return nil, err
	}

	return route, nil
}

// Validate checks if the Route was properly constructed using a constructor.
func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

// IsEqual compares two routes by their unique identifiers.
func (r *Route) IsEqual(other *Route) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the route's unique identifier.
func (r *Route) ID() kernel.UUID {
	return r.id
}

// OrganizationID returns the owning tenant's identifier.
func (r *Route) OrganizationID() kernel.UUID {
	return r.organizationID
}

// OperatorID returns the assigned field operator's identifier.
func (r *Route) OperatorID() kernel.UUID {
	return r.operatorID
}

// Name returns the human-readable route label.
func (r *Route) Name() string {
	return r.name
}

// RouteType returns the kind of work planned for the route.
func (r *Route) RouteType() RouteType {
	return r.routeType
}

// PlannedDate returns the calendar day the route is scheduled for.
func (r *Route) PlannedDate() time.Time {
	return r.plannedDate
}

// AutoOptimize reports whether adding a stop re-runs the optimizer.
func (r *Route) AutoOptimize() bool {
	return r.autoOptimize
}

// EstimatedTotalDistanceKm returns the optimizer's projected travel distance.
func (r *Route) EstimatedTotalDistanceKm() *float64 {
	return cloneFloat(r.estimatedTotalDistanceKm)
}

// EstimatedDurationMinutes returns the optimizer's projected total duration.
func (r *Route) EstimatedDurationMinutes() *int {
	return cloneInt(r.estimatedDurationMinutes)
}

// ActualDistanceKm returns the distance computed on completion.
func (r *Route) ActualDistanceKm() *float64 {
	return cloneFloat(r.actualDistanceKm)
}

// ActualDurationMinutes returns the duration computed on completion.
func (r *Route) ActualDurationMinutes() *int {
	return cloneInt(r.actualDurationMinutes)
}

// Notes returns the free-form route notes.
func (r *Route) Notes() string {
	return r.notes
}

// Metadata returns a copy of the route's metadata bag.
func (r *Route) Metadata() map[string]string {
	out := make(map[string]string, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

// CompletedAt returns the completion timestamp, or nil for an open route.
func (r *Route) CompletedAt() *time.Time {
	return cloneTime(r.completedAt)
}

// IsCompleted reports whether the route has been closed out.
func (r *Route) IsCompleted() bool {
	return r.completedAt != nil
}

// DeletedAt returns the soft-delete timestamp, or nil for a live route.
func (r *Route) DeletedAt() *time.Time {
	return cloneTime(r.deletedAt)
}

// IsDeleted reports whether the route has been soft-deleted.
func (r *Route) IsDeleted() bool {
	return r.deletedAt != nil
}

// Version returns the optimistic locking version.
func (r *Route) Version() int {
	return r.version
}

// Stops returns a copy of the stop list sorted by sequence.
// The Stop pointers are shared with the aggregate; callers must not
// mutate them directly.
func (r *Route) Stops() []*Stop {
	out := make([]*Stop, len(r.stops))
	copy(out, r.stops)
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence() < out[j].Sequence() })
	return out
}

// StopByID returns the stop with the given identifier,
// or ErrStopNotFound when no such stop belongs to the route.
func (r *Route) StopByID(stopID kernel.UUID) (*Stop, error) {
	for _, stop := range r.stops {
		if stop.ID().IsEqual(stopID) {
			return stop, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrStopNotFound, stopID)
}

// MovableStops returns the stops the optimizer may reorder,
// sorted by sequence: Pending and EnRoute stops only.
func (r *Route) MovableStops() []*Stop {
	var out []*Stop
	for _, stop := range r.Stops() {
		if stop.Status() == Pending || stop.Status() == EnRoute {
			out = append(out, stop)
		}
	}
	return out
}

// NonTerminalStops returns the stops that have not reached a terminal status,
// sorted by sequence.
func (r *Route) NonTerminalStops() []*Stop {
	var out []*Stop
	for _, stop := range r.Stops() {
		if !stop.Status().IsTerminal() {
			out = append(out, stop)
		}
	}
	return out
}

// UpdateNotes replaces the route notes.
// Notes remain mutable even after the route is completed.
func (r *Route) UpdateNotes(notes string) {
	r.notes = notes
}

// SetMetadataValue sets a metadata entry.
// Metadata remains mutable even after the route is completed.
func (r *Route) SetMetadataValue(key, value string) {
	r.metadata[key] = value
}

// AddStop appends a new Pending stop at the end of the route.
//
// The new stop receives sequence max+1, so existing positions are never
// disturbed. Adding a machine that already has a stop on the route fails
// with *errs.DuplicateMachineError unless repeatVisit is set, in which case
// the new stop is flagged as an intentional revisit.
func (r *Route) AddStop(stopID, machineID kernel.UUID, location *kernel.GeoPoint, repeatVisit bool) (*Stop, error) {
	if err := r.ensureEditable(); err != nil {
		return nil, err
	}

	if !repeatVisit {
		for _, existing := range r.stops {
			if existing.MachineID().IsEqual(machineID) && existing.Status() != Cancelled {
				return nil, errs.NewDuplicateMachineError(machineID.String())
			}
		}
	}

	stop, err := NewStop(stopID, machineID, r.maxSequence()+1, location)
	if err != nil {
		return nil, err
	}
	if repeatVisit {
		stop.SetMetadataValue(MetadataRepeatVisit, "true")
	}

	r.stops = append(r.stops, stop)
	return stop, nil
}

// RemoveStop deletes a stop from the route. Only Pending stops may be
// removed; anything further along fails with *errs.InvalidStateError.
// Remaining stops are renumbered so the sequence stays dense.
func (r *Route) RemoveStop(stopID kernel.UUID) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}

	stop, err := r.StopByID(stopID)
	if err != nil {
		return err
	}
	if stop.Status() != Pending {
		return errs.NewInvalidStateError(fmt.Sprintf("stop %s", stop.ID()), stop.Status().String())
	}

	kept := make([]*Stop, 0, len(r.stops)-1)
	for _, s := range r.stops {
		if !s.ID().IsEqual(stopID) {
			kept = append(kept, s)
		}
	}
	r.stops = kept

	return r.renumberDense()
}

// ReplaceSequence applies a manual reorder supplied by a dispatcher.
//
// orderedStopIDs must list every non-terminal stop exactly once, in the
// desired visit order. Terminal stops keep the sequence slot they already
// occupy; the ordered ids fill the remaining slots from lowest to highest.
// A wrong count or an unknown id fails with *errs.SequenceMismatchError.
func (r *Route) ReplaceSequence(orderedStopIDs []kernel.UUID) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}
	return r.reassignOpenSlots(orderedStopIDs, r.NonTerminalStops())
}

// ApplyOptimizedOrder installs the optimizer's output on the aggregate.
//
// orderedStopIDs must cover exactly the movable (Pending and EnRoute) stops.
// Estimated arrivals and per-stop warnings are applied alongside the new
// order, and the route-level distance/duration projections are replaced.
func (r *Route) ApplyOptimizedOrder(
	orderedStopIDs []kernel.UUID,
	etas map[kernel.UUID]time.Time,
	warnings map[kernel.UUID]string,
	totalDistanceKm float64,
	totalDurationMinutes int,
) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}

	if err := r.reassignOpenSlots(orderedStopIDs, r.MovableStops()); err != nil {
		return err
	}

	for _, stop := range r.stops {
		if eta, ok := etas[stop.ID()]; ok {
			if err := stop.setEstimatedArrival(&eta); err != nil {
				return err
			}
		}
		if warning, ok := warnings[stop.ID()]; ok {
			stop.SetMetadataValue(MetadataWarning, warning)
		}
	}

	r.estimatedTotalDistanceKm = &totalDistanceKm
	r.estimatedDurationMinutes = &totalDurationMinutes
	return nil
}

// RecordProgress applies a lifecycle event to one of the route's stops.
//
// A Depart event additionally propagates schedule drift: the difference
// between the actual departure and the planned departure (estimated arrival
// plus the route type's service duration) shifts the estimated arrival of
// every later Pending or EnRoute stop by the same amount.
func (r *Route) RecordProgress(stopID kernel.UUID, event ProgressEvent, at time.Time) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return err
	}

	stop, err := r.StopByID(stopID)
	if err != nil {
		return err
	}

	switch event {
	case EventStartTravel:
		return stop.startTravel()
	case EventArrive:
		return stop.arrive(at)
	case EventDepart:
		plannedDeparture := stop.EstimatedArrival()
		if err := stop.depart(at); err != nil {
			return err
		}
		if plannedDeparture != nil {
			delta := at.Sub(plannedDeparture.Add(r.routeType.ServiceDuration()))
			r.shiftDownstreamEstimates(stop.Sequence(), delta)
		}
		return nil
	case EventSkip:
		return stop.skip()
	case EventCancel:
		return stop.cancel()
	default:
		return errs.NewValueIsInvalidError("event")
	}
}

// Complete closes out the route.
//
// Every stop must already be terminal; otherwise ErrRouteHasUnfinishedStops
// is returned. Completion computes the route's actuals: duration from the
// first recorded arrival to the last recorded departure, and distance as the
// leg-by-leg haversine sum over Departed stops that carry coordinates.
func (r *Route) Complete(at time.Time) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}

	for _, stop := range r.stops {
		if !stop.Status().IsTerminal() {
			return fmt.Errorf("%w: stop %s is %s", ErrRouteHasUnfinishedStops, stop.ID(), stop.Status())
		}
	}

	r.actualDurationMinutes = r.computeActualDurationMinutes()
	r.actualDistanceKm = r.computeActualDistanceKm()
	r.completedAt = &at
	return nil
}

// MarkDeleted soft-deletes the route.
// Deletion is idempotent: deleting an already deleted route is a no-op.
func (r *Route) MarkDeleted(at time.Time) {
	if r.deletedAt != nil {
		return
	}
	r.deletedAt = &at
}

// ensureEditable rejects mutations on completed or deleted routes.
func (r *Route) ensureEditable() error {
	if r.deletedAt != nil {
		return errs.NewInvalidStateError(fmt.Sprintf("route %s", r.id), "deleted")
	}
	if r.completedAt != nil {
		return errs.NewInvalidStateError(fmt.Sprintf("route %s", r.id), "completed")
	}
	return nil
}

// reassignOpenSlots rewrites the sequence of reorderable so that they occupy
// reorderable's current sequence slots in the order given by orderedStopIDs.
// Slots held by stops outside the reorderable set are untouched.
func (r *Route) reassignOpenSlots(orderedStopIDs []kernel.UUID, reorderable []*Stop) error {
	if len(orderedStopIDs) != len(reorderable) {
		return errs.NewSequenceMismatchError(len(reorderable), len(orderedStopIDs))
	}

	byID := make(map[kernel.UUID]*Stop, len(reorderable))
	slots := make([]int, 0, len(reorderable))
	for _, stop := range reorderable {
		byID[stop.ID()] = stop
		slots = append(slots, stop.Sequence())
	}
	sort.Ints(slots)

	seen := make(map[kernel.UUID]bool, len(orderedStopIDs))
	ordered := make([]*Stop, 0, len(orderedStopIDs))
	for _, stopID := range orderedStopIDs {
		stop, ok := byID[stopID]
		if !ok {
			return errs.NewSequenceMismatchErrorWithCause(len(reorderable), len(orderedStopIDs),
				fmt.Errorf("stop %s is not reorderable on this route", stopID))
		}
		if seen[stopID] {
			return errs.NewSequenceMismatchErrorWithCause(len(reorderable), len(orderedStopIDs),
				fmt.Errorf("stop %s appears more than once", stopID))
		}
		seen[stopID] = true
		ordered = append(ordered, stop)
	}

	for i, stop := range ordered {
		if err := stop.assignSequence(slots[i]); err != nil {
			return err
		}
	}

	return r.checkStopInvariants()
}

// shiftDownstreamEstimates moves the estimated arrival of every open stop
// after the given sequence position by delta.
func (r *Route) shiftDownstreamEstimates(afterSequence int, delta time.Duration) {
	if delta == 0 {
		return
	}
	for _, stop := range r.stops {
		if stop.Sequence() <= afterSequence {
			continue
		}
		if stop.Status() == Pending || stop.Status() == EnRoute {
			stop.shiftEstimatedArrival(delta)
		}
	}
}

// renumberDense compacts sequences to 1..N after a removal.
// Relative order is preserved, including terminal stops' positions.
func (r *Route) renumberDense() error {
	r.sortStops()
	for i, stop := range r.stops {
		if err := stop.renumberSequence(i + 1); err != nil {
			return err
		}
	}
	return nil
}

// checkStopInvariants verifies the dense 1..N sequence ordering and the
// machine uniqueness rule across the whole stop list.
func (r *Route) checkStopInvariants() error {
	seqs := make(map[int]bool, len(r.stops))
	for _, stop := range r.stops {
		seq := stop.Sequence()
		if seq < 1 || seq > len(r.stops) || seqs[seq] {
			return errs.NewValueIsInvalidErrorWithCause("sequence",
				fmt.Errorf("stop sequences must form a dense 1..%d ordering", len(r.stops)))
		}
		seqs[seq] = true
	}

	machines := make(map[kernel.UUID]bool, len(r.stops))
	for _, stop := range r.Stops() {
		if stop.Status() == Cancelled || stop.IsRepeatVisit() {
			continue
		}
		if machines[stop.MachineID()] {
			return errs.NewDuplicateMachineError(stop.MachineID().String())
		}
		machines[stop.MachineID()] = true
	}

	return nil
}

func (r *Route) maxSequence() int {
	max := 0
	for _, stop := range r.stops {
		if stop.Sequence() > max {
			max = stop.Sequence()
		}
	}
	return max
}

func (r *Route) sortStops() {
	sort.Slice(r.stops, func(i, j int) bool { return r.stops[i].Sequence() < r.stops[j].Sequence() })
}

// computeActualDurationMinutes measures the span from the first recorded
// arrival to the last recorded departure. Nil when nothing was visited.
func (r *Route) computeActualDurationMinutes() *int {
	var first, last *time.Time
	for _, stop := range r.stops {
		if arrived := stop.ActualArrival(); arrived != nil {
			if first == nil || arrived.Before(*first) {
				first = arrived
			}
		}
		if departed := stop.DepartedAt(); departed != nil {
			if last == nil || departed.After(*last) {
				last = departed
			}
		}
	}
	if first == nil || last == nil || last.Before(*first) {
		return nil
	}
	minutes := int(last.Sub(*first).Round(time.Minute) / time.Minute)
	return &minutes
}

// computeActualDistanceKm sums haversine legs between consecutive Departed
// stops that carry coordinates. Nil when fewer than two such stops exist.
func (r *Route) computeActualDistanceKm() *float64 {
	var visited []*Stop
	for _, stop := range r.Stops() {
		if stop.Status() == Departed && stop.HasLocation() {
			visited = append(visited, stop)
		}
	}
	if len(visited) < 2 {
		return nil
	}

	total := 0.0
	for i := 1; i < len(visited); i++ {
		km, err := visited[i-1].Location().DistanceKm(*visited[i].Location())
		if err != nil {
			continue
		}
		total += km
	}
	return &total
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setOrganizationID(organizationID kernel.UUID) error {
	if err := organizationID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("organizationId", err)
	}
	r.organizationID = organizationID
	return nil
}

func (r *Route) setOperatorID(operatorID kernel.UUID) error {
	if err := operatorID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("operatorId", err)
	}
	r.operatorID = operatorID
	return nil
}

func (r *Route) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

func (r *Route) setRouteType(routeType RouteType) error {
	if err := routeType.Validate(); err != nil {
		return err
	}
	r.routeType = routeType
	return nil
}

func (r *Route) setPlannedDate(plannedDate time.Time) error {
	if plannedDate.IsZero() {
		return errs.NewValueIsRequiredError("plannedDate")
	}
	r.plannedDate = plannedDate
	return nil
}

func (r *Route) setVersion(version int) error {
	if version < 1 {
		return errs.NewVersionIsInvalidError("version")
	}
	r.version = version
	return nil
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	clone := *f
	return &clone
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}
