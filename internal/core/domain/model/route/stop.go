package route

import (
	"errors"
	"fmt"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"
	"routeplanner/internal/pkg/guard"
)

// Well-known stop metadata keys.
const (
	// MetadataRepeatVisit marks a stop that intentionally revisits a machine
	// already present on the route.
	MetadataRepeatVisit = "repeatVisit"

	// MetadataWarning carries non-fatal degradation flags set by the optimizer.
	MetadataWarning = "warning"

	// WarningMissingCoordinates is set on stops that were excluded from the
	// distance matrix because their machine location snapshot is missing.
	WarningMissingCoordinates = "missing_coordinates"
)

var (
	// ErrStopIsNotConstructed is returned when using an improperly initialized Stop.
	ErrStopIsNotConstructed = errors.New("Stop must be created via NewStop constructor")
	// ErrSequenceIsInvalid is returned when a stop sequence is not a positive ordinal.
	ErrSequenceIsInvalid = errs.NewValueIsRequiredError("sequence")
)

// Stop represents a single machine visit within a Route.
// It is an entity owned by the Route aggregate: all mutations besides notes and
// metadata go through the owning Route so that the sequence and status
// invariants are enforced at the aggregate boundary.
//
// The latitude/longitude pair is a snapshot of the machine location taken at
// planning time; it may diverge from the live machine location and is the
// coordinate set the optimizer works with. A stop without a snapshot is still
// plannable but is excluded from distance computation.
type Stop struct {
	// id uniquely identifies the stop
	id kernel.UUID
	// machineID is the vending machine this stop visits
	machineID kernel.UUID
	// taskID optionally links a work order owned by the task system
	taskID *kernel.UUID
	// sequence is the 1-based position within the route
	sequence int
	// status is the current state in the stop lifecycle
	status Status
	// estimatedArrival is the planned arrival time computed by the optimizer
	estimatedArrival *time.Time
	// actualArrival is stamped when the stop reaches Arrived
	actualArrival *time.Time
	// departedAt is stamped when the stop reaches Departed
	departedAt *time.Time
	// location is the machine coordinate snapshot taken at planning time
	location *kernel.GeoPoint
	// notes is free-form operator text, mutable in any state
	notes string
	// metadata is an opaque key-value bag, mutable in any state
	metadata map[string]string
	// guard ensures the stop was properly constructed
	guard guard.ConstructorGuard
}

// NewStop creates a new Stop in Pending status.
//
// Parameters:
//   - id: Unique identifier for the stop (must be valid UUID)
//   - machineID: The machine to visit (must be valid UUID)
//   - sequence: 1-based position within the route (must be positive)
//   - location: Machine coordinate snapshot, nil when unknown
//
// Returns an error if any parameter is invalid.
func NewStop(id, machineID kernel.UUID, sequence int, location *kernel.GeoPoint) (*Stop, error) {
	stop := &Stop{
		status:   Pending,
		metadata: make(map[string]string),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stop.setID(id),
		stop.setMachineID(machineID),
		stop.setSequence(sequence),
		stop.setLocation(location),
	); err != nil {
		return nil, err
	}

	return stop, nil
}

// RestoreStop reconstructs a Stop from persistent storage with its full state.
// Unlike NewStop, this constructor accepts any valid status and the persisted
// timestamps, so a stop behaves identically to one driven through normal
// domain operations.
func RestoreStop(
	id, machineID kernel.UUID,
	taskID *kernel.UUID,
	sequence int,
	status Status,
	estimatedArrival, actualArrival, departedAt *time.Time,
	location *kernel.GeoPoint,
	notes string,
	metadata map[string]string,
) (*Stop, error) {
	stop := &Stop{
		metadata: make(map[string]string),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stop.setID(id),
		stop.setMachineID(machineID),
		stop.setSequence(sequence),
		stop.setLocation(location),
		stop.setStatus(status),
		stop.setTaskID(taskID),
	); err != nil {
		return nil, err
	}

	stop.estimatedArrival = cloneTime(estimatedArrival)
	stop.actualArrival = cloneTime(actualArrival)
	stop.departedAt = cloneTime(departedAt)
	stop.notes = notes
	for k, v := range metadata {
		stop.metadata[k] = v
	}

	return stop, nil
}

// Validate checks if the Stop was properly constructed using a constructor.
func (s *Stop) Validate() error {
	if s == nil {
		return ErrStopIsNotConstructed
	}
	return s.guard.Validate(ErrStopIsNotConstructed)
}

// IsEqual compares two stops by their unique identifiers.
func (s *Stop) IsEqual(other *Stop) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the stop's unique identifier.
func (s *Stop) ID() kernel.UUID {
	return s.id
}

// MachineID returns the identifier of the machine this stop visits.
func (s *Stop) MachineID() kernel.UUID {
	return s.machineID
}

// TaskID returns the linked work order identifier, or nil when the stop has no task.
func (s *Stop) TaskID() *kernel.UUID {
	return s.taskID
}

// Sequence returns the 1-based position of the stop within its route.
func (s *Stop) Sequence() int {
	return s.sequence
}

// Status returns the current status of the stop.
func (s *Stop) Status() Status {
	return s.status
}

// EstimatedArrival returns the planned arrival time, or nil when not yet computed.
func (s *Stop) EstimatedArrival() *time.Time {
	return cloneTime(s.estimatedArrival)
}

// ActualArrival returns the recorded arrival time.
// It is nil until the stop reaches Arrived.
func (s *Stop) ActualArrival() *time.Time {
	return cloneTime(s.actualArrival)
}

// DepartedAt returns the recorded departure time.
// It is nil until the stop reaches Departed.
func (s *Stop) DepartedAt() *time.Time {
	return cloneTime(s.departedAt)
}

// Location returns the machine coordinate snapshot taken at planning time,
// or nil when the snapshot is missing.
func (s *Stop) Location() *kernel.GeoPoint {
	if s.location == nil {
		return nil
	}
	loc := *s.location
	return &loc
}

// HasLocation reports whether the stop carries a coordinate snapshot.
func (s *Stop) HasLocation() bool {
	return s.location != nil
}

// Notes returns the free-form operator notes.
func (s *Stop) Notes() string {
	return s.notes
}

// Metadata returns a copy of the stop's metadata bag.
func (s *Stop) Metadata() map[string]string {
	out := make(map[string]string, len(s.metadata))
	for k, v := range s.metadata {
		out[k] = v
	}
	return out
}

// MetadataValue returns the metadata value for the given key and whether it is set.
func (s *Stop) MetadataValue(key string) (string, bool) {
	v, ok := s.metadata[key]
	return v, ok
}

// IsRepeatVisit reports whether the stop intentionally revisits a machine
// that already has another stop on the same route.
func (s *Stop) IsRepeatVisit() bool {
	return s.metadata[MetadataRepeatVisit] == "true"
}

// UpdateNotes replaces the operator notes.
// Notes remain mutable even after the stop reaches a terminal state.
func (s *Stop) UpdateNotes(notes string) {
	s.notes = notes
}

// SetMetadataValue sets a metadata entry.
// Metadata remains mutable even after the stop reaches a terminal state.
func (s *Stop) SetMetadataValue(key, value string) {
	s.metadata[key] = value
}

// AssignTask links a work order to the stop.
// Fails with *errs.InvalidStateError once the stop is terminal.
func (s *Stop) AssignTask(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}
	if s.status.IsTerminal() {
		return errs.NewInvalidStateError(fmt.Sprintf("stop %s", s.id), s.status.String())
	}

	s.taskID = &taskID
	return nil
}

// startTravel moves the stop from Pending to EnRoute.
func (s *Stop) startTravel() error {
	newStatus, err := s.status.StartTravel()
	if err != nil {
		return err
	}

	s.status = newStatus
	return nil
}

// arrive moves the stop from EnRoute to Arrived and stamps the actual arrival.
func (s *Stop) arrive(at time.Time) error {
	newStatus, err := s.status.Arrive()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.actualArrival = &at
	return nil
}

// depart moves the stop from Arrived to Departed and stamps the departure.
func (s *Stop) depart(at time.Time) error {
	newStatus, err := s.status.Depart()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.departedAt = &at
	return nil
}

// skip moves the stop to Skipped. The sequence slot is kept for the
// planned-order audit trail.
func (s *Stop) skip() error {
	newStatus, err := s.status.Skip()
	if err != nil {
		return err
	}

	s.status = newStatus
	return nil
}

// cancel moves the stop to Cancelled. The sequence slot is kept for the
// planned-order audit trail.
func (s *Stop) cancel() error {
	newStatus, err := s.status.Cancel()
	if err != nil {
		return err
	}

	s.status = newStatus
	return nil
}

// assignSequence rewrites the stop's position. Only the owning Route calls
// this; terminal stops keep their slot and must not be re-sequenced through
// the ordinary reorder paths.
func (s *Stop) assignSequence(sequence int) error {
	if s.status.IsTerminal() {
		return errs.NewInvalidStateError(fmt.Sprintf("stop %s", s.id), s.status.String())
	}
	return s.setSequence(sequence)
}

// renumberSequence rewrites the stop's position regardless of status.
// Used only when a pending stop removal closes a gap and every remaining
// stop has to shift to keep the sequence dense.
func (s *Stop) renumberSequence(sequence int) error {
	return s.setSequence(sequence)
}

// setEstimatedArrival replaces the planned arrival time. Open stops only.
func (s *Stop) setEstimatedArrival(at *time.Time) error {
	if s.status.IsTerminal() {
		return errs.NewInvalidStateError(fmt.Sprintf("stop %s", s.id), s.status.String())
	}

	s.estimatedArrival = cloneTime(at)
	return nil
}

// shiftEstimatedArrival moves the planned arrival by delta.
// Stops without an estimate are left untouched.
func (s *Stop) shiftEstimatedArrival(delta time.Duration) {
	if s.estimatedArrival == nil {
		return
	}
	shifted := s.estimatedArrival.Add(delta)
	s.estimatedArrival = &shifted
}

func (s *Stop) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Stop) setMachineID(machineID kernel.UUID) error {
	if err := machineID.Validate(); err != nil {
		return err
	}
	s.machineID = machineID
	return nil
}

func (s *Stop) setTaskID(taskID *kernel.UUID) error {
	if taskID == nil {
		return nil
	}
	if err := taskID.Validate(); err != nil {
		return err
	}
	id := *taskID
	s.taskID = &id
	return nil
}

func (s *Stop) setSequence(sequence int) error {
	if sequence < 1 {
		return ErrSequenceIsInvalid
	}
	s.sequence = sequence
	return nil
}

func (s *Stop) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	s.status = status
	return nil
}

func (s *Stop) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	loc := *location
	s.location = &loc
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}
