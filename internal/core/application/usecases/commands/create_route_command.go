package commands

import (
	"errors"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/pkg/guard"
)

var (
	ErrCreateRouteCommandIsNotConstructed = errors.New(
		"CreateRouteCommand must be created via NewCreateRouteCommand constructor",
	)
	ErrNameIsRequired        = errors.New("name is required")
	ErrPlannedDateIsRequired = errors.New("planned date is required")
)

// CreateRouteCommand represents a request to plan a new service route.
// Encapsulates all data needed to create an empty route assigned to an operator.
//
// Example:
//
//	cmd, err := NewCreateRouteCommand(orgID, operatorID, "Munich North refill",
//	    route.Refill, plannedDate, true)
//	if err != nil {
//	    return fmt.Errorf("invalid route data: %w", err)
//	}
//
//	handler := NewCreateRouteCommandHandler(uowFactory, operatorDirectory, 24*time.Hour)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create route: %w", err)
//	}
//	fmt.Printf("Created route with ID: %s", cmd.RouteID())
type CreateRouteCommand struct { //nolint:recvcheck //using for validation
	routeID        kernel.UUID
	organizationID kernel.UUID
	operatorID     kernel.UUID
	name           string
	routeType      route.RouteType
	plannedDate    time.Time
	autoOptimize   bool

	guard guard.ConstructorGuard
}

// NewCreateRouteCommand creates a command to plan a new route.
// Automatically generates a unique ID for the route.
// Validates that ids are set, the name is not empty, the route type is known,
// and the planned date is set.
func NewCreateRouteCommand(
	organizationID, operatorID kernel.UUID,
	name string,
	routeType route.RouteType,
	plannedDate time.Time,
	autoOptimize bool,
) (CreateRouteCommand, error) {
	command := CreateRouteCommand{
		autoOptimize: autoOptimize,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRouteID(kernel.NewUUID()),
		command.setOrganizationID(organizationID),
		command.setOperatorID(operatorID),
		command.setName(name),
		command.setRouteType(routeType),
		command.setPlannedDate(plannedDate),
	); err != nil {
		return CreateRouteCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateRouteCommandIsNotConstructed if validation fails.
func (c CreateRouteCommand) Validate() error {
	return c.guard.Validate(ErrCreateRouteCommandIsNotConstructed)
}

// RouteID returns the generated route ID from the command.
func (c CreateRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// OrganizationID returns the owning tenant's ID from the command.
func (c CreateRouteCommand) OrganizationID() kernel.UUID {
	return c.organizationID
}

// OperatorID returns the assigned operator's ID from the command.
func (c CreateRouteCommand) OperatorID() kernel.UUID {
	return c.operatorID
}

// Name returns the route name from the command.
func (c CreateRouteCommand) Name() string {
	return c.name
}

// RouteType returns the route type from the command.
func (c CreateRouteCommand) RouteType() route.RouteType {
	return c.routeType
}

// PlannedDate returns the planned date from the command.
func (c CreateRouteCommand) PlannedDate() time.Time {
	return c.plannedDate
}

// AutoOptimize returns whether the route re-optimizes on stop addition.
func (c CreateRouteCommand) AutoOptimize() bool {
	return c.autoOptimize
}

func (c *CreateRouteCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.routeID = id
	return nil
}

func (c *CreateRouteCommand) setOrganizationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.organizationID = id
	return nil
}

func (c *CreateRouteCommand) setOperatorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.operatorID = id
	return nil
}

func (c *CreateRouteCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateRouteCommand) setRouteType(routeType route.RouteType) error {
	if err := routeType.Validate(); err != nil {
		return err
	}

	c.routeType = routeType
	return nil
}

func (c *CreateRouteCommand) setPlannedDate(plannedDate time.Time) error {
	if plannedDate.IsZero() {
		return ErrPlannedDateIsRequired
	}

	c.plannedDate = plannedDate
	return nil
}
