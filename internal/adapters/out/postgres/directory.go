package postgres

import (
	"context"
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MachineDTO mirrors the machines table owned by the fleet inventory service.
// The route planner only reads from it: identity, owning organization and the
// surveyed placement coordinates.
type MachineDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(255)"`
	Latitude       *float64
	Longitude      *float64
}

// TableName specifies the database table name for machine entities.
func (MachineDTO) TableName() string {
	return "machines"
}

// OperatorDTO mirrors the operators table owned by the staff service.
// StartLatitude/StartLongitude hold the depot or home base the operator
// departs from; they are optional.
type OperatorDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(255)"`
	StartLatitude  *float64
	StartLongitude *float64
}

// TableName specifies the database table name for operator entities.
func (OperatorDTO) TableName() string {
	return "operators"
}

// GormDirectory resolves machines and operators from the shared database.
// It implements both ports.MachineRegistry and ports.OperatorDirectory.
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a directory backed by the given database connection.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// GetMachine returns the machine with the given ID.
// Returns ObjectNotFoundError if no such machine exists; any other lookup
// failure is reported as DependencyUnavailableError.
func (d *GormDirectory) GetMachine(ctx context.Context, id kernel.UUID) (ports.Machine, error) {
	if err := id.Validate(); err != nil {
		return ports.Machine{}, err
	}

	var dto MachineDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Machine{}, errs.NewObjectNotFoundError("machine", id.String())
		}
		return ports.Machine{}, errs.NewDependencyUnavailableError("machine directory", err)
	}

	machineID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Machine{}, err
	}
	organizationID, err := kernel.UUIDFromBytes(dto.OrganizationID[:])
	if err != nil {
		return ports.Machine{}, err
	}

	location, err := optionalGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return ports.Machine{}, err
	}

	return ports.Machine{
		ID:             machineID,
		OrganizationID: organizationID,
		Name:           dto.Name,
		Location:       location,
	}, nil
}

// GetOperator returns the operator with the given ID.
// Returns ObjectNotFoundError if no such operator exists; any other lookup
// failure is reported as DependencyUnavailableError.
func (d *GormDirectory) GetOperator(ctx context.Context, id kernel.UUID) (ports.Operator, error) {
	if err := id.Validate(); err != nil {
		return ports.Operator{}, err
	}

	var dto OperatorDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Operator{}, errs.NewObjectNotFoundError("operator", id.String())
		}
		return ports.Operator{}, errs.NewDependencyUnavailableError("operator directory", err)
	}

	operatorID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Operator{}, err
	}
	organizationID, err := kernel.UUIDFromBytes(dto.OrganizationID[:])
	if err != nil {
		return ports.Operator{}, err
	}

	startLocation, err := optionalGeoPoint(dto.StartLatitude, dto.StartLongitude)
	if err != nil {
		return ports.Operator{}, err
	}

	return ports.Operator{
		ID:             operatorID,
		OrganizationID: organizationID,
		Name:           dto.Name,
		StartLocation:  startLocation,
	}, nil
}

func optionalGeoPoint(latitude, longitude *float64) (*kernel.GeoPoint, error) {
	if latitude == nil || longitude == nil {
		return nil, nil //nolint:nilnil //absence of coordinates is a valid state
	}
	point, err := kernel.NewGeoPoint(*latitude, *longitude)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
