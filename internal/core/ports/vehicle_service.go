package ports

import (
	"context"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

// VehicleInput carries the fields of the admin vehicle form.
type VehicleInput struct {
	LicensePlate string
	Model        string
	Status       domain.VehicleStatus
}

// VehicleService defines the vehicle picker and admin vehicle management.
type VehicleService interface {
	// ListForRole returns the picker list: drivers see active vehicles only.
	ListForRole(ctx context.Context, role string) ([]*domain.Vehicle, error)
	Create(ctx context.Context, input VehicleInput) (*domain.Vehicle, error)
	Update(ctx context.Context, id string, input VehicleInput) (*domain.Vehicle, error)
	// Delete fails with domain.ErrVehicleHasEntries while entries reference
	// the vehicle.
	Delete(ctx context.Context, id string) error
}
