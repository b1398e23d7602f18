package ports

import (
	"context"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

// VehicleRepository defines persistence operations for fleet vehicles.
type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Vehicle, error)
	// List returns vehicles sorted by license plate. When activeOnly is set,
	// inactive vehicles are excluded (the driver-facing picker).
	List(ctx context.Context, activeOnly bool) ([]*domain.Vehicle, error)
}
