package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

// VehicleService implements the vehicle picker and admin vehicle management.
type VehicleService struct {
	vehicles ports.VehicleRepository
	entries  ports.EntryRepository
	log      zerolog.Logger
}

func NewVehicleService(vehicles ports.VehicleRepository, entries ports.EntryRepository, log zerolog.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, entries: entries, log: log}
}

// ListForRole returns the picker list. Drivers only see active vehicles;
// admins see the full fleet.
func (s *VehicleService) ListForRole(ctx context.Context, role string) ([]*domain.Vehicle, error) {
	return s.vehicles.List(ctx, role != domain.RoleAdmin)
}

func (s *VehicleService) Create(ctx context.Context, input ports.VehicleInput) (*domain.Vehicle, error) {
	if input.LicensePlate == "" || input.Model == "" {
		return nil, domain.ErrMissingRequiredField
	}
	status := input.Status
	if status == "" {
		status = domain.VehicleActive
	}

	created, err := s.vehicles.Create(ctx, &domain.Vehicle{
		LicensePlate: input.LicensePlate,
		Model:        input.Model,
		Status:       status,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("vehicle_id", created.ID).Str("license_plate", created.LicensePlate).Msg("vehicle created")
	return created, nil
}

func (s *VehicleService) Update(ctx context.Context, id string, input ports.VehicleInput) (*domain.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.LicensePlate != "" {
		vehicle.LicensePlate = input.LicensePlate
	}
	if input.Model != "" {
		vehicle.Model = input.Model
	}
	if input.Status != "" {
		vehicle.Status = input.Status
	}

	updated, err := s.vehicles.Update(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("vehicle_id", id).Msg("vehicle updated")
	return updated, nil
}

// Delete refuses to remove a vehicle that entries still reference.
func (s *VehicleService) Delete(ctx context.Context, id string) error {
	n, err := s.entries.CountByVehicle(ctx, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if n > 0 {
		return domain.ErrVehicleHasEntries
	}

	if err := s.vehicles.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("vehicle_id", id).Msg("vehicle deleted")
	return nil
}
