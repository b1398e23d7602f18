package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

type stubVehicleRepo struct {
	vehicles map[string]*domain.Vehicle
	nextID   int
}

func newStubVehicleRepo() *stubVehicleRepo {
	return &stubVehicleRepo{vehicles: make(map[string]*domain.Vehicle)}
}

func (r *stubVehicleRepo) Create(_ context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	r.nextID++
	clone := *v
	clone.ID = fmt.Sprintf("vehicle-%d", r.nextID)
	r.vehicles[clone.ID] = &clone
	return &clone, nil
}

func (r *stubVehicleRepo) Update(_ context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	if _, ok := r.vehicles[v.ID]; !ok {
		return nil, domain.ErrVehicleNotFound
	}
	clone := *v
	r.vehicles[v.ID] = &clone
	return &clone, nil
}

func (r *stubVehicleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.vehicles[id]; !ok {
		return domain.ErrVehicleNotFound
	}
	delete(r.vehicles, id)
	return nil
}

func (r *stubVehicleRepo) FindByID(_ context.Context, id string) (*domain.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubVehicleRepo) List(_ context.Context, activeOnly bool) ([]*domain.Vehicle, error) {
	var out []*domain.Vehicle
	for _, v := range r.vehicles {
		if activeOnly && v.Status != domain.VehicleActive {
			continue
		}
		clone := *v
		out = append(out, &clone)
	}
	return out, nil
}

func seedVehicles(t *testing.T, svc *VehicleService) (active, inactive *domain.Vehicle) {
	t.Helper()
	active, err := svc.Create(context.Background(), ports.VehicleInput{
		LicensePlate: "B-101-XYZ",
		Model:        "Dacia Dokker",
	})
	if err != nil {
		t.Fatalf("seed active: %v", err)
	}
	inactive, err = svc.Create(context.Background(), ports.VehicleInput{
		LicensePlate: "B-202-ABC",
		Model:        "Ford Transit",
		Status:       domain.VehicleInactive,
	})
	if err != nil {
		t.Fatalf("seed inactive: %v", err)
	}
	return active, inactive
}

func TestVehicleService_Create_DefaultsToActive(t *testing.T) {
	svc := NewVehicleService(newStubVehicleRepo(), newStubEntryRepo(), discardLogger)

	created, err := svc.Create(context.Background(), ports.VehicleInput{
		LicensePlate: "B-101-XYZ",
		Model:        "Dacia Dokker",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.VehicleActive {
		t.Errorf("expected active, got %q", created.Status)
	}
	if created.ID == "" {
		t.Error("created vehicle must carry an id")
	}
}

func TestVehicleService_Create_MissingFieldsRejected(t *testing.T) {
	svc := NewVehicleService(newStubVehicleRepo(), newStubEntryRepo(), discardLogger)

	if _, err := svc.Create(context.Background(), ports.VehicleInput{Model: "Dacia"}); !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Fatalf("missing plate: expected ErrMissingRequiredField, got %v", err)
	}
}

func TestVehicleService_ListForRole_DriversSeeActiveOnly(t *testing.T) {
	svc := NewVehicleService(newStubVehicleRepo(), newStubEntryRepo(), discardLogger)
	active, _ := seedVehicles(t, svc)

	driverView, err := svc.ListForRole(context.Background(), domain.RoleDriver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(driverView) != 1 || driverView[0].ID != active.ID {
		t.Errorf("driver must only see the active vehicle, got %d", len(driverView))
	}

	adminView, err := svc.ListForRole(context.Background(), domain.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adminView) != 2 {
		t.Errorf("admin must see the whole fleet, got %d", len(adminView))
	}
}

func TestVehicleService_Update(t *testing.T) {
	svc := NewVehicleService(newStubVehicleRepo(), newStubEntryRepo(), discardLogger)
	active, _ := seedVehicles(t, svc)

	updated, err := svc.Update(context.Background(), active.ID, ports.VehicleInput{
		Status: domain.VehicleInactive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.VehicleInactive {
		t.Errorf("status not updated: %q", updated.Status)
	}
	if updated.LicensePlate != active.LicensePlate {
		t.Errorf("empty fields must keep their values, plate became %q", updated.LicensePlate)
	}
}

func TestVehicleService_Update_UnknownVehicle(t *testing.T) {
	svc := NewVehicleService(newStubVehicleRepo(), newStubEntryRepo(), discardLogger)

	_, err := svc.Update(context.Background(), "ghost", ports.VehicleInput{Model: "x"})
	if !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestVehicleService_Delete_BlockedWhileEntriesExist(t *testing.T) {
	vehicles := newStubVehicleRepo()
	entries := newStubEntryRepo()
	svc := NewVehicleService(vehicles, entries, discardLogger)
	active, _ := seedVehicles(t, svc)

	entries.entries["entry-1"] = &domain.VehicleEntry{ID: "entry-1", VehicleID: active.ID}

	if err := svc.Delete(context.Background(), active.ID); !errors.Is(err, domain.ErrVehicleHasEntries) {
		t.Fatalf("expected ErrVehicleHasEntries, got %v", err)
	}
	if _, err := vehicles.FindByID(context.Background(), active.ID); err != nil {
		t.Error("blocked delete must leave the vehicle in place")
	}
}

func TestVehicleService_Delete_RemovesUnreferencedVehicle(t *testing.T) {
	vehicles := newStubVehicleRepo()
	svc := NewVehicleService(vehicles, newStubEntryRepo(), discardLogger)
	active, _ := seedVehicles(t, svc)

	if err := svc.Delete(context.Background(), active.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := vehicles.FindByID(context.Background(), active.ID); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Error("vehicle must be gone")
	}
}
