package domain

import "errors"

// VehicleStatus marks whether a vehicle can be selected for new entries.
type VehicleStatus string

const (
	VehicleActive   VehicleStatus = "active"
	VehicleInactive VehicleStatus = "inactive"
)

var ErrVehicleNotFound = errors.New("vehicle not found")
var ErrVehicleHasEntries = errors.New("vehicle still referenced by entries")

// Vehicle is a fleet vehicle drivers log condition entries against.
type Vehicle struct {
	ID           string        `json:"id"`
	LicensePlate string        `json:"license_plate"`
	Model        string        `json:"model"`
	Status       VehicleStatus `json:"status"`
}
