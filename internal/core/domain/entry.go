package domain

import (
	"errors"
	"time"
)

// PhotoType identifies the inspection angle a photo documents.
type PhotoType string

const (
	PhotoFrontLeft  PhotoType = "front_left"
	PhotoFrontRight PhotoType = "front_right"
	PhotoRearLeft   PhotoType = "rear_left"
	PhotoRearRight  PhotoType = "rear_right"
	PhotoOptional   PhotoType = "optional"
)

// RequiredPhotoSlots lists the four mandatory inspection angles in the fixed
// order uploads are performed. Every entry must carry exactly one photo per
// slot.
var RequiredPhotoSlots = []PhotoType{
	PhotoFrontLeft,
	PhotoFrontRight,
	PhotoRearLeft,
	PhotoRearRight,
}

var ErrMissingRequiredField = errors.New("vehicle and mileage are required")
var ErrMissingRequiredPhoto = errors.New("all four required photos must be provided")
var ErrInvalidPhotoFile = errors.New("photo file is empty or not an image")
var ErrStorageUnavailable = errors.New("photo storage unreachable")
var ErrPhotoPersistFailure = errors.New("failed to persist photo")
var ErrEntryNotFound = errors.New("entry not found")
var ErrPhotoNotFound = errors.New("photo not found")

// VehicleEntry is one vehicle-condition inspection record. Entries are
// immutable after creation; no workflow updates or deletes them.
type VehicleEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	VehicleID string    `json:"vehicle_id"`
	Mileage   int64     `json:"mileage"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Photo links a stored image to an entry and its inspection slot. ImageURL is
// a publicly resolvable reference into the object store.
type Photo struct {
	ID       string    `json:"id"`
	EntryID  string    `json:"entry_id"`
	ImageURL string    `json:"image_url"`
	Type     PhotoType `json:"photo_type"`
}

// IsRequiredSlot reports whether t is one of the four mandatory angles.
func IsRequiredSlot(t PhotoType) bool {
	for _, slot := range RequiredPhotoSlots {
		if slot == t {
			return true
		}
	}
	return false
}
