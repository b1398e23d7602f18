package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Submission ---

type submitEntryResponse struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Photos    []photoResponse `json:"photos"`
}

// --- Listing / history ---

// Response-only types owned by the transport layer. They are deliberately
// separate from ports/domain types so the JSON contract is not coupled to
// internal service changes.

type photoResponse struct {
	ID       string `json:"id"`
	Type     string `json:"photo_type"`
	ImageURL string `json:"image_url"`
}

type entryDriverResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status"`
}

type entryVehicleResponse struct {
	ID           string `json:"id"`
	LicensePlate string `json:"license_plate"`
	Model        string `json:"model"`
}

type entryResponse struct {
	ID        string               `json:"id"`
	Mileage   int64                `json:"mileage"`
	Notes     string               `json:"notes,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	Driver    entryDriverResponse  `json:"driver"`
	Vehicle   entryVehicleResponse `json:"vehicle"`
	Photos    []photoResponse      `json:"photos"`
}

type entryListResponse struct {
	Items      []entryResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type recentEntriesResponse struct {
	Items []entryResponse `json:"items"`
}
