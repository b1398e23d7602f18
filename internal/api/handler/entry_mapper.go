package handler

import (
	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

// --- Service result → HTTP response ---

func toSubmitResponse(r *ports.SubmitEntryResult) submitEntryResponse {
	return submitEntryResponse{
		ID:        r.EntryID,
		CreatedAt: r.CreatedAt.UTC(),
		Photos:    toPhotoResponses(r.Photos),
	}
}

func toEntryResponse(rec *ports.EntryRecord) entryResponse {
	return entryResponse{
		ID:        rec.Entry.ID,
		Mileage:   rec.Entry.Mileage,
		Notes:     rec.Entry.Notes,
		CreatedAt: rec.Entry.CreatedAt.UTC(),
		Driver: entryDriverResponse{
			ID:        rec.Driver.ID,
			Username:  rec.Driver.Username,
			FirstName: rec.Driver.FirstName,
			LastName:  rec.Driver.LastName,
			Status:    string(rec.Driver.Status),
		},
		Vehicle: entryVehicleResponse{
			ID:           rec.Vehicle.ID,
			LicensePlate: rec.Vehicle.LicensePlate,
			Model:        rec.Vehicle.Model,
		},
		Photos: toPhotoResponses(rec.Photos),
	}
}

func toEntryResponses(recs []*ports.EntryRecord) []entryResponse {
	out := make([]entryResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toEntryResponse(rec))
	}
	return out
}

func toPhotoResponses(photos []domain.Photo) []photoResponse {
	out := make([]photoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, photoResponse{
			ID:       p.ID,
			Type:     string(p.Type),
			ImageURL: p.ImageURL,
		})
	}
	return out
}
