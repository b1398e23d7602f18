package ports

import (
	"context"
	"time"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

// Sortable fields for the admin entry listing.
const (
	SortByCreatedAt  = "created_at"
	SortByMileage    = "mileage"
	SortByDriverName = "driver_name"
)

// EntryListFilter carries all query parameters for the admin entry listing.
// Driver status is deliberately absent: per the committed design that
// predicate is applied after the page is fetched, not inside the query.
type EntryListFilter struct {
	DriverIDs  []string  // empty = all drivers
	VehicleIDs []string  // empty = all vehicles
	DateFrom   time.Time // zero = unbounded; inclusive lower bound
	DateTo     time.Time // zero = unbounded; inclusive upper bound
	SortField  string    // one of the SortBy constants
	SortAsc    bool
	Page       int // 1-based
	Limit      int // rows per page
}

// EntryRecord is an entry enriched with its owning driver, vehicle, and all
// photos, as rendered by the admin listing and the driver history.
type EntryRecord struct {
	Entry   domain.VehicleEntry
	Driver  domain.User
	Vehicle domain.Vehicle
	Photos  []domain.Photo
}

// EntryRepository defines persistence operations for vehicle entries and
// their photo metadata.
type EntryRepository interface {
	Create(ctx context.Context, e *domain.VehicleEntry) (*domain.VehicleEntry, error)
	// InsertPhotos persists all photo metadata rows of one submission in a
	// single batch.
	InsertPhotos(ctx context.Context, photos []domain.Photo) error
	// Delete removes an entry row; used only as the compensating step when
	// the photo metadata batch fails after the entry was created.
	Delete(ctx context.Context, id string) error

	// List returns one page of enriched entries matching filter, plus the
	// total count of the matched set before pagination.
	List(ctx context.Context, filter EntryListFilter) ([]*EntryRecord, int64, error)
	// ListRecentByUser returns the user's newest entries, most recent first.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]*EntryRecord, error)

	CountByUser(ctx context.Context, userID string) (int64, error)
	CountByVehicle(ctx context.Context, vehicleID string) (int64, error)
}
