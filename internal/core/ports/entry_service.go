package ports

import (
	"context"
	"io"
	"time"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

// PhotoUpload is one pending photo file of a submission.
type PhotoUpload struct {
	Slot        domain.PhotoType
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// SubmitEntryInput carries all data of one vehicle-condition submission.
// Required must hold exactly one upload per required slot; Optional may be
// empty and keeps submission order only.
type SubmitEntryInput struct {
	UserID    string
	VehicleID string
	Mileage   int64
	Notes     string
	Required  []PhotoUpload
	Optional  []PhotoUpload
}

// SubmitEntryResult reports a successful submission.
type SubmitEntryResult struct {
	EntryID   string
	CreatedAt time.Time
	Photos    []domain.Photo
}

// AdminListInput carries all parameters of the admin entry listing.
type AdminListInput struct {
	DriverIDs  []string
	VehicleIDs []string
	DateFrom   time.Time // date-only; zero = unbounded
	DateTo     time.Time // date-only; zero = unbounded
	Statuses   []domain.UserStatus
	SortField  string
	SortAsc    bool
	Page       int
	Limit      int
}

// AdminListResult is one page of the admin listing. Total counts the matched
// set before the driver-status post-filter, so len(Items) may be smaller than
// a full page even when Total suggests otherwise.
type AdminListResult struct {
	Items      []*EntryRecord
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// EntryService defines the submission workflow and the entry read views.
type EntryService interface {
	Submit(ctx context.Context, input SubmitEntryInput) (*SubmitEntryResult, error)
	ListAdmin(ctx context.Context, input AdminListInput) (*AdminListResult, error)
	RecentForUser(ctx context.Context, userID string) ([]*EntryRecord, error)
}
