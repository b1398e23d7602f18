package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetlog/fleetlog-api/internal/api/metrics"
	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	historyLimit    = 5
)

// EntryService implements the submission workflow and the entry read views.
type EntryService struct {
	entries ports.EntryRepository
	store   ports.ObjectStore
	log     zerolog.Logger
}

func NewEntryService(entries ports.EntryRepository, store ports.ObjectStore, log zerolog.Logger) *EntryService {
	return &EntryService{entries: entries, store: store, log: log}
}

// Submit validates and persists one vehicle-condition submission.
//
// The commit is staged: every binary is uploaded to the object store first,
// then the entry document is inserted, then all photo metadata rows in one
// batch. A failure before the entry insert leaves no database rows; a failure
// in the metadata batch triggers a compensating delete of the entry and the
// uploaded objects, so no orphaned entry survives a partial failure.
func (s *EntryService) Submit(ctx context.Context, input ports.SubmitEntryInput) (*ports.SubmitEntryResult, error) {
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	if err := s.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, err)
	}

	entryID := uuid.NewString()
	now := time.Now().UTC()

	uploads := orderedUploads(input)
	photos := make([]domain.Photo, 0, len(uploads))
	var objectIDs []string

	for _, up := range uploads {
		key := objectKey(input.UserID, entryID, up)
		objectID, err := s.store.Upload(ctx, key, up.ContentType, up.Content)
		if err != nil {
			s.discardObjects(ctx, objectIDs)
			metrics.PhotoPersistFailures.WithLabelValues("upload").Inc()
			return nil, fmt.Errorf("%w: slot %s: %s", domain.ErrPhotoPersistFailure, up.Slot, err)
		}
		objectIDs = append(objectIDs, objectID)
		photos = append(photos, domain.Photo{
			ID:       uuid.NewString(),
			EntryID:  entryID,
			ImageURL: photoContentURL(objectID),
			Type:     up.Slot,
		})
	}

	entry := &domain.VehicleEntry{
		ID:        entryID,
		UserID:    input.UserID,
		VehicleID: input.VehicleID,
		Mileage:   input.Mileage,
		Notes:     input.Notes,
		CreatedAt: now,
	}
	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		s.discardObjects(ctx, objectIDs)
		return nil, fmt.Errorf("submit entry: %w", err)
	}

	if err := s.entries.InsertPhotos(ctx, photos); err != nil {
		// Compensate: the entry must not outlive its photo metadata.
		if delErr := s.entries.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("entry_id", created.ID).Msg("compensating entry delete failed")
		}
		s.discardObjects(ctx, objectIDs)
		metrics.PhotoPersistFailures.WithLabelValues("metadata").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrPhotoPersistFailure, err)
	}

	metrics.EntriesCreatedTotal.Inc()
	for _, p := range photos {
		metrics.PhotosUploadedTotal.WithLabelValues(string(p.Type)).Inc()
	}

	s.log.Info().
		Str("entry_id", created.ID).
		Str("user_id", input.UserID).
		Str("vehicle_id", input.VehicleID).
		Int("photos", len(photos)).
		Msg("entry submitted")

	return &ports.SubmitEntryResult{
		EntryID:   created.ID,
		CreatedAt: created.CreatedAt,
		Photos:    photos,
	}, nil
}

// ListAdmin runs the filtered, sorted, paginated admin query and applies the
// driver-status post-filter on the fetched page. Total reflects the count
// before the status filter; a page may return fewer rows than Limit even when
// Total suggests more. That mismatch is the committed behavior.
func (s *EntryService) ListAdmin(ctx context.Context, input ports.AdminListInput) (*ports.AdminListResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	sortField := input.SortField
	switch sortField {
	case ports.SortByCreatedAt, ports.SortByMileage, ports.SortByDriverName:
	default:
		sortField = ports.SortByCreatedAt
	}

	filter := ports.EntryListFilter{
		DriverIDs:  input.DriverIDs,
		VehicleIDs: input.VehicleIDs,
		SortField:  sortField,
		SortAsc:    input.SortAsc,
		Page:       page,
		Limit:      limit,
	}
	if !input.DateFrom.IsZero() {
		filter.DateFrom = dayStart(input.DateFrom)
	}
	if !input.DateTo.IsZero() {
		filter.DateTo = dayEnd(input.DateTo)
	}

	records, total, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	items := filterByDriverStatus(records, input.Statuses)

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.AdminListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// RecentForUser returns the driver's last five entries, newest first.
func (s *EntryService) RecentForUser(ctx context.Context, userID string) ([]*ports.EntryRecord, error) {
	records, err := s.entries.ListRecentByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("recent entries: %w", err)
	}
	return records, nil
}

func validateSubmission(input ports.SubmitEntryInput) error {
	if input.VehicleID == "" || input.Mileage < 0 {
		return domain.ErrMissingRequiredField
	}

	seen := make(map[domain.PhotoType]bool, len(domain.RequiredPhotoSlots))
	for _, up := range input.Required {
		if !domain.IsRequiredSlot(up.Slot) || seen[up.Slot] {
			return domain.ErrMissingRequiredPhoto
		}
		seen[up.Slot] = true
	}
	for _, slot := range domain.RequiredPhotoSlots {
		if !seen[slot] {
			return domain.ErrMissingRequiredPhoto
		}
	}

	for _, up := range input.Required {
		if err := validatePhotoFile(up); err != nil {
			return err
		}
	}
	for _, up := range input.Optional {
		if err := validatePhotoFile(up); err != nil {
			return err
		}
	}
	return nil
}

func validatePhotoFile(up ports.PhotoUpload) error {
	if up.Size <= 0 || !strings.HasPrefix(up.ContentType, "image/") {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPhotoFile, up.Filename)
	}
	return nil
}

// orderedUploads flattens the submission into upload order: the four required
// slots in their fixed order, then optional photos in submission order.
func orderedUploads(input ports.SubmitEntryInput) []ports.PhotoUpload {
	bySlot := make(map[domain.PhotoType]ports.PhotoUpload, len(input.Required))
	for _, up := range input.Required {
		bySlot[up.Slot] = up
	}

	ordered := make([]ports.PhotoUpload, 0, len(input.Required)+len(input.Optional))
	for _, slot := range domain.RequiredPhotoSlots {
		ordered = append(ordered, bySlot[slot])
	}
	for _, up := range input.Optional {
		up.Slot = domain.PhotoOptional
		ordered = append(ordered, up)
	}
	return ordered
}

// objectKey derives a globally unique storage key embedding the owner, the
// entry, the slot, and a nanosecond disambiguator.
func objectKey(userID, entryID string, up ports.PhotoUpload) string {
	ext := path.Ext(up.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s-%s-%s-%d%s", userID, entryID, up.Slot, time.Now().UnixNano(), ext)
}

func photoContentURL(objectID string) string {
	return "/v1/photos/" + objectID + "/content"
}

func (s *EntryService) discardObjects(ctx context.Context, objectIDs []string) {
	for _, id := range objectIDs {
		if err := s.store.Remove(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("object_id", id).Msg("failed to remove staged photo object")
		}
	}
}

func filterByDriverStatus(records []*ports.EntryRecord, statuses []domain.UserStatus) []*ports.EntryRecord {
	if len(statuses) == 0 {
		return records
	}
	allowed := make(map[domain.UserStatus]struct{}, len(statuses))
	for _, st := range statuses {
		allowed[st] = struct{}{}
	}
	items := make([]*ports.EntryRecord, 0, len(records))
	for _, r := range records {
		if _, ok := allowed[r.Driver.Status]; ok {
			items = append(items, r)
		}
	}
	return items
}

func dayStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

func dayEnd(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}
