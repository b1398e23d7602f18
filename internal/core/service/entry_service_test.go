package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubEntryRepo struct {
	entries map[string]*domain.VehicleEntry
	photos  []domain.Photo
	records []*ports.EntryRecord // pre-seeded rows served by List

	createCalls int
	deleteCalls []string

	createErr       error
	insertPhotosErr error
	deleteErr       error
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{entries: make(map[string]*domain.VehicleEntry)}
}

func (r *stubEntryRepo) Create(_ context.Context, e *domain.VehicleEntry) (*domain.VehicleEntry, error) {
	r.createCalls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *e
	r.entries[e.ID] = &clone
	return &clone, nil
}

func (r *stubEntryRepo) InsertPhotos(_ context.Context, photos []domain.Photo) error {
	if r.insertPhotosErr != nil {
		return r.insertPhotosErr
	}
	r.photos = append(r.photos, photos...)
	return nil
}

func (r *stubEntryRepo) Delete(_ context.Context, id string) error {
	r.deleteCalls = append(r.deleteCalls, id)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.entries, id)
	return nil
}

// List mirrors the real repository: filter, count, then paginate. The driver
// status predicate is deliberately absent here, matching production.
func (r *stubEntryRepo) List(_ context.Context, f ports.EntryListFilter) ([]*ports.EntryRecord, int64, error) {
	var matched []*ports.EntryRecord
	for _, rec := range r.records {
		if len(f.DriverIDs) > 0 && !contains(f.DriverIDs, rec.Driver.ID) {
			continue
		}
		if len(f.VehicleIDs) > 0 && !contains(f.VehicleIDs, rec.Vehicle.ID) {
			continue
		}
		if !f.DateFrom.IsZero() && rec.Entry.CreatedAt.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && rec.Entry.CreatedAt.After(f.DateTo) {
			continue
		}
		matched = append(matched, rec)
	}

	total := int64(len(matched))

	skip := (f.Page - 1) * f.Limit
	if skip >= len(matched) {
		return []*ports.EntryRecord{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubEntryRepo) ListRecentByUser(_ context.Context, userID string, limit int) ([]*ports.EntryRecord, error) {
	var out []*ports.EntryRecord
	for _, rec := range r.records {
		if rec.Driver.ID != userID {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubEntryRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubEntryRepo) CountByVehicle(_ context.Context, vehicleID string) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if e.VehicleID == vehicleID {
			n++
		}
	}
	return n, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// In-memory stub object store
// ---------------------------------------------------------------------------

type memObjectStore struct {
	objects map[string]string // object id -> key
	removed []string
	nextID  int

	pingErr     error
	failAtCall  int // 1-based upload call that fails; 0 = never
	uploadCalls int
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: make(map[string]string)}
}

func (s *memObjectStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	s.uploadCalls++
	if s.failAtCall > 0 && s.uploadCalls == s.failAtCall {
		return "", errors.New("stream reset")
	}
	s.nextID++
	id := fmt.Sprintf("obj-%d", s.nextID)
	s.objects[id] = key
	return id, nil
}

func (s *memObjectStore) Download(_ context.Context, id string) (io.ReadCloser, string, error) {
	if _, ok := s.objects[id]; !ok {
		return nil, "", domain.ErrPhotoNotFound
	}
	return io.NopCloser(strings.NewReader("bytes")), "image/jpeg", nil
}

func (s *memObjectStore) Remove(_ context.Context, id string) error {
	s.removed = append(s.removed, id)
	delete(s.objects, id)
	return nil
}

func (s *memObjectStore) Ping(_ context.Context) error {
	return s.pingErr
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func photoUpload(slot domain.PhotoType) ports.PhotoUpload {
	return ports.PhotoUpload{
		Slot:        slot,
		Filename:    string(slot) + ".jpg",
		ContentType: "image/jpeg",
		Size:        64,
		Content:     strings.NewReader("fake image bytes"),
	}
}

func validInput() ports.SubmitEntryInput {
	input := ports.SubmitEntryInput{
		UserID:    "driver-1",
		VehicleID: "vehicle-1",
		Mileage:   48212,
		Notes:     "scratch on rear bumper",
	}
	for _, slot := range domain.RequiredPhotoSlots {
		input.Required = append(input.Required, photoUpload(slot))
	}
	return input
}

func seedRecords(repo *stubEntryRepo, n int, inactiveEvery int) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		status := domain.UserActive
		if inactiveEvery > 0 && i%inactiveEvery == 0 {
			status = domain.UserInactive
		}
		repo.records = append(repo.records, &ports.EntryRecord{
			Entry: domain.VehicleEntry{
				ID:        fmt.Sprintf("entry-%d", i),
				UserID:    fmt.Sprintf("driver-%d", i),
				VehicleID: "vehicle-1",
				Mileage:   int64(1000 + i),
				CreatedAt: base.Add(time.Duration(i) * time.Hour),
			},
			Driver: domain.User{
				ID:        fmt.Sprintf("driver-%d", i),
				FirstName: "Ana",
				LastName:  fmt.Sprintf("Pop %d", i),
				Status:    status,
			},
			Vehicle: domain.Vehicle{ID: "vehicle-1", LicensePlate: "B-101-XYZ"},
		})
	}
}

// ---------------------------------------------------------------------------
// Submit: validation before persistence
// ---------------------------------------------------------------------------

func TestEntryService_Submit_MissingPhotoRejectedBeforePersistence(t *testing.T) {
	for _, missing := range domain.RequiredPhotoSlots {
		repo := newStubEntryRepo()
		store := newMemObjectStore()
		svc := NewEntryService(repo, store, discardLogger)

		input := ports.SubmitEntryInput{
			UserID:    "driver-1",
			VehicleID: "vehicle-1",
			Mileage:   100,
		}
		for _, slot := range domain.RequiredPhotoSlots {
			if slot == missing {
				continue
			}
			input.Required = append(input.Required, photoUpload(slot))
		}

		_, err := svc.Submit(context.Background(), input)
		if !errors.Is(err, domain.ErrMissingRequiredPhoto) {
			t.Fatalf("missing %s: expected ErrMissingRequiredPhoto, got %v", missing, err)
		}
		if repo.createCalls != 0 {
			t.Errorf("missing %s: entry must not be created", missing)
		}
		if store.uploadCalls != 0 {
			t.Errorf("missing %s: nothing must be uploaded", missing)
		}
	}
}

func TestEntryService_Submit_DuplicateSlotRejected(t *testing.T) {
	repo := newStubEntryRepo()
	store := newMemObjectStore()
	svc := NewEntryService(repo, store, discardLogger)

	input := validInput()
	input.Required[1] = photoUpload(domain.PhotoFrontLeft) // front_left twice, front_right missing

	_, err := svc.Submit(context.Background(), input)
	if !errors.Is(err, domain.ErrMissingRequiredPhoto) {
		t.Fatalf("expected ErrMissingRequiredPhoto, got %v", err)
	}
}

func TestEntryService_Submit_MissingVehicleRejected(t *testing.T) {
	repo := newStubEntryRepo()
	svc := NewEntryService(repo, newMemObjectStore(), discardLogger)

	input := validInput()
	input.VehicleID = ""

	if _, err := svc.Submit(context.Background(), input); !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Error("entry must not be created")
	}
}

func TestEntryService_Submit_NegativeMileageRejected(t *testing.T) {
	svc := NewEntryService(newStubEntryRepo(), newMemObjectStore(), discardLogger)

	input := validInput()
	input.Mileage = -1

	if _, err := svc.Submit(context.Background(), input); !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
}

func TestEntryService_Submit_NonImageFileRejected(t *testing.T) {
	repo := newStubEntryRepo()
	svc := NewEntryService(repo, newMemObjectStore(), discardLogger)

	input := validInput()
	input.Required[2].ContentType = "application/pdf"

	if _, err := svc.Submit(context.Background(), input); !errors.Is(err, domain.ErrInvalidPhotoFile) {
		t.Fatalf("expected ErrInvalidPhotoFile, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Error("entry must not be created")
	}
}

func TestEntryService_Submit_StorageDownRejectsBeforeAnyWrite(t *testing.T) {
	repo := newStubEntryRepo()
	store := newMemObjectStore()
	store.pingErr = errors.New("connection refused")
	svc := NewEntryService(repo, store, discardLogger)

	_, err := svc.Submit(context.Background(), validInput())
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if store.uploadCalls != 0 || repo.createCalls != 0 {
		t.Error("no writes may happen when storage is down")
	}
}

// ---------------------------------------------------------------------------
// Submit: success path
// ---------------------------------------------------------------------------

func TestEntryService_Submit_Success(t *testing.T) {
	repo := newStubEntryRepo()
	store := newMemObjectStore()
	svc := NewEntryService(repo, store, discardLogger)

	input := validInput()
	input.Optional = append(input.Optional,
		photoUpload(domain.PhotoOptional),
		photoUpload(domain.PhotoOptional),
	)

	result, err := svc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.entries) != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", len(repo.entries))
	}
	if len(repo.photos) != 6 {
		t.Fatalf("expected 4 required + 2 optional photos, got %d", len(repo.photos))
	}
	if result.EntryID == "" || result.CreatedAt.IsZero() {
		t.Error("result must carry the entry id and timestamp")
	}

	stored := repo.entries[result.EntryID]
	if stored.Mileage != 48212 {
		t.Errorf("mileage round-trip failed: got %d", stored.Mileage)
	}
	if stored.Notes != "scratch on rear bumper" {
		t.Errorf("notes round-trip failed: got %q", stored.Notes)
	}

	slots := make(map[domain.PhotoType]int)
	for _, p := range repo.photos {
		slots[p.Type]++
		if p.EntryID != result.EntryID {
			t.Errorf("photo %s not linked to entry", p.ID)
		}
		if !strings.HasPrefix(p.ImageURL, "/v1/photos/") {
			t.Errorf("photo url not resolvable: %s", p.ImageURL)
		}
	}
	for _, slot := range domain.RequiredPhotoSlots {
		if slots[slot] != 1 {
			t.Errorf("expected exactly 1 %s photo, got %d", slot, slots[slot])
		}
	}
	if slots[domain.PhotoOptional] != 2 {
		t.Errorf("expected 2 optional photos, got %d", slots[domain.PhotoOptional])
	}
}

func TestEntryService_Submit_NotIdempotent(t *testing.T) {
	repo := newStubEntryRepo()
	store := newMemObjectStore()
	svc := NewEntryService(repo, store, discardLogger)

	first, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	second, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	if first.EntryID == second.EntryID {
		t.Error("each submission must create a distinct entry")
	}
	if len(repo.entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(repo.entries))
	}
	if len(repo.photos) != 8 {
		t.Errorf("expected 8 photo rows, got %d", len(repo.photos))
	}
}

// ---------------------------------------------------------------------------
// Submit: staged-commit failure handling
// ---------------------------------------------------------------------------

func TestEntryService_Submit_UploadFailureDiscardsStagedObjects(t *testing.T) {
	repo := newStubEntryRepo()
	store := newMemObjectStore()
	store.failAtCall = 3
	svc := NewEntryService(repo, store, discardLogger)

	_, err := svc.Submit(context.Background(), validInput())
	if !errors.Is(err, domain.ErrPhotoPersistFailure) {
		t.Fatalf("expected ErrPhotoPersistFailure, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Error("entry must not be created after an upload failure")
	}
	if len(store.objects) != 0 {
		t.Errorf("staged objects must be discarded, %d left", len(store.objects))
	}
	if len(store.removed) != 2 {
		t.Errorf("expected the 2 uploaded objects removed, got %d", len(store.removed))
	}
}

func TestEntryService_Submit_MetadataFailureCompensatesEntry(t *testing.T) {
	repo := newStubEntryRepo()
	repo.insertPhotosErr = errors.New("write conflict")
	store := newMemObjectStore()
	svc := NewEntryService(repo, store, discardLogger)

	_, err := svc.Submit(context.Background(), validInput())
	if !errors.Is(err, domain.ErrPhotoPersistFailure) {
		t.Fatalf("expected ErrPhotoPersistFailure, got %v", err)
	}

	if len(repo.deleteCalls) != 1 {
		t.Fatalf("expected 1 compensating delete, got %d", len(repo.deleteCalls))
	}
	if len(repo.entries) != 0 {
		t.Error("the entry must not outlive the failed photo batch")
	}
	if len(repo.photos) != 0 {
		t.Error("no photo rows may survive")
	}
	if len(store.objects) != 0 {
		t.Errorf("uploaded objects must be discarded, %d left", len(store.objects))
	}
}

func TestEntryService_Submit_CreateFailureDiscardsUploads(t *testing.T) {
	repo := newStubEntryRepo()
	repo.createErr = errors.New("db unavailable")
	store := newMemObjectStore()
	svc := NewEntryService(repo, store, discardLogger)

	_, err := svc.Submit(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected error when entry insert fails")
	}
	if len(store.objects) != 0 {
		t.Errorf("uploaded objects must be discarded, %d left", len(store.objects))
	}
}

// ---------------------------------------------------------------------------
// ListAdmin: pagination
// ---------------------------------------------------------------------------

func TestEntryService_ListAdmin_PaginationBoundary(t *testing.T) {
	repo := newStubEntryRepo()
	seedRecords(repo, 20, 0) // exactly one full default page, all drivers active
	svc := NewEntryService(repo, newMemObjectStore(), discardLogger)

	page1, err := svc.ListAdmin(context.Background(), ports.AdminListInput{Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page1.Items) != 20 {
		t.Errorf("expected all 20 rows on page 1, got %d", len(page1.Items))
	}
	if page1.Total != 20 {
		t.Errorf("expected total 20, got %d", page1.Total)
	}
	if page1.TotalPages != 1 {
		t.Errorf("expected 1 total page, got %d", page1.TotalPages)
	}
	if page1.Limit != 20 {
		t.Errorf("expected default limit 20, got %d", page1.Limit)
	}

	page2, err := svc.ListAdmin(context.Background(), ports.AdminListInput{Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page2.Items) != 0 {
		t.Errorf("expected empty page 2, got %d rows", len(page2.Items))
	}
}

func TestEntryService_ListAdmin_LimitClamped(t *testing.T) {
	repo := newStubEntryRepo()
	seedRecords(repo, 5, 0)
	svc := NewEntryService(repo, newMemObjectStore(), discardLogger)

	result, err := svc.ListAdmin(context.Background(), ports.AdminListInput{Limit: 5000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Limit != 100 {
		t.Errorf("expected limit clamped to 100, got %d", result.Limit)
	}
}

// ---------------------------------------------------------------------------
// ListAdmin: driver-status post-filter
// ---------------------------------------------------------------------------

// The status predicate runs after the page is fetched, so a filtered page can
// hold fewer rows than Total implies. That mismatch is the committed behavior
// and must not be "fixed" by moving the predicate into the query.
func TestEntryService_ListAdmin_StatusFilterShrinksPageNotTotal(t *testing.T) {
	repo := newStubEntryRepo()
	seedRecords(repo, 20, 4) // every 4th driver inactive: 5 of 20
	svc := NewEntryService(repo, newMemObjectStore(), discardLogger)

	result, err := svc.ListAdmin(context.Background(), ports.AdminListInput{
		Page:     1,
		Limit:    20,
		Statuses: []domain.UserStatus{domain.UserActive},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Items) != 15 {
		t.Errorf("expected 15 rows after the status filter, got %d", len(result.Items))
	}
	if result.Total != 20 {
		t.Errorf("total must count the set before the status filter: got %d", result.Total)
	}
	if result.TotalPages != 1 {
		t.Errorf("expected 1 total page, got %d", result.TotalPages)
	}
	for _, rec := range result.Items {
		if rec.Driver.Status != domain.UserActive {
			t.Errorf("inactive driver leaked through: %s", rec.Driver.ID)
		}
	}
}

func TestEntryService_ListAdmin_EmptyStatusSetDisablesFilter(t *testing.T) {
	repo := newStubEntryRepo()
	seedRecords(repo, 10, 2)
	svc := NewEntryService(repo, newMemObjectStore(), discardLogger)

	result, err := svc.ListAdmin(context.Background(), ports.AdminListInput{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 10 {
		t.Errorf("no statuses given: expected all 10 rows, got %d", len(result.Items))
	}
}

// ---------------------------------------------------------------------------
// Recent history
// ---------------------------------------------------------------------------

func TestEntryService_RecentForUser_CapsAtFive(t *testing.T) {
	repo := newStubEntryRepo()
	for i := 0; i < 8; i++ {
		repo.records = append(repo.records, &ports.EntryRecord{
			Entry:  domain.VehicleEntry{ID: fmt.Sprintf("entry-%d", i), UserID: "driver-1"},
			Driver: domain.User{ID: "driver-1", Status: domain.UserActive},
		})
	}
	svc := NewEntryService(repo, newMemObjectStore(), discardLogger)

	records, err := svc.RecentForUser(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("expected history capped at 5, got %d", len(records))
	}
}
