package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

const (
	entriesCollection = "vehicle_entries"
	photosCollection  = "photos"
)

// EntryRepository implements ports.EntryRepository using MongoDB. Entries and
// photo metadata live in separate collections; the listing queries join them
// with $lookup stages.
type EntryRepository struct {
	entries *mongo.Collection
	photos  *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{
		entries: db.Collection(entriesCollection),
		photos:  db.Collection(photosCollection),
	}
}

type entryDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	VehicleID string    `bson:"vehicle_id"`
	Mileage   int64     `bson:"mileage"`
	Notes     string    `bson:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

type photoDoc struct {
	ID       string `bson:"_id"`
	EntryID  string `bson:"entry_id"`
	ImageURL string `bson:"image_url"`
	Type     string `bson:"photo_type"`
}

// entryRecordDoc is the shape produced by the listing pipeline after the
// driver, vehicle, and photo lookups.
type entryRecordDoc struct {
	entryDoc `bson:",inline"`
	Driver   userDoc    `bson:"driver"`
	Vehicle  vehicleDoc `bson:"vehicle"`
	Photos   []photoDoc `bson:"photos"`
}

func (r *EntryRepository) Create(ctx context.Context, e *domain.VehicleEntry) (*domain.VehicleEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := entryDoc{
		ID:        e.ID,
		UserID:    e.UserID,
		VehicleID: e.VehicleID,
		Mileage:   e.Mileage,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt.UTC(),
	}
	if _, err := r.entries.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	created := *e
	return &created, nil
}

func (r *EntryRepository) InsertPhotos(ctx context.Context, photos []domain.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]any, len(photos))
	for i, p := range photos {
		docs[i] = photoDoc{
			ID:       p.ID,
			EntryID:  p.EntryID,
			ImageURL: p.ImageURL,
			Type:     string(p.Type),
		}
	}
	if _, err := r.photos.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert photos: %w", err)
	}
	return nil
}

// Delete removes an entry row and any photo metadata already linked to it.
// Only the compensating path of a failed submission calls this.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.photos.DeleteMany(ctx, bson.M{"entry_id": id}); err != nil {
		return fmt.Errorf("delete entry photos: %w", err)
	}
	if _, err := r.entries.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// List runs the admin pipeline: match, join the driver (needed for driver
// name sorting), sort with the entry id as stable tiebreaker, paginate, then
// join vehicle and photos. The returned total counts the matched set before
// pagination.
func (r *EntryRepository) List(ctx context.Context, filter ports.EntryListFilter) ([]*ports.EntryRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := matchStage(filter)

	total, err := r.entries.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	skip := int64(filter.Page-1) * int64(filter.Limit)
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		lookupStage(usersCollection, "user_id", "driver"),
		unwindStage("driver"),
		bson.D{{Key: "$sort", Value: sortSpec(filter)}},
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: int64(filter.Limit)}},
		lookupStage(vehiclesCollection, "vehicle_id", "vehicle"),
		unwindStage("vehicle"),
		photoLookupStage(),
	}

	return r.runPipeline(ctx, pipeline, total)
}

// ListRecentByUser returns the user's newest entries with vehicle and photos
// joined, most recent first.
func (r *EntryRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*ports.EntryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user_id": userID}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
		lookupStage(usersCollection, "user_id", "driver"),
		unwindStage("driver"),
		lookupStage(vehiclesCollection, "vehicle_id", "vehicle"),
		unwindStage("vehicle"),
		photoLookupStage(),
	}

	records, _, err := r.runPipeline(ctx, pipeline, 0)
	return records, err
}

func (r *EntryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.entries.CountDocuments(ctx, bson.M{"user_id": userID})
}

func (r *EntryRepository) CountByVehicle(ctx context.Context, vehicleID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.entries.CountDocuments(ctx, bson.M{"vehicle_id": vehicleID})
}

// EnsureIndexes creates the query indexes for entries and photos.
func (r *EntryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.entries.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "vehicle_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = r.photos.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "entry_id", Value: 1}},
	})
	return err
}

func (r *EntryRepository) runPipeline(ctx context.Context, pipeline mongo.Pipeline, total int64) ([]*ports.EntryRecord, int64, error) {
	cur, err := r.entries.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate entries: %w", err)
	}
	defer cur.Close(ctx)

	var records []*ports.EntryRecord
	for cur.Next(ctx) {
		var doc entryRecordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode entry record: %w", err)
		}
		records = append(records, fromEntryRecordDoc(doc))
	}
	return records, total, cur.Err()
}

func matchStage(filter ports.EntryListFilter) bson.M {
	match := bson.M{}
	if len(filter.DriverIDs) > 0 {
		match["user_id"] = bson.M{"$in": filter.DriverIDs}
	}
	if len(filter.VehicleIDs) > 0 {
		match["vehicle_id"] = bson.M{"$in": filter.VehicleIDs}
	}

	created := bson.M{}
	if !filter.DateFrom.IsZero() {
		created["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		created["$lte"] = filter.DateTo
	}
	if len(created) > 0 {
		match["created_at"] = created
	}
	return match
}

func sortSpec(filter ports.EntryListFilter) bson.D {
	dir := -1
	if filter.SortAsc {
		dir = 1
	}

	var key string
	switch filter.SortField {
	case ports.SortByMileage:
		key = "mileage"
	case ports.SortByDriverName:
		key = "driver.first_name"
	default:
		key = "created_at"
	}

	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: 1}}
}

func lookupStage(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": "_id",
		"as":           as,
	}}}
}

func photoLookupStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         photosCollection,
		"localField":   "_id",
		"foreignField": "entry_id",
		"as":           "photos",
	}}}
}

func unwindStage(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.M{
		"path":                       "$" + path,
		"preserveNullAndEmptyArrays": true,
	}}}
}

func fromEntryRecordDoc(doc entryRecordDoc) *ports.EntryRecord {
	record := &ports.EntryRecord{
		Entry: domain.VehicleEntry{
			ID:        doc.ID,
			UserID:    doc.UserID,
			VehicleID: doc.VehicleID,
			Mileage:   doc.Mileage,
			Notes:     doc.Notes,
			CreatedAt: doc.CreatedAt.UTC(),
		},
		Driver:  fromUserDoc(doc.Driver),
		Vehicle: fromVehicleDoc(doc.Vehicle),
	}
	for _, p := range doc.Photos {
		record.Photos = append(record.Photos, domain.Photo{
			ID:       p.ID,
			EntryID:  p.EntryID,
			ImageURL: p.ImageURL,
			Type:     domain.PhotoType(p.Type),
		})
	}
	return record
}
