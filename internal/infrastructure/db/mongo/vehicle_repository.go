package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

const vehiclesCollection = "vehicles"

// VehicleRepository implements ports.VehicleRepository using MongoDB.
type VehicleRepository struct {
	coll *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{coll: db.Collection(vehiclesCollection)}
}

type vehicleDoc struct {
	ID           string `bson:"_id"`
	LicensePlate string `bson:"license_plate"`
	Model        string `bson:"model"`
	Status       string `bson:"status"`
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := vehicleDoc{
		ID:           primitive.NewObjectID().Hex(),
		LicensePlate: v.LicensePlate,
		Model:        v.Model,
		Status:       string(v.Status),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}

	created := fromVehicleDoc(doc)
	return &created, nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := vehicleDoc{
		ID:           v.ID,
		LicensePlate: v.LicensePlate,
		Model:        v.Model,
		Status:       string(v.Status),
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": v.ID}, doc)
	if err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrVehicleNotFound
	}

	updated := fromVehicleDoc(doc)
	return &updated, nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func (r *VehicleRepository) FindByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc vehicleDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}

	vehicle := fromVehicleDoc(doc)
	return &vehicle, nil
}

func (r *VehicleRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if activeOnly {
		query["status"] = string(domain.VehicleActive)
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "license_plate", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer cur.Close(ctx)

	var vehicles []*domain.Vehicle
	for cur.Next(ctx) {
		var doc vehicleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode vehicle: %w", err)
		}
		vehicle := fromVehicleDoc(doc)
		vehicles = append(vehicles, &vehicle)
	}
	return vehicles, cur.Err()
}

func fromVehicleDoc(d vehicleDoc) domain.Vehicle {
	return domain.Vehicle{
		ID:           d.ID,
		LicensePlate: d.LicensePlate,
		Model:        d.Model,
		Status:       domain.VehicleStatus(d.Status),
	}
}
