package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

const collectionResources = "resources"

type ResourceRepository struct {
	col *mongo.Collection
}

func NewResourceRepository(db *mongo.Database) *ResourceRepository {
	return &ResourceRepository{col: db.Collection(collectionResources)}
}

// Create inserts a new resource document. A unique-index conflict on
// (owner_id, kind) surfaces as domain.ErrAlreadyProvisioned.
func (r *ResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, resource)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyProvisioned
		}
		return err
	}
	return nil
}

// FindByID retrieves a resource by its ID.
func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var resource domain.Resource
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, err
	}
	return &resource, nil
}

// FindByOwner retrieves the resource of the given kind owned by ownerID.
func (r *ResourceRepository) FindByOwner(ctx context.Context, ownerID string, kind domain.ResourceKind) (*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var resource domain.Resource
	err := r.col.FindOne(ctx, bson.M{"owner_id": ownerID, "kind": string(kind)}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, err
	}
	return &resource, nil
}

// List returns a page of catalog resources and the total count.
func (r *ResourceRepository) List(ctx context.Context, f ports.ListResourcesFilter) ([]*domain.Resource, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}
	if f.City != "" {
		filter["city"] = f.City
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var resources []*domain.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

// DeleteByOwner removes the resource of the given kind owned by ownerID.
func (r *ResourceRepository) DeleteByOwner(ctx context.Context, ownerID string, kind domain.ResourceKind) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"owner_id": ownerID, "kind": string(kind)})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DecrementCapacity is the check-and-decrement half of the inventory ledger:
// the capacity condition lives in the filter, so the check and the write are
// one atomic document update. Zero matches means either the resource is gone
// or fewer than n room-units remain.
func (r *ResourceRepository) DecrementCapacity(ctx context.Context, id string, n int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "room_capacity": bson.M{"$gte": n}}
	update := bson.M{
		"$inc": bson.M{"room_capacity": -n},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missReason(ctx, id, domain.ErrInsufficientInventory)
	}
	return nil
}

// IncrementCapacity returns n room-units to the pool. An aggregation-pipeline
// update caps the result at configured_capacity in the same atomic write.
func (r *ResourceRepository) IncrementCapacity(ctx context.Context, id string, n int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"room_capacity": bson.M{"$min": bson.A{
				"$configured_capacity",
				bson.M{"$add": bson.A{"$room_capacity", n}},
			}},
			"updated_at": time.Now().UTC(),
		}}},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

// ShiftConfiguredCapacity moves both the configured total and the available
// pool by delta. For a shrink, the filter requires enough free room-units so
// availability can never go negative.
func (r *ResourceRepository) ShiftConfiguredCapacity(ctx context.Context, id string, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["room_capacity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"configured_capacity": delta, "room_capacity": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missReason(ctx, id, domain.ErrInsufficientInventory)
	}
	return nil
}

// missReason disambiguates a zero-match conditional update: a missing
// document is not-found, anything else means the capacity condition failed.
func (r *ResourceRepository) missReason(ctx context.Context, id string, conditionErr error) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrResourceNotFound
	}
	return conditionErr
}

// EnsureIndexes creates necessary indexes on the resources collection. The
// partial unique index on (owner_id, kind) backs the at-most-one-resource-
// per-owner invariant at the storage layer.
func (r *ResourceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "kind", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"owner_id": bson.M{"$type": "string"}}),
		},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "city", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
