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

const collectionBookings = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

// Create inserts a new booking document. An Idempotency-Key already claimed
// by another booking trips the unique partial index and surfaces as
// domain.ErrIdempotencyConflict.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, b)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrIdempotencyConflict
	}
	return err
}

// FindByID retrieves a booking by its ID.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Booking
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByIdempotencyKey retrieves an existing booking created with the given key.
func (r *BookingRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Booking
	err := r.col.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Update persists the amendable fields of a booking. The write is
// conditional on the booking still being pending, so an amendment committed
// against a stale snapshot cannot overwrite a concurrent status transition.
// A zero match means the booking left pending (or never existed) and yields
// domain.ErrInvalidState; the caller compensates any inventory adjustment it
// already made.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"base_amount":      b.BaseAmount,
		"tax_rate_percent": b.TaxRatePercent,
		"total_amount":     b.TotalAmount,
		"room_count":       b.RoomCount,
		"updated_at":       b.UpdatedAt,
	}}

	filter := bson.M{"_id": b.ID, "status": string(domain.StatusPending)}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// UpdateStatus atomically moves a booking from the expected current status to
// the new one and appends a history entry. The status filter makes the
// transition conditional: when a concurrent transition already moved the
// booking out of the expected status, no document matches and
// domain.ErrInvalidTransition is returned.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, entry domain.StatusHistoryEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	historyEntry := bson.M{
		"status":    string(entry.Status),
		"timestamp": entry.Timestamp.UTC(),
	}
	if entry.ActorID != "" {
		historyEntry["actor_id"] = entry.ActorID
	}

	filter := bson.M{"_id": id, "status": string(from)}
	update := bson.M{
		"$set":  bson.M{"status": string(to), "updated_at": entry.Timestamp.UTC()},
		"$push": bson.M{"status_history": historyEntry},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// List returns a page of bookings matching filter and the total count,
// newest first.
func (r *BookingRepository) List(ctx context.Context, f ports.ListBookingsFilter) ([]*domain.Booking, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.ResourceID != "" {
		filter["resource_id"] = f.ResourceID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var bookings []*domain.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountHolding counts bookings against a resource in a room-holding status.
func (r *BookingRepository) CountHolding(ctx context.Context, resourceID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"resource_id": resourceID,
		"status":      bson.M{"$in": []string{string(domain.StatusPending), string(domain.StatusConfirmed)}},
	}
	return r.col.CountDocuments(ctx, filter)
}

// EnsureIndexes creates necessary indexes on the bookings collection.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "resource_id", Value: 1}, {Key: "status", Value: 1}}},
		{
			Keys: bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$type": "string"}}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
