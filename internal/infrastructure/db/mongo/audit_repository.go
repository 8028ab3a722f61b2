package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

const collectionBookingEvents = "booking_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// InsertEvent persists a booking lifecycle event to the booking_events audit
// collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.BookingEvent) error {
	doc := bson.M{
		"booking_id":   event.BookingID,
		"action":       event.Action,
		"status":       string(event.Status),
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.ActorID != "" {
		doc["actor_id"] = event.ActorID
	}

	_, err := r.db.Collection(collectionBookingEvents).InsertOne(ctx, doc)
	return err
}
