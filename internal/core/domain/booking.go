package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Completed and Cancelled are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

var (
	ErrValidation            = errors.New("invalid input")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrResourceNotFound      = errors.New("resource not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrInvalidState          = errors.New("booking not in an amendable state")
	ErrForbidden             = errors.New("access forbidden")
	ErrAlreadyProvisioned    = errors.New("resource already provisioned")
	ErrIdempotencyConflict   = errors.New("idempotency key already used")
)

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsKnown reports whether the status is one of the defined lifecycle states.
func (s BookingStatus) IsKnown() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// HoldsInventory reports whether a hotel booking in this status holds room-units.
func (s BookingStatus) HoldsInventory() bool {
	return s == StatusPending || s == StatusConfirmed
}

// StatusHistoryEntry records a single status transition on a booking.
type StatusHistoryEntry struct {
	Status    BookingStatus `json:"status" bson:"status"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	ActorID   string        `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
}

// Booking is the core aggregate root. Amounts are stored in minor currency
// units; TotalAmount is always derived, never caller-supplied.
type Booking struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	Kind           ResourceKind  `json:"kind" bson:"kind"`
	UserID         string        `json:"user_id" bson:"user_id"`
	ResourceID     string        `json:"resource_id,omitempty" bson:"resource_id,omitempty"`
	TourID         string        `json:"tour_id,omitempty" bson:"tour_id,omitempty"`
	RoomCount      int64         `json:"room_count,omitempty" bson:"room_count,omitempty"`
	BaseAmount     int64         `json:"base_amount" bson:"base_amount"`
	TaxRatePercent float64       `json:"tax_rate_percent" bson:"tax_rate_percent"`
	TotalAmount    int64         `json:"total_amount" bson:"total_amount"`
	Status         BookingStatus `json:"status" bson:"status"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
	IdempotencyKey string        `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`

	StatusHistory []StatusHistoryEntry `json:"status_history" bson:"status_history"`
}

// BookingEvent is a lifecycle change published to the audit trail.
type BookingEvent struct {
	BookingID string
	Action    string // "created", "amended", or the new status on transitions
	Status    BookingStatus
	ActorID   string
	Timestamp time.Time
}
