package ports

import (
	"context"
	"time"

	"github.com/tripline/travel-booking/internal/core/access"
	"github.com/tripline/travel-booking/internal/core/domain"
)

// CreateBookingInput carries all data needed to create a new booking.
// BaseAmount is in minor currency units. TotalAmount is never an input.
type CreateBookingInput struct {
	Caller         access.Caller
	Kind           domain.ResourceKind
	ResourceID     string // hotel and cab bookings
	TourID         string // tour bookings
	RoomCount      int64  // hotel bookings, >= 1
	BaseAmount     int64
	TaxRatePercent float64
	IdempotencyKey string
}

// AmendBookingInput carries a partial update to a pending booking.
// Nil fields are left unchanged.
type AmendBookingInput struct {
	BookingID      string
	Caller         access.Caller
	BaseAmount     *int64
	TaxRatePercent *float64
	RoomCount      *int64
}

// SetStatusInput drives the booking state machine.
type SetStatusInput struct {
	BookingID string
	Caller    access.Caller
	NewStatus string
}

// BookingResult is returned after creating a booking.
type BookingResult struct {
	ID          string
	Status      string
	TotalAmount int64
	CreatedAt   time.Time
	// AlreadyExisted is true when the Idempotency-Key matched an existing booking.
	AlreadyExisted bool
}

// StatusHistoryItem is a single entry in the booking's status history.
type StatusHistoryItem struct {
	Status    string
	Timestamp time.Time
	ActorID   string
}

// BookingDetail is the full booking view returned by Get.
type BookingDetail struct {
	ID             string
	Kind           string
	UserID         string
	ResourceID     string
	TourID         string
	RoomCount      int64
	BaseAmount     int64
	TaxRatePercent float64
	TotalAmount    int64
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	StatusHistory  []StatusHistoryItem
}

// ListBookingsInput carries all parameters for the list endpoints.
type ListBookingsInput struct {
	Caller access.Caller
	UserID string // purchaser whose bookings are requested
	Status string
	Kind   string
	Page   int
	Limit  int
}

// ListBookingsResult is returned by ListForUser and ListAll.
type ListBookingsResult struct {
	Items      []BookingDetail
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// BookingService defines the use-case operations of the booking lifecycle.
type BookingService interface {
	Create(ctx context.Context, input CreateBookingInput) (*BookingResult, error)
	Amend(ctx context.Context, input AmendBookingInput) (*BookingDetail, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*BookingDetail, error)
	Get(ctx context.Context, bookingID string, caller access.Caller) (*BookingDetail, error)
	ListForUser(ctx context.Context, input ListBookingsInput) (*ListBookingsResult, error)
	ListAll(ctx context.Context, input ListBookingsInput) (*ListBookingsResult, error)
}
