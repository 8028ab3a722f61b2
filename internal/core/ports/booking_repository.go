package ports

import (
	"context"

	"github.com/tripline/travel-booking/internal/core/domain"
)

// ListBookingsFilter carries all query parameters for listing bookings.
// UserID is enforced by the service layer for non-admin callers.
type ListBookingsFilter struct {
	UserID     string // empty = no filter (admin); non-empty = scoped to purchaser
	ResourceID string // optional: bookings against one resource
	Status     string // optional: filter by booking status
	Kind       string // optional: hotel, cab, or tour
	Page       int    // 1-based
	Limit      int    // max rows per page (capped at 100 by service)
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error)
	// Update persists amendable fields (amounts, room count, derived total).
	// The write only applies while the booking is still pending; when a
	// concurrent transition moved it out of pending, it returns
	// domain.ErrInvalidState.
	Update(ctx context.Context, b *domain.Booking) error
	// UpdateStatus atomically moves the booking from the expected current
	// status to the new one and appends a history entry. When the booking is
	// no longer in the expected status (a concurrent transition won), it
	// returns domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, entry domain.StatusHistoryEntry) error
	// List returns a page of bookings matching filter and the total count.
	List(ctx context.Context, filter ListBookingsFilter) ([]*domain.Booking, int64, error)
	// CountHolding counts bookings against a resource in a room-holding status.
	CountHolding(ctx context.Context, resourceID string) (int64, error)
}
