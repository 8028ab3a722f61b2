package ports

import (
	"context"

	"github.com/tripline/travel-booking/internal/core/domain"
)

// ListResourcesFilter carries query parameters for catalog listings.
type ListResourcesFilter struct {
	Kind  string // optional: hotel or cab
	City  string // optional: exact match
	Page  int    // 1-based
	Limit int
}

// ResourceRepository defines persistence operations for sellable resources.
// The capacity mutators are the atomic primitives the inventory ledger is
// built on: each is a single conditional update so concurrent bookings
// against the same resource cannot interleave a check with a write.
type ResourceRepository interface {
	Create(ctx context.Context, r *domain.Resource) error
	FindByID(ctx context.Context, id string) (*domain.Resource, error)
	// FindByOwner returns the resource of the given kind owned by ownerID,
	// or domain.ErrResourceNotFound.
	FindByOwner(ctx context.Context, ownerID string, kind domain.ResourceKind) (*domain.Resource, error)
	List(ctx context.Context, filter ListResourcesFilter) ([]*domain.Resource, int64, error)
	// DeleteByOwner removes the resource of the given kind owned by ownerID.
	// Reports whether a resource was removed.
	DeleteByOwner(ctx context.Context, ownerID string, kind domain.ResourceKind) (bool, error)

	// DecrementCapacity subtracts n room-units where room_capacity >= n.
	// A zero-match result surfaces as domain.ErrInsufficientInventory.
	DecrementCapacity(ctx context.Context, id string, n int64) error
	// IncrementCapacity adds n room-units, capped at configured_capacity.
	IncrementCapacity(ctx context.Context, id string, n int64) error
	// ShiftConfiguredCapacity changes the configured total by delta, moving
	// room_capacity by the same delta. Fails with
	// domain.ErrInsufficientInventory when it would drive availability
	// negative.
	ShiftConfiguredCapacity(ctx context.Context, id string, delta int64) error
}
