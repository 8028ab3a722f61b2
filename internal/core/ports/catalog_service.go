package ports

import (
	"context"
	"time"

	"github.com/tripline/travel-booking/internal/core/access"
)

// ResourceDetail is the catalog view of a sellable resource.
type ResourceDetail struct {
	ID                 string
	Kind               string
	Name               string
	City               string
	OwnerID            string
	ConfiguredCapacity int64
	RoomCapacity       int64
	CreatedAt          time.Time
}

// ListResourcesInput carries catalog query parameters.
type ListResourcesInput struct {
	Kind  string
	City  string
	Page  int
	Limit int
}

// ListResourcesResult is returned by CatalogService.List.
type ListResourcesResult struct {
	Items      []ResourceDetail
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CatalogService exposes resource listings (anonymous-readable) and the
// owner-side capacity operation.
type CatalogService interface {
	List(ctx context.Context, input ListResourcesInput) (*ListResourcesResult, error)
	Get(ctx context.Context, resourceID string) (*ResourceDetail, error)
	// SetCapacity changes a hotel's configured room total; only the owner or
	// an admin may call it, and the available pool shifts by the same delta.
	SetCapacity(ctx context.Context, caller access.Caller, resourceID string, newCapacity int64) (*ResourceDetail, error)
}
