package ports

import "context"

// InventoryLedger keeps a hotel's sellable room-units consistent with
// outstanding holds. Implementations must make each call a single atomic
// read-modify-write per resource.
type InventoryLedger interface {
	// Hold decrements the resource's available room-units by roomCount,
	// failing with domain.ErrInsufficientInventory when not enough remain.
	Hold(ctx context.Context, resourceID string, roomCount int64) error
	// Release returns roomCount room-units to the pool, capped at the
	// resource's configured total.
	Release(ctx context.Context, resourceID string, roomCount int64) error
	// Adjust applies a signed room-count change: positive delta holds,
	// negative releases, zero is a no-op.
	Adjust(ctx context.Context, resourceID string, delta int64) error
}
