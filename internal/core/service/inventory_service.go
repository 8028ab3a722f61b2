package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tripline/travel-booking/internal/api/metrics"
	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

// InventoryService is the resource inventory ledger. It keeps a hotel's
// sellable room-units consistent with outstanding holds by delegating every
// mutation to a single atomic conditional update in the repository, so a
// check can never be interleaved with a concurrent write on the same
// resource. Unrelated resources never contend.
type InventoryService struct {
	resources ports.ResourceRepository
	log       zerolog.Logger
}

func NewInventoryService(resources ports.ResourceRepository, log zerolog.Logger) *InventoryService {
	return &InventoryService{resources: resources, log: log}
}

// Hold decrements available room-units by roomCount. Fails with
// domain.ErrInsufficientInventory when fewer than roomCount remain.
func (s *InventoryService) Hold(ctx context.Context, resourceID string, roomCount int64) error {
	if roomCount <= 0 {
		return domain.ErrValidation
	}
	if err := s.resources.DecrementCapacity(ctx, resourceID, roomCount); err != nil {
		if err == domain.ErrInsufficientInventory {
			metrics.InventoryConflictsTotal.WithLabelValues("hold").Inc()
		}
		return err
	}
	metrics.InventoryOpsTotal.WithLabelValues("hold").Inc()
	s.log.Debug().Str("resource_id", resourceID).Int64("room_count", roomCount).Msg("inventory held")
	return nil
}

// Release returns roomCount room-units to the pool, capped at the resource's
// configured total.
func (s *InventoryService) Release(ctx context.Context, resourceID string, roomCount int64) error {
	if roomCount <= 0 {
		return domain.ErrValidation
	}
	if err := s.resources.IncrementCapacity(ctx, resourceID, roomCount); err != nil {
		return err
	}
	metrics.InventoryOpsTotal.WithLabelValues("release").Inc()
	s.log.Debug().Str("resource_id", resourceID).Int64("room_count", roomCount).Msg("inventory released")
	return nil
}

// Adjust applies a signed room-count change, used when a booking's room count
// is amended: positive delta holds that many more units, negative releases.
func (s *InventoryService) Adjust(ctx context.Context, resourceID string, delta int64) error {
	switch {
	case delta > 0:
		return s.Hold(ctx, resourceID, delta)
	case delta < 0:
		return s.Release(ctx, resourceID, -delta)
	}
	return nil
}
