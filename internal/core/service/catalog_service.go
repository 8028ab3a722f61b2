package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tripline/travel-booking/internal/core/access"
	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

// CatalogService exposes the browsable resource catalog and the owner-side
// capacity operation. Listings are readable by anonymous callers.
type CatalogService struct {
	resources ports.ResourceRepository
	ledger    ports.InventoryLedger
	log       zerolog.Logger
}

func NewCatalogService(resources ports.ResourceRepository, ledger ports.InventoryLedger, log zerolog.Logger) *CatalogService {
	return &CatalogService{resources: resources, ledger: ledger, log: log}
}

func (s *CatalogService) List(ctx context.Context, in ports.ListResourcesInput) (*ports.ListResourcesResult, error) {
	filter := ports.ListResourcesFilter{
		Kind:  in.Kind,
		City:  in.City,
		Page:  in.Page,
		Limit: in.Limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.resources.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	details := make([]ports.ResourceDetail, len(items))
	for i, r := range items {
		details[i] = toResourceDetail(r)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListResourcesResult{
		Items:      details,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *CatalogService) Get(ctx context.Context, resourceID string) (*ports.ResourceDetail, error) {
	resource, err := s.resources.FindByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	detail := toResourceDetail(resource)
	return &detail, nil
}

// SetCapacity changes a hotel's configured room total. The available pool
// shifts by the same delta in one atomic update, and the change is rejected
// when it would drive availability below zero.
func (s *CatalogService) SetCapacity(ctx context.Context, caller access.Caller, resourceID string, newCapacity int64) (*ports.ResourceDetail, error) {
	if err := access.CanAttempt(caller, access.ActionSetCapacity); err != nil {
		return nil, err
	}
	if newCapacity < 0 {
		return nil, domain.ErrValidation
	}

	resource, err := s.resources.FindByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource.Kind != domain.KindHotel {
		return nil, domain.ErrValidation
	}
	if err := access.Authorize(caller, access.ActionSetCapacity, access.Target{OwnerID: resource.OwnerID}); err != nil {
		return nil, err
	}

	delta := newCapacity - resource.ConfiguredCapacity
	if delta != 0 {
		if err := s.resources.ShiftConfiguredCapacity(ctx, resourceID, delta); err != nil {
			return nil, err
		}
	}

	updated, err := s.resources.FindByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("resource_id", resourceID).Int64("configured_capacity", newCapacity).Msg("resource capacity changed")

	detail := toResourceDetail(updated)
	return &detail, nil
}

func toResourceDetail(r *domain.Resource) ports.ResourceDetail {
	return ports.ResourceDetail{
		ID:                 r.ID,
		Kind:               string(r.Kind),
		Name:               r.Name,
		City:               r.City,
		OwnerID:            r.OwnerID,
		ConfiguredCapacity: r.ConfiguredCapacity,
		RoomCapacity:       r.RoomCapacity,
		CreatedAt:          r.CreatedAt,
	}
}
