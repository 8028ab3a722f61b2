package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripline/travel-booking/internal/api/metrics"
	"github.com/tripline/travel-booking/internal/core/access"
	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

const maxPageLimit = 100

// BookingService orchestrates the booking lifecycle: creation, amendment, and
// status transitions. Hotel bookings hold room inventory through the ledger;
// a hold and the booking write either both take effect or the hold is
// compensated, so no partial mutation is observable.
type BookingService struct {
	bookings  ports.BookingRepository
	resources ports.ResourceRepository
	ledger    ports.InventoryLedger
	events    ports.EventPublisher
	log       zerolog.Logger
}

func NewBookingService(
	bookings ports.BookingRepository,
	resources ports.ResourceRepository,
	ledger ports.InventoryLedger,
	events ports.EventPublisher,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		resources: resources,
		ledger:    ledger,
		events:    events,
		log:       log,
	}
}

// Create validates the target resource, holds hotel inventory, derives the
// total, and persists the booking in pending. An Idempotency-Key that matched
// a previous create by the same caller replays that booking without side
// effects.
func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingResult, error) {
	if err := access.Authorize(in.Caller, access.ActionCreateBooking, access.Target{PurchaserID: in.Caller.ID}); err != nil {
		return nil, err
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	total, err := domain.ComputeTotal(in.BaseAmount, in.TaxRatePercent)
	if err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		existing, err := s.bookings.FindByIdempotencyKey(ctx, in.IdempotencyKey)
		if err == nil && existing != nil && existing.UserID == in.Caller.ID {
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("booking_id", existing.ID).Msg("idempotent replay")
			return &ports.BookingResult{
				ID:             existing.ID,
				Status:         string(existing.Status),
				TotalAmount:    existing.TotalAmount,
				CreatedAt:      existing.CreatedAt,
				AlreadyExisted: true,
			}, nil
		}
	}

	if in.Kind != domain.KindTour {
		resource, err := s.resources.FindByID(ctx, in.ResourceID)
		if err != nil {
			return nil, err
		}
		if resource.Kind != in.Kind {
			return nil, domain.ErrResourceNotFound
		}
	}

	held := false
	if in.Kind == domain.KindHotel {
		if err := s.ledger.Hold(ctx, in.ResourceID, in.RoomCount); err != nil {
			return nil, err
		}
		held = true
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		ID:             uuid.NewString(),
		Kind:           in.Kind,
		UserID:         in.Caller.ID,
		ResourceID:     in.ResourceID,
		TourID:         in.TourID,
		RoomCount:      in.RoomCount,
		BaseAmount:     in.BaseAmount,
		TaxRatePercent: in.TaxRatePercent,
		TotalAmount:    total,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		IdempotencyKey: in.IdempotencyKey,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.StatusPending, Timestamp: now, ActorID: in.Caller.ID},
		},
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if held {
			if relErr := s.ledger.Release(ctx, in.ResourceID, in.RoomCount); relErr != nil {
				s.log.Error().Err(relErr).Str("resource_id", in.ResourceID).Msg("compensating release failed")
			}
		}
		s.log.Error().Err(err).Msg("failed to create booking")
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(string(in.Kind)).Inc()
	s.events.Enqueue(domain.BookingEvent{
		BookingID: booking.ID,
		Action:    "created",
		Status:    domain.StatusPending,
		ActorID:   in.Caller.ID,
		Timestamp: now,
	})
	s.log.Info().Str("booking_id", booking.ID).Str("kind", string(in.Kind)).Str("user_id", in.Caller.ID).Msg("booking created")

	return &ports.BookingResult{
		ID:          booking.ID,
		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
		CreatedAt:   booking.CreatedAt,
	}, nil
}

func validateCreate(in ports.CreateBookingInput) error {
	switch in.Kind {
	case domain.KindHotel:
		if in.ResourceID == "" || in.RoomCount < 1 {
			return domain.ErrValidation
		}
	case domain.KindCab:
		if in.ResourceID == "" || in.RoomCount != 0 {
			return domain.ErrValidation
		}
	case domain.KindTour:
		if in.TourID == "" || in.ResourceID != "" || in.RoomCount != 0 {
			return domain.ErrValidation
		}
	default:
		return domain.ErrValidation
	}
	return nil
}

// Amend applies a partial update to a pending booking. Only the purchaser or
// an admin may amend, and only while pending. A room-count change adjusts the
// inventory ledger before the booking is persisted; the total is recomputed
// whenever base amount or tax rate change.
func (s *BookingService) Amend(ctx context.Context, in ports.AmendBookingInput) (*ports.BookingDetail, error) {
	if err := access.CanAttempt(in.Caller, access.ActionAmendBooking); err != nil {
		return nil, err
	}

	booking, err := s.bookings.FindByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(in.Caller, access.ActionAmendBooking, access.Target{PurchaserID: booking.UserID}); err != nil {
		return nil, err
	}
	if booking.Status != domain.StatusPending {
		return nil, domain.ErrInvalidState
	}

	if in.RoomCount != nil && booking.Kind != domain.KindHotel {
		return nil, domain.ErrValidation
	}
	if in.RoomCount != nil && *in.RoomCount < 1 {
		return nil, domain.ErrValidation
	}

	base := booking.BaseAmount
	if in.BaseAmount != nil {
		base = *in.BaseAmount
	}
	rate := booking.TaxRatePercent
	if in.TaxRatePercent != nil {
		rate = *in.TaxRatePercent
	}
	total, err := domain.ComputeTotal(base, rate)
	if err != nil {
		return nil, err
	}

	var delta int64
	if in.RoomCount != nil {
		delta = *in.RoomCount - booking.RoomCount
	}
	if delta != 0 {
		if err := s.ledger.Adjust(ctx, booking.ResourceID, delta); err != nil {
			return nil, err
		}
	}

	booking.BaseAmount = base
	booking.TaxRatePercent = rate
	booking.TotalAmount = total
	if in.RoomCount != nil {
		booking.RoomCount = *in.RoomCount
	}
	booking.UpdatedAt = time.Now().UTC()

	if err := s.bookings.Update(ctx, booking); err != nil {
		if delta != 0 {
			if adjErr := s.ledger.Adjust(ctx, booking.ResourceID, -delta); adjErr != nil {
				s.log.Error().Err(adjErr).Str("resource_id", booking.ResourceID).Msg("compensating adjust failed")
			}
		}
		s.log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to amend booking")
		return nil, err
	}

	s.events.Enqueue(domain.BookingEvent{
		BookingID: booking.ID,
		Action:    "amended",
		Status:    booking.Status,
		ActorID:   in.Caller.ID,
		Timestamp: booking.UpdatedAt,
	})
	s.log.Info().Str("booking_id", booking.ID).Msg("booking amended")

	return toBookingDetail(booking), nil
}

// SetStatus drives the state machine. Only the owner of the booked resource
// or an admin may transition a booking; tour bookings have no resource owner,
// so only admins advance them. Cancelling a hotel booking releases its held
// room-units.
func (s *BookingService) SetStatus(ctx context.Context, in ports.SetStatusInput) (*ports.BookingDetail, error) {
	if err := access.CanAttempt(in.Caller, access.ActionSetStatus); err != nil {
		return nil, err
	}

	next := domain.BookingStatus(in.NewStatus)
	if !next.IsKnown() {
		return nil, domain.ErrValidation
	}

	booking, err := s.bookings.FindByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.resourceOwner(ctx, booking)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(in.Caller, access.ActionSetStatus, access.Target{PurchaserID: booking.UserID, OwnerID: ownerID}); err != nil {
		return nil, err
	}

	from := booking.Status
	if !from.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, from, next)
	}

	now := time.Now().UTC()
	entry := domain.StatusHistoryEntry{Status: next, Timestamp: now, ActorID: in.Caller.ID}
	if err := s.bookings.UpdateStatus(ctx, booking.ID, from, next, entry); err != nil {
		return nil, err
	}

	if next == domain.StatusCancelled && booking.Kind == domain.KindHotel && from.HoldsInventory() {
		if err := s.ledger.Release(ctx, booking.ResourceID, booking.RoomCount); err != nil {
			// Revert so inventory and status stay consistent as one unit.
			revert := domain.StatusHistoryEntry{Status: from, Timestamp: time.Now().UTC(), ActorID: in.Caller.ID}
			if revErr := s.bookings.UpdateStatus(ctx, booking.ID, next, from, revert); revErr != nil {
				s.log.Error().Err(revErr).Str("booking_id", booking.ID).Msg("status revert failed after release error")
			}
			return nil, err
		}
	}

	booking.Status = next
	booking.UpdatedAt = now
	booking.StatusHistory = append(booking.StatusHistory, entry)

	metrics.BookingTransitionsTotal.WithLabelValues(string(from), string(next)).Inc()
	s.events.Enqueue(domain.BookingEvent{
		BookingID: booking.ID,
		Action:    string(next),
		Status:    next,
		ActorID:   in.Caller.ID,
		Timestamp: now,
	})
	s.log.Info().Str("booking_id", booking.ID).Str("from", string(from)).Str("to", string(next)).Msg("booking status changed")

	return toBookingDetail(booking), nil
}

// Get returns a single booking. Readable by its purchaser, the owner of the
// booked resource, and admins.
func (s *BookingService) Get(ctx context.Context, bookingID string, caller access.Caller) (*ports.BookingDetail, error) {
	if err := access.CanAttempt(caller, access.ActionReadBooking); err != nil {
		return nil, err
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.resourceOwner(ctx, booking)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(caller, access.ActionReadBooking, access.Target{PurchaserID: booking.UserID, OwnerID: ownerID}); err != nil {
		return nil, err
	}

	return toBookingDetail(booking), nil
}

// ListForUser returns a page of one purchaser's bookings. Non-admin callers
// may only list their own.
func (s *BookingService) ListForUser(ctx context.Context, in ports.ListBookingsInput) (*ports.ListBookingsResult, error) {
	userID := in.UserID
	if userID == "" {
		userID = in.Caller.ID
	}
	if err := access.Authorize(in.Caller, access.ActionListBookings, access.Target{PurchaserID: userID}); err != nil {
		return nil, err
	}
	return s.list(ctx, ports.ListBookingsFilter{
		UserID: userID,
		Status: in.Status,
		Kind:   in.Kind,
		Page:   in.Page,
		Limit:  in.Limit,
	})
}

// ListAll returns a page of all bookings. Admin only.
func (s *BookingService) ListAll(ctx context.Context, in ports.ListBookingsInput) (*ports.ListBookingsResult, error) {
	if err := access.Authorize(in.Caller, access.ActionListAll, access.Target{}); err != nil {
		return nil, err
	}
	return s.list(ctx, ports.ListBookingsFilter{
		UserID: in.UserID,
		Status: in.Status,
		Kind:   in.Kind,
		Page:   in.Page,
		Limit:  in.Limit,
	})
}

func (s *BookingService) list(ctx context.Context, filter ports.ListBookingsFilter) (*ports.ListBookingsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	details := make([]ports.BookingDetail, len(items))
	for i, b := range items {
		details[i] = *toBookingDetail(b)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListBookingsResult{
		Items:      details,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// resourceOwner resolves the owner of the booking's resource. Tour bookings
// have none; a resource deprovisioned after booking also yields no owner, in
// which case only admins pass the gate.
func (s *BookingService) resourceOwner(ctx context.Context, b *domain.Booking) (string, error) {
	if b.Kind == domain.KindTour || b.ResourceID == "" {
		return "", nil
	}
	resource, err := s.resources.FindByID(ctx, b.ResourceID)
	if err != nil {
		if err == domain.ErrResourceNotFound {
			return "", nil
		}
		return "", err
	}
	return resource.OwnerID, nil
}

func toBookingDetail(b *domain.Booking) *ports.BookingDetail {
	history := make([]ports.StatusHistoryItem, len(b.StatusHistory))
	for i, h := range b.StatusHistory {
		history[i] = ports.StatusHistoryItem{
			Status:    string(h.Status),
			Timestamp: h.Timestamp,
			ActorID:   h.ActorID,
		}
	}
	return &ports.BookingDetail{
		ID:             b.ID,
		Kind:           string(b.Kind),
		UserID:         b.UserID,
		ResourceID:     b.ResourceID,
		TourID:         b.TourID,
		RoomCount:      b.RoomCount,
		BaseAmount:     b.BaseAmount,
		TaxRatePercent: b.TaxRatePercent,
		TotalAmount:    b.TotalAmount,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		StatusHistory:  history,
	}
}
