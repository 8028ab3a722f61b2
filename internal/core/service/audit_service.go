package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripline/travel-booking/internal/api/metrics"
	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis) used by the audit
// pipeline.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, bookingID, action string, ts time.Time) (bool, error)
	Mark(ctx context.Context, bookingID, action string, ts time.Time) error
}

type auditService struct {
	repo  ports.AuditRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewAuditService returns an AuditService that deduplicates and persists
// booking lifecycle events. Failures here never propagate back to the
// operation that produced the event.
func NewAuditService(repo ports.AuditRepository, dedup DedupChecker, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single booking lifecycle event.
func (s *auditService) Process(ctx context.Context, event domain.BookingEvent) error {
	start := time.Now()

	isDup, err := s.dedup.IsDuplicate(ctx, event.BookingID, event.Action, event.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("booking_id", event.BookingID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.AuditDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("booking_id", event.BookingID).Str("action", event.Action).Msg("duplicate event skipped")
		return nil
	}
	metrics.AuditDedupTotal.WithLabelValues("miss").Inc()

	// Mark before writing so a retried delivery is not processed twice.
	if markErr := s.dedup.Mark(ctx, event.BookingID, event.Action, event.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("booking_id", event.BookingID).Msg("failed to set dedup key")
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditErrorsTotal.WithLabelValues("insert_failed").Inc()
		metrics.AuditProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("audit event: %w", err)
	}

	metrics.AuditEventsProcessedTotal.WithLabelValues(event.Action).Inc()
	metrics.AuditProcessingDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("booking_id", event.BookingID).
		Str("action", event.Action).
		Str("actor_id", event.ActorID).
		Msg("booking event audited")

	return nil
}
