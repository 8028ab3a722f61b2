package ports

import (
	"context"

	"github.com/tripline/travel-booking/internal/core/domain"
)

// AuditRepository persists booking lifecycle events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.BookingEvent) error
}

// AuditService processes booking lifecycle events asynchronously.
type AuditService interface {
	Process(ctx context.Context, event domain.BookingEvent) error
}

// EventPublisher is what the booking service uses to hand lifecycle events to
// the audit pipeline. Publishing must never block request handling beyond the
// dispatcher's buffer.
type EventPublisher interface {
	Enqueue(event domain.BookingEvent)
}
