package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tripline/travel-booking/internal/core/domain"
)

type stubAuditRepo struct {
	insertErr error
	inserted  []*domain.BookingEvent
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.BookingEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

type stubAuditDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []string
}

func (d *stubAuditDedup) IsDuplicate(_ context.Context, bookingID, action string, _ time.Time) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubAuditDedup) Mark(_ context.Context, bookingID, action string, _ time.Time) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, bookingID+":"+action)
	return nil
}

func sampleEvent() domain.BookingEvent {
	return domain.BookingEvent{
		BookingID: "bkg_1",
		Action:    "created",
		Status:    domain.StatusPending,
		ActorID:   "usr_1",
		Timestamp: time.Now().UTC(),
	}
}

func TestAuditService_Process_PersistsAndMarks(t *testing.T) {
	repo := &stubAuditRepo{}
	dedup := &stubAuditDedup{}
	svc := NewAuditService(repo, dedup, discardLogger)

	if err := svc.Process(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Errorf("expected 1 inserted event, got %d", len(repo.inserted))
	}
	if len(dedup.marked) != 1 || dedup.marked[0] != "bkg_1:created" {
		t.Errorf("expected dedup mark bkg_1:created, got %v", dedup.marked)
	}
}

func TestAuditService_Process_SkipsDuplicate(t *testing.T) {
	repo := &stubAuditRepo{}
	dedup := &stubAuditDedup{dupResult: true}
	svc := NewAuditService(repo, dedup, discardLogger)

	if err := svc.Process(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Errorf("duplicate must not be persisted, got %d inserts", len(repo.inserted))
	}
}

// A failing dedup store degrades to at-least-once processing rather than
// dropping the event.
func TestAuditService_Process_DedupErrorStillProcesses(t *testing.T) {
	repo := &stubAuditRepo{}
	dedup := &stubAuditDedup{dupErr: errors.New("redis down")}
	svc := NewAuditService(repo, dedup, discardLogger)

	if err := svc.Process(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Errorf("expected event persisted despite dedup failure, got %d", len(repo.inserted))
	}
}

func TestAuditService_Process_InsertError(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("db unavailable")}
	dedup := &stubAuditDedup{}
	svc := NewAuditService(repo, dedup, discardLogger)

	if err := svc.Process(context.Background(), sampleEvent()); err == nil {
		t.Fatal("expected error when insert fails")
	}
}

func TestAuditService_Process_MarkErrorStillPersists(t *testing.T) {
	repo := &stubAuditRepo{}
	dedup := &stubAuditDedup{markErr: errors.New("redis down")}
	svc := NewAuditService(repo, dedup, discardLogger)

	if err := svc.Process(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Errorf("expected event persisted despite mark failure, got %d", len(repo.inserted))
	}
}
