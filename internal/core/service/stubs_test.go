package service

import (
	"context"
	"sync"

	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubResourceRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Resource
	createErr error
	deleted   []string // "ownerID/kind" pairs removed via DeleteByOwner
}

func newStubResourceRepo() *stubResourceRepo {
	return &stubResourceRepo{byID: make(map[string]*domain.Resource)}
}

func cloneResource(r *domain.Resource) *domain.Resource {
	clone := *r
	return &clone
}

func (r *stubResourceRepo) seed(res *domain.Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[res.ID] = cloneResource(res)
}

func (r *stubResourceRepo) capacity(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].RoomCapacity
}

func (r *stubResourceRepo) Create(_ context.Context, res *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	// Mirrors the partial unique index on (owner_id, kind).
	for _, existing := range r.byID {
		if existing.OwnerID != "" && existing.OwnerID == res.OwnerID && existing.Kind == res.Kind {
			return domain.ErrAlreadyProvisioned
		}
	}
	r.byID[res.ID] = cloneResource(res)
	return nil
}

func (r *stubResourceRepo) FindByID(_ context.Context, id string) (*domain.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return cloneResource(res), nil
}

func (r *stubResourceRepo) FindByOwner(_ context.Context, ownerID string, kind domain.ResourceKind) (*domain.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.byID {
		if res.OwnerID == ownerID && res.Kind == kind {
			return cloneResource(res), nil
		}
	}
	return nil, domain.ErrResourceNotFound
}

func (r *stubResourceRepo) List(_ context.Context, f ports.ListResourcesFilter) ([]*domain.Resource, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Resource
	for _, res := range r.byID {
		if f.Kind != "" && string(res.Kind) != f.Kind {
			continue
		}
		if f.City != "" && res.City != f.City {
			continue
		}
		matched = append(matched, cloneResource(res))
	}

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Resource{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubResourceRepo) DeleteByOwner(_ context.Context, ownerID string, kind domain.ResourceKind) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, res := range r.byID {
		if res.OwnerID == ownerID && res.Kind == kind {
			delete(r.byID, id)
			r.deleted = append(r.deleted, ownerID+"/"+string(kind))
			return true, nil
		}
	}
	return false, nil
}

// DecrementCapacity mirrors the real Mongo conditional update: the check and
// the write happen under one lock, so concurrent holds cannot oversell.
func (r *stubResourceRepo) DecrementCapacity(_ context.Context, id string, n int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return domain.ErrResourceNotFound
	}
	if res.RoomCapacity < n {
		return domain.ErrInsufficientInventory
	}
	res.RoomCapacity -= n
	return nil
}

func (r *stubResourceRepo) IncrementCapacity(_ context.Context, id string, n int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return domain.ErrResourceNotFound
	}
	res.RoomCapacity += n
	if res.RoomCapacity > res.ConfiguredCapacity {
		res.RoomCapacity = res.ConfiguredCapacity
	}
	return nil
}

func (r *stubResourceRepo) ShiftConfiguredCapacity(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return domain.ErrResourceNotFound
	}
	if delta < 0 && res.RoomCapacity < -delta {
		return domain.ErrInsufficientInventory
	}
	res.ConfiguredCapacity += delta
	res.RoomCapacity += delta
	return nil
}

type stubBookingRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Booking
	createErr error
	updateErr error
	findErr   error
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{byID: make(map[string]*domain.Booking)}
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	clone := *b
	clone.StatusHistory = append([]domain.StatusHistoryEntry(nil), b.StatusHistory...)
	return &clone
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	// Mirrors the unique partial index on idempotency_key.
	if b.IdempotencyKey != "" {
		for _, existing := range r.byID {
			if existing.IdempotencyKey == b.IdempotencyKey {
				return domain.ErrIdempotencyConflict
			}
		}
	}
	r.byID[b.ID] = cloneBooking(b)
	return nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *stubBookingRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byID {
		if b.IdempotencyKey != "" && b.IdempotencyKey == key {
			return cloneBooking(b), nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

// Update mirrors the real Mongo write conditioned on status still pending.
func (r *stubBookingRepo) Update(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.byID[b.ID]
	if !ok || stored.Status != domain.StatusPending {
		return domain.ErrInvalidState
	}
	clone := cloneBooking(b)
	clone.Status = stored.Status
	clone.StatusHistory = append([]domain.StatusHistoryEntry(nil), stored.StatusHistory...)
	r.byID[b.ID] = clone
	return nil
}

// UpdateStatus mirrors the real Mongo conditional update on (_id, status).
func (r *stubBookingRepo) UpdateStatus(_ context.Context, id string, from, to domain.BookingStatus, entry domain.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if b.Status != from {
		return domain.ErrInvalidTransition
	}
	b.Status = to
	b.UpdatedAt = entry.Timestamp
	b.StatusHistory = append(b.StatusHistory, entry)
	return nil
}

func (r *stubBookingRepo) List(_ context.Context, f ports.ListBookingsFilter) ([]*domain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Booking
	for _, b := range r.byID {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.ResourceID != "" && b.ResourceID != f.ResourceID {
			continue
		}
		if f.Status != "" && string(b.Status) != f.Status {
			continue
		}
		if f.Kind != "" && string(b.Kind) != f.Kind {
			continue
		}
		matched = append(matched, cloneBooking(b))
	}

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Booking{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubBookingRepo) CountHolding(_ context.Context, resourceID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.byID {
		if b.ResourceID == resourceID && b.Status.HoldsInventory() {
			n++
		}
	}
	return n, nil
}

// interceptBookingRepo runs a hook once before the next Update, letting a
// test interleave a concurrent mutation between a service's read and its
// write.
type interceptBookingRepo struct {
	*stubBookingRepo
	beforeUpdate func()
}

func (r *interceptBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	if r.beforeUpdate != nil {
		hook := r.beforeUpdate
		r.beforeUpdate = nil
		hook()
	}
	return r.stubBookingRepo.Update(ctx, b)
}

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (p *stubPublisher) Enqueue(event domain.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *stubPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

type stubUserRepo struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	roles []string // roles passed to UpdateRole, in order
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "usr_" + user.Username
	}
	r.byID[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	r.roles = append(r.roles, role)
	return nil
}
