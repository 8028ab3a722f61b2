package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tripline/travel-booking/internal/core/access"
	"github.com/tripline/travel-booking/internal/core/domain"
)

type roleFixture struct {
	users     *stubUserRepo
	resources *stubResourceRepo
	bookings  *stubBookingRepo
	svc       *RoleService
}

func newRoleFixture() *roleFixture {
	users := newStubUserRepo()
	resources := newStubResourceRepo()
	bookings := newStubBookingRepo()
	return &roleFixture{
		users:     users,
		resources: resources,
		bookings:  bookings,
		svc:       NewRoleService(users, resources, bookings, discardLogger),
	}
}

func (f *roleFixture) seedUser(id, role string) {
	f.users.seed(&domain.User{ID: id, Username: id, Role: role})
}

// ownedKinds returns the kinds of resources currently owned by userID.
func (f *roleFixture) ownedKinds(userID string) []domain.ResourceKind {
	var kinds []domain.ResourceKind
	for _, kind := range []domain.ResourceKind{domain.KindHotel, domain.KindCab} {
		if _, err := f.resources.FindByOwner(context.Background(), userID, kind); err == nil {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func TestRoleService_PromoteToHotel_ProvisionsOneResource(t *testing.T) {
	f := newRoleFixture()
	f.seedUser("usr_1", domain.RoleUser)

	user, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleHotel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleHotel {
		t.Errorf("expected role hotel, got %q", user.Role)
	}
	if kinds := f.ownedKinds("usr_1"); len(kinds) != 1 || kinds[0] != domain.KindHotel {
		t.Errorf("expected exactly one hotel resource, got %v", kinds)
	}
}

func TestRoleService_SetRole_Idempotent(t *testing.T) {
	f := newRoleFixture()
	f.seedUser("usr_1", domain.RoleUser)

	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleHotel); err != nil {
		t.Fatalf("first SetRole failed: %v", err)
	}
	firstKinds := f.ownedKinds("usr_1")

	// Repeating the same role must not error or provision a second resource.
	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleHotel); err != nil {
		t.Fatalf("repeated SetRole failed: %v", err)
	}
	if kinds := f.ownedKinds("usr_1"); len(kinds) != len(firstKinds) {
		t.Errorf("repeated SetRole changed ownership: %v -> %v", firstKinds, kinds)
	}
	if len(f.resources.byID) != 1 {
		t.Errorf("expected 1 resource total, got %d", len(f.resources.byID))
	}
}

func TestRoleService_HotelToCab_SwapsResource(t *testing.T) {
	f := newRoleFixture()
	f.seedUser("usr_1", domain.RoleUser)

	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleHotel); err != nil {
		t.Fatalf("promote to hotel failed: %v", err)
	}
	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleCab); err != nil {
		t.Fatalf("switch to cab failed: %v", err)
	}

	kinds := f.ownedKinds("usr_1")
	if len(kinds) != 1 || kinds[0] != domain.KindCab {
		t.Errorf("expected exactly one cab resource after swap, got %v", kinds)
	}
}

func TestRoleService_DemoteToUser_RevokesResources(t *testing.T) {
	f := newRoleFixture()
	f.seedUser("usr_1", domain.RoleUser)

	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleCab); err != nil {
		t.Fatalf("promote to cab failed: %v", err)
	}
	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleUser); err != nil {
		t.Fatalf("demote to user failed: %v", err)
	}

	if kinds := f.ownedKinds("usr_1"); len(kinds) != 0 {
		t.Errorf("demoted user must own no resources, got %v", kinds)
	}
}

func TestRoleService_PromoteToAdmin_RevokesResources(t *testing.T) {
	f := newRoleFixture()
	f.seedUser("usr_1", domain.RoleUser)

	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleHotel); err != nil {
		t.Fatalf("promote to hotel failed: %v", err)
	}
	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleAdmin); err != nil {
		t.Fatalf("promote to admin failed: %v", err)
	}

	if kinds := f.ownedKinds("usr_1"); len(kinds) != 0 {
		t.Errorf("admin must own no sellable resources, got %v", kinds)
	}
}

func TestRoleService_InvariantAcrossSequence(t *testing.T) {
	f := newRoleFixture()
	f.seedUser("usr_1", domain.RoleUser)

	sequence := []string{
		domain.RoleHotel, domain.RoleCab, domain.RoleCab,
		domain.RoleUser, domain.RoleHotel, domain.RoleAdmin, domain.RoleUser,
	}
	for _, role := range sequence {
		if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", role); err != nil {
			t.Fatalf("SetRole(%s) failed: %v", role, err)
		}

		kinds := f.ownedKinds("usr_1")
		if wantKind, provider := domain.ResourceKindForRole(role); provider {
			if len(kinds) != 1 || kinds[0] != wantKind {
				t.Fatalf("after SetRole(%s): expected one %s resource, got %v", role, wantKind, kinds)
			}
		} else if len(kinds) != 0 {
			t.Fatalf("after SetRole(%s): expected no resources, got %v", role, kinds)
		}
	}
}

func TestRoleService_DeprovisionWithActiveBookingsProceeds(t *testing.T) {
	f := newRoleFixture()
	f.seedUser("usr_1", domain.RoleUser)

	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleHotel); err != nil {
		t.Fatalf("promote to hotel failed: %v", err)
	}
	hotel, err := f.resources.FindByOwner(context.Background(), "usr_1", domain.KindHotel)
	if err != nil {
		t.Fatalf("hotel not provisioned: %v", err)
	}

	// An active booking against the hotel does not block the demotion.
	f.bookings.byID["bkg_1"] = &domain.Booking{
		ID:         "bkg_1",
		Kind:       domain.KindHotel,
		ResourceID: hotel.ID,
		Status:     domain.StatusConfirmed,
	}

	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", domain.RoleUser); err != nil {
		t.Fatalf("demotion with active bookings must proceed, got %v", err)
	}
	if kinds := f.ownedKinds("usr_1"); len(kinds) != 0 {
		t.Errorf("expected no resources after demotion, got %v", kinds)
	}
}

func TestRoleService_NonAdminForbidden(t *testing.T) {
	f := newRoleFixture()
	f.seedUser("usr_1", domain.RoleUser)

	callers := []access.Caller{
		{ID: "usr_2", Role: domain.RoleUser},
		{ID: "own_1", Role: domain.RoleHotel},
		{}, // anonymous
	}
	for _, caller := range callers {
		if _, err := f.svc.SetRole(context.Background(), caller, "usr_1", domain.RoleHotel); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("caller %+v: expected ErrForbidden, got %v", caller, err)
		}
	}
}

func TestRoleService_InvalidRole(t *testing.T) {
	f := newRoleFixture()
	f.seedUser("usr_1", domain.RoleUser)

	if _, err := f.svc.SetRole(context.Background(), admin, "usr_1", "superuser"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestRoleService_UnknownUser(t *testing.T) {
	f := newRoleFixture()

	if _, err := f.svc.SetRole(context.Background(), admin, "usr_missing", domain.RoleHotel); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
