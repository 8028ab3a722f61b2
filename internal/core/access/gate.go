// Package access holds the authorization predicate consulted before every
// booking or resource mutation. It is a pure function over the caller, the
// attempted action, and the target record, so it can be tested without any
// transport or storage in place.
package access

import "github.com/tripline/travel-booking/internal/core/domain"

// Action identifies an operation being authorized.
type Action string

const (
	ActionCreateBooking Action = "booking.create"
	ActionAmendBooking  Action = "booking.amend"
	ActionReadBooking   Action = "booking.read"
	ActionSetStatus     Action = "booking.set_status"
	ActionListBookings  Action = "booking.list"
	ActionListAll       Action = "booking.list_all"
	ActionReadCatalog   Action = "catalog.read"
	ActionSetCapacity   Action = "resource.set_capacity"
	ActionSetRole       Action = "user.set_role"
)

// Caller is the authenticated identity supplied by the session boundary.
// A zero Caller is anonymous.
type Caller struct {
	ID   string
	Role string
}

// Anonymous reports whether the caller carries no authenticated identity.
func (c Caller) Anonymous() bool {
	return c.ID == ""
}

// Target describes the record an action operates on. For bookings,
// PurchaserID is the booking's user and OwnerID the owner of the resource the
// booking is against (empty for tour bookings). For list operations,
// PurchaserID is the user whose bookings are requested.
type Target struct {
	PurchaserID string
	OwnerID     string
}

// CanAttempt is the pre-lookup check: it decides from the caller's role alone
// whether the action is ever permitted, before any record is loaded. Running
// it first keeps denials from leaking whether the target exists.
func CanAttempt(caller Caller, action Action) error {
	if caller.Role == domain.RoleAdmin {
		return nil
	}
	switch action {
	case ActionReadCatalog:
		return nil // anonymous included
	case ActionListAll, ActionSetRole:
		return domain.ErrForbidden // admin only
	}
	if caller.Anonymous() {
		return domain.ErrForbidden
	}
	return nil
}

// Authorize decides whether the caller may perform action on target.
// Returns nil to allow, domain.ErrForbidden to deny.
func Authorize(caller Caller, action Action, target Target) error {
	if err := CanAttempt(caller, action); err != nil {
		return err
	}
	if caller.Role == domain.RoleAdmin {
		return nil
	}

	switch action {
	case ActionReadCatalog:
		return nil
	case ActionCreateBooking, ActionAmendBooking, ActionListBookings:
		if caller.ID == target.PurchaserID {
			return nil
		}
	case ActionReadBooking:
		if caller.ID == target.PurchaserID || (target.OwnerID != "" && caller.ID == target.OwnerID) {
			return nil
		}
	case ActionSetStatus, ActionSetCapacity:
		if target.OwnerID != "" && caller.ID == target.OwnerID {
			return nil
		}
	}
	return domain.ErrForbidden
}
