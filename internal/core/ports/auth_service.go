package ports

import (
	"context"

	"github.com/tripline/travel-booking/internal/core/access"
	"github.com/tripline/travel-booking/internal/core/domain"
)

// AuthService is the session boundary: it issues the authenticated identity
// the access gate consumes. Registration never grants provider or admin roles.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// RoleService keeps a user's provider role in lockstep with at most one owned
// sellable resource.
type RoleService interface {
	SetRole(ctx context.Context, caller access.Caller, userID, newRole string) (*domain.User, error)
}
