package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripline/travel-booking/internal/core/access"
	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

// RoleService is the role-resource provisioner: whenever an admin changes a
// user's role it keeps the ownership invariant true, so a provider role owns
// exactly one matching resource and every other role owns none. It never
// touches booking records.
type RoleService struct {
	users     ports.UserRepository
	resources ports.ResourceRepository
	bookings  ports.BookingRepository
	log       zerolog.Logger
}

func NewRoleService(
	users ports.UserRepository,
	resources ports.ResourceRepository,
	bookings ports.BookingRepository,
	log zerolog.Logger,
) *RoleService {
	return &RoleService{users: users, resources: resources, bookings: bookings, log: log}
}

// SetRole changes a user's role and provisions or revokes the matching
// sellable resource. Calling it twice with the same role is a no-op on the
// second call. A hotel↔cab transition revokes the old resource before the new
// one is provisioned, so a user never owns both.
func (s *RoleService) SetRole(ctx context.Context, caller access.Caller, userID, newRole string) (*domain.User, error) {
	if err := access.Authorize(caller, access.ActionSetRole, access.Target{}); err != nil {
		return nil, err
	}
	if !domain.ValidRole(newRole) {
		return nil, domain.ErrValidation
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == newRole {
		return user, nil
	}

	targetKind, providerRole := domain.ResourceKindForRole(newRole)

	for _, kind := range []domain.ResourceKind{domain.KindHotel, domain.KindCab} {
		if providerRole && kind == targetKind {
			continue
		}
		if err := s.deprovision(ctx, userID, kind); err != nil {
			return nil, err
		}
	}

	if providerRole {
		if err := s.provision(ctx, userID, targetKind); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateRole(ctx, userID, newRole); err != nil {
		return nil, err
	}
	user.Role = newRole
	user.UpdatedAt = time.Now().UTC()

	s.log.Info().Str("user_id", userID).Str("role", newRole).Str("actor_id", caller.ID).Msg("user role changed")
	return user, nil
}

// provision creates an empty resource of the given kind owned by userID,
// unless one already exists. A unique-ownership conflict from the store
// surfaces as domain.ErrAlreadyProvisioned.
func (s *RoleService) provision(ctx context.Context, userID string, kind domain.ResourceKind) error {
	_, err := s.resources.FindByOwner(ctx, userID, kind)
	if err == nil {
		return nil // already provisioned for this user
	}
	if err != domain.ErrResourceNotFound {
		return err
	}

	now := time.Now().UTC()
	resource := &domain.Resource{
		ID:        uuid.NewString(),
		Kind:      kind,
		OwnerID:   userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Str("kind", string(kind)).Str("resource_id", resource.ID).Msg("resource provisioned")
	return nil
}

// deprovision deletes the resource of the given kind owned by userID, if any.
// Deletion proceeds even when the resource still has active bookings; the
// count is logged so operators can reconcile.
func (s *RoleService) deprovision(ctx context.Context, userID string, kind domain.ResourceKind) error {
	resource, err := s.resources.FindByOwner(ctx, userID, kind)
	if err != nil {
		if err == domain.ErrResourceNotFound {
			return nil
		}
		return err
	}

	if kind == domain.KindHotel {
		active, cntErr := s.bookings.CountHolding(ctx, resource.ID)
		if cntErr != nil {
			s.log.Warn().Err(cntErr).Str("resource_id", resource.ID).Msg("could not count active bookings before deprovision")
		} else if active > 0 {
			s.log.Warn().Str("resource_id", resource.ID).Int64("active_bookings", active).Msg("deprovisioning resource with active bookings")
		}
	}

	deleted, err := s.resources.DeleteByOwner(ctx, userID, kind)
	if err != nil {
		return err
	}
	if deleted {
		s.log.Info().Str("user_id", userID).Str("kind", string(kind)).Str("resource_id", resource.ID).Msg("resource deprovisioned")
	}
	return nil
}
