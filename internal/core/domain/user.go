package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleCab   = "cab"
	RoleHotel = "hotel"
	RoleAdmin = "admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// ValidRole reports whether role is one of the defined user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleCab, RoleHotel, RoleAdmin:
		return true
	}
	return false
}

// ResourceKindForRole returns the sellable resource kind a provider role owns,
// or false for roles that own no resource.
func ResourceKindForRole(role string) (ResourceKind, bool) {
	switch role {
	case RoleHotel:
		return KindHotel, true
	case RoleCab:
		return KindCab, true
	}
	return "", false
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
