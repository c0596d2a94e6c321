package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProvider Role = "provider"
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'customer';index"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleProvider, RoleCustomer, RoleStaff:
		return true
	default:
		return false
	}
}

// Identity is the authenticated caller as established by the auth middleware.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// HasRole reports whether the caller holds one of roles.
func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// Owns reports whether the caller is the owner or an admin.
func (i Identity) Owns(ownerID uuid.UUID) bool {
	return i.IsAdmin() || (i.UserID != uuid.Nil && i.UserID == ownerID)
}
