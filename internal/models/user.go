package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is an authority granted to a user. The set of roles is closed.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Roles []UserRole `gorm:"foreignKey:UserID" json:"-"`
}

// UserRole is one row of the user_roles table.
type UserRole struct {
	UserID uint64 `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	Role   Role   `gorm:"primarykey;type:varchar(20)" json:"role"`
}

// RoleSet returns the valid roles held by the user, skipping unknown values.
func (u User) RoleSet() []Role {
	roles := make([]Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r.Role.Valid() {
			roles = append(roles, r.Role)
		}
	}
	return roles
}
