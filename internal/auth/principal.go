// Package auth describes the authenticated identity a request acts as.
package auth

import (
	"slices"

	"github.com/yukikurage/todo-api/internal/models"
)

// Principal is the authenticated identity making a request. It is built
// from storage for every request and handed explicitly to each service call.
type Principal struct {
	UserID   uint64
	Username string
	Roles    []models.Role
}

// NewPrincipal builds a principal from a user loaded with its roles.
func NewPrincipal(user models.User) *Principal {
	return &Principal{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.RoleSet(),
	}
}

// HasRole reports whether the principal holds role.
func (p *Principal) HasRole(role models.Role) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, role)
}

// IsAdmin reports whether the principal bypasses ownership checks.
func (p *Principal) IsAdmin() bool {
	return p.HasRole(models.RoleAdmin)
}
