package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
)

// PrincipalResolver turns credentials or a session user id into a principal.
type PrincipalResolver interface {
	Authenticate(username, password string) (*auth.Principal, error)
	PrincipalFor(userID uint64) (*auth.Principal, error)
}

// RequireAuth resolves the principal from HTTP Basic credentials or, failing
// that, from the session. The principal is rebuilt from storage on every
// request so role changes apply immediately.
func RequireAuth(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if username, password, ok := c.Request.BasicAuth(); ok {
			principal, err := resolver.Authenticate(username, password)
			if err != nil {
				c.Header("WWW-Authenticate", `Basic realm="todo"`)
				apierrors.RespondWithServiceError(c, err)
				return
			}
			setPrincipal(c, principal)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID, ok := sessionUserID(session.Get(constants.ContextKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		principal, err := resolver.PrincipalFor(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				session.Clear()
				_ = session.Save()
				apierrors.Unauthorized(c, "")
				return
			}
			apierrors.RespondWithServiceError(c, err)
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// RequireRole rejects principals that do not hold role. It must run after RequireAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		if !principal.HasRole(role) {
			apierrors.Forbidden(c, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

func setPrincipal(c *gin.Context, principal *auth.Principal) {
	c.Set(constants.ContextKeyPrincipal, principal)
	c.Set(constants.ContextKeyUserID, principal.UserID)
}

// GetPrincipal retrieves the authenticated principal from context
func GetPrincipal(c *gin.Context) (*auth.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*auth.Principal)
	return principal, ok && principal != nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return sessionUserID(userID)
}

// sessionUserID normalizes a user id read from a session or context value.
func sessionUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
