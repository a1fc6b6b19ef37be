package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"lendora-backend/internal/usecase/auth"
)

const (
	// Echo context keys set by RequireAuth.
	ContextUserKey  = "currentUser"
	ContextTokenKey = "sessionToken"
)

// SessionResolver turns a bearer token into the session's user. Satisfied by
// the auth usecase.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*auth.SessionUser, error)
}

// RequireAuth rejects requests without a valid Bearer token and stashes the
// resolved user and raw token in the echo context.
func RequireAuth(sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			token = strings.TrimSpace(token)

			su, err := sessions.CurrentUser(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired session"})
			}
			c.Set(ContextUserKey, su)
			c.Set(ContextTokenKey, token)
			return next(c)
		}
	}
}

// RequireRole allows only the named roles through. Must run after
// RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			su := CurrentSessionUser(c)
			if su == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			if _, ok := allowed[su.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
			}
			return next(c)
		}
	}
}

// CurrentSessionUser returns the user set by RequireAuth, or nil.
func CurrentSessionUser(c echo.Context) *auth.SessionUser {
	su, _ := c.Get(ContextUserKey).(*auth.SessionUser)
	return su
}

// SessionToken returns the raw bearer token set by RequireAuth.
func SessionToken(c echo.Context) string {
	token, _ := c.Get(ContextTokenKey).(string)
	return token
}
