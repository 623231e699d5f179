package middleware

// identity.go holds the accessors for the identity JWTAuth stores in the
// Echo context.

import (
	"github.com/labstack/echo/v4"
)

// UserEmail returns the authenticated user's email or "" for guests.
func UserEmail(c echo.Context) string {
	if s, ok := c.Get(ContextKeyEmail).(string); ok {
		return s
	}
	return ""
}

// Role returns the authenticated user's role or "" for guests.
func Role(c echo.Context) string {
	if s, ok := c.Get(ContextKeyRole).(string); ok {
		return s
	}
	return ""
}

// userKey identifies the caller for rate limiting; "anon" for guests.
func userKey(c echo.Context) string {
	if e := UserEmail(c); e != "" {
		return e
	}
	return "anon"
}
