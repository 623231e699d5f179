package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homebase-finder/internal/model"
	"github.com/iliyamo/homebase-finder/internal/repository"
)

// AccountLookup finds the credential behind an access token.
type AccountLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// RequireAccount rejects access tokens whose account has been deleted
// since they were issued.  It must run after JWTAuth.
func RequireAccount(users AccountLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, err := users.GetByEmail(c.Request().Context(), UserEmail(c))
			switch {
			case errors.Is(err, repository.ErrUserNotFound):
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account not found"})
			case err != nil:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account lookup failed"})
			}
			return next(c)
		}
	}
}
