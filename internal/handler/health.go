package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"errors"
	"net/http" // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/iliyamo/homebase-finder/internal/kv"
)

// Health is a health‑check endpoint used by load balancers and monitoring
// systems.  It returns "ok" when the key-value store answers a read.
func Health(store kv.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if _, err := store.Get(ctx, "healthz"); err != nil && !errors.Is(err, kv.ErrNotFound) {
			return c.String(http.StatusServiceUnavailable, "storage unavailable")
		}
		return c.String(http.StatusOK, "ok")
	}
}
