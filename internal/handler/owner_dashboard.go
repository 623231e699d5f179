package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetDashboard handles GET /v1/owner/dashboard.
func (h *OwnerHandler) GetDashboard(c echo.Context) error {
	owner, err := ownerEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	d, err := h.Dashboard.Build(c.Request().Context(), owner)
	if err != nil {
		return h.fail(c, err, "build dashboard")
	}
	return c.JSON(http.StatusOK, d)
}
