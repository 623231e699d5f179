package handler // handler defines http handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/homebase-finder/internal/geo"
	"github.com/iliyamo/homebase-finder/internal/middleware"
	"github.com/iliyamo/homebase-finder/internal/model"
	"github.com/iliyamo/homebase-finder/internal/repository"
	"github.com/iliyamo/homebase-finder/internal/service"
)

// OwnerHandler bundles what owners need to manage their listings.
type OwnerHandler struct {
	Listings  *repository.BoardinghouseRepo
	Dashboard *service.DashboardService
	Resolver  *geo.Resolver // nil when no geographic data is loaded
	Recorder  service.ActivityRecorder
	Log       *zap.Logger
}

// NewOwnerHandler constructs a new OwnerHandler and panics if a required
// dependency is nil.
func NewOwnerHandler(listings *repository.BoardinghouseRepo, dashboard *service.DashboardService, resolver *geo.Resolver, recorder service.ActivityRecorder, log *zap.Logger) *OwnerHandler {
	if listings == nil || dashboard == nil || recorder == nil || log == nil {
		panic("nil dependency passed to NewOwnerHandler")
	}
	return &OwnerHandler{Listings: listings, Dashboard: dashboard, Resolver: resolver, Recorder: recorder, Log: log}
}

// ownerEmail returns the authenticated owner's email.
func ownerEmail(c echo.Context) (string, error) {
	if e := middleware.UserEmail(c); e != "" {
		return e, nil
	}
	return "", errors.New("missing user in context")
}

// fail maps repository and validation errors to responses; anything else
// is logged and reported as a 500 naming op.
func (h *OwnerHandler) fail(c echo.Context, err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrBoardinghouseNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "boardinghouse not found"})
	case errors.Is(err, repository.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not own this boardinghouse"})
	case errors.Is(err, model.ErrInvalidRoom):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, geo.ErrUnknownCode), errors.Is(err, geo.ErrNotInParent):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	h.Log.Error(op+" failed", zap.Error(err), zap.String("path", c.Path()))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": op + " failed"})
}
