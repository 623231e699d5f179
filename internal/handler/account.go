package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/homebase-finder/internal/middleware"
	"github.com/iliyamo/homebase-finder/internal/model"
	"github.com/iliyamo/homebase-finder/internal/queue"
	"github.com/iliyamo/homebase-finder/internal/repository"
	"github.com/iliyamo/homebase-finder/internal/service"
)

// AccountHandler serves the signed-in user's own account.
type AccountHandler struct {
	Users    *repository.UserRepo
	Profiles *repository.ProfileRepo
	Accounts *service.AccountService
	Recorder service.ActivityRecorder
	Log      *zap.Logger
}

type profileReq struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// UpdateProfile handles PATCH /v1/me.  The email never changes; an empty
// avatar resets to the generated one.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()
	email := middleware.UserEmail(c)

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	p := model.Profile{Name: u.FullName, Email: u.Email, Role: u.Role}
	if stored, err := h.Profiles.Get(ctx, email); err == nil {
		p.Name, p.Avatar = stored.Name, stored.Avatar
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Avatar != nil {
		p.Avatar = strings.TrimSpace(*req.Avatar)
	}
	if p.Avatar == "" {
		p.Avatar = model.DefaultAvatar(p.Name)
	}
	if err := h.Profiles.Upsert(ctx, p); err != nil {
		h.Log.Error("save profile failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save profile failed"})
	}
	if p.Role == model.RoleOwner {
		h.Recorder.Record(ctx, service.NewEvent(p.Email, model.ActivityAccount, queue.ActionUpdated))
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteAccount handles DELETE /v1/me.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()
	if err := h.Accounts.Delete(ctx, middleware.UserEmail(c)); err != nil {
		h.Log.Error("delete account failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
