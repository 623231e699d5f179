// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes let
// tenants and guests search listings without authentication.

package handler

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/homebase-finder/internal/repository"
	"github.com/iliyamo/homebase-finder/internal/service"
)

// PublicHandler serves the tenant/guest browsing endpoints.
type PublicHandler struct {
	Browse *service.BrowseService
	Log    *zap.Logger
}

func NewPublicHandler(browse *service.BrowseService, log *zap.Logger) *PublicHandler {
	return &PublicHandler{Browse: browse, Log: log}
}

// etag combines the collection version with the query so that different
// filters over the same data get different tags.
func etag(version, query string) string {
	sum := sha1.Sum([]byte(version + "?" + query))
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}

// notModified sets the ETag header and reports whether the client's
// If-None-Match already names it.
func notModified(c echo.Context, tag string) bool {
	c.Response().Header().Set("ETag", tag)
	for _, t := range strings.Split(c.Request().Header.Get("If-None-Match"), ",") {
		if t = strings.TrimSpace(t); t == tag || t == "*" {
			return true
		}
	}
	return false
}

// ListBoardinghouses handles GET /v1/boardinghouses?q=&location=&available=.
// Responses carry an ETag; a matching If-None-Match gets 304.
func (h *PublicHandler) ListBoardinghouses(c echo.Context) error {
	ctx := c.Request().Context()
	avail := strings.ToLower(strings.TrimSpace(c.QueryParam("available")))
	switch avail {
	case service.AvailabilityAll, service.AvailabilityHas, service.AvailabilityNone:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available must be has or none"})
	}

	version, err := h.Browse.Version(ctx)
	if err != nil {
		h.Log.Error("listing version failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}
	if notModified(c, etag(version, c.QueryString())) {
		return c.NoContent(http.StatusNotModified)
	}

	items, err := h.Browse.Search(ctx, service.BrowseFilter{
		Query:        c.QueryParam("q"),
		Location:     c.QueryParam("location"),
		Availability: avail,
	})
	if err != nil {
		h.Log.Error("search boardinghouses failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBoardinghouse handles GET /v1/boardinghouses/:id.
func (h *PublicHandler) GetBoardinghouse(c echo.Context) error {
	d, err := h.Browse.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBoardinghouseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "boardinghouse not found"})
		}
		h.Log.Error("get boardinghouse failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}
	return c.JSON(http.StatusOK, d)
}

// Locations handles GET /v1/locations.
func (h *PublicHandler) Locations(c echo.Context) error {
	locs, err := h.Browse.Locations(c.Request().Context())
	if err != nil {
		h.Log.Error("list locations failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": locs})
}
