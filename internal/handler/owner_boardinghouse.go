package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homebase-finder/internal/geo"
	"github.com/iliyamo/homebase-finder/internal/model"
	"github.com/iliyamo/homebase-finder/internal/queue"
	"github.com/iliyamo/homebase-finder/internal/service"
)

// boardinghouseReq is the body of create and update.  Fields left out of
// an update keep their stored value.
type boardinghouseReq struct {
	OwnerName         *string                  `json:"ownerName"`
	Name              *string                  `json:"name"`
	Contact           *string                  `json:"contact"`
	Address           *string                  `json:"address"`
	StructuredAddress *model.StructuredAddress `json:"structuredAddress"`
	Description       *string                  `json:"description"`
	Facebook          *string                  `json:"facebook"`
	Photos            *[]string                `json:"photos"`
	Rooms             []roomReq                `json:"rooms"` // create only
}

// resolveAddress fills structured address names from their codes and
// composes the free-text address when the client sent none.
func (h *OwnerHandler) resolveAddress(req *boardinghouseReq) error {
	sa := req.StructuredAddress
	if sa == nil {
		return nil
	}
	if h.Resolver != nil && sa.RegionCode != "" {
		resolved, err := h.Resolver.Resolve(geo.Codes{
			Region:   sa.RegionCode,
			Province: sa.ProvinceCode,
			City:     sa.CityCode,
			Barangay: sa.BarangayCode,
		}, sa.Street, sa.Zip)
		if err != nil {
			return err
		}
		req.StructuredAddress = &resolved
		sa = &resolved
	}
	if req.Address == nil || strings.TrimSpace(*req.Address) == "" {
		if composed := geo.ComposeAddress(*sa); composed != "" {
			req.Address = &composed
		}
	}
	return nil
}

func (r boardinghouseReq) patch() model.BoardinghousePatch {
	return model.BoardinghousePatch{
		OwnerName:         r.OwnerName,
		Name:              r.Name,
		Contact:           r.Contact,
		Address:           r.Address,
		StructuredAddress: r.StructuredAddress,
		Description:       r.Description,
		Facebook:          r.Facebook,
		Photos:            r.Photos,
	}
}

// CreateBoardinghouse handles POST /v1/boardinghouses.
func (h *OwnerHandler) CreateBoardinghouse(c echo.Context) error {
	owner, err := ownerEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req boardinghouseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.resolveAddress(&req); err != nil {
		return h.fail(c, err, "resolve address")
	}

	bh := model.Boardinghouse{OwnerEmail: owner}
	req.patch().Apply(&bh)
	bh.Name = strings.TrimSpace(bh.Name)
	for i, rr := range req.Rooms {
		room, err := rr.room()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "room": i})
		}
		bh.Rooms = append(bh.Rooms, room)
	}

	ctx := c.Request().Context()
	created, err := h.Listings.Create(ctx, bh)
	if err != nil {
		return h.fail(c, err, "create boardinghouse")
	}
	ev := service.NewEvent(owner, model.ActivityBoardinghouse, queue.ActionCreated)
	ev.BoardinghouseID, ev.BoardinghouseName = created.ID, created.Name
	h.Recorder.Record(ctx, ev)
	return c.JSON(http.StatusCreated, created)
}

// ListMyBoardinghouses handles GET /v1/owner/boardinghouses.
func (h *OwnerHandler) ListMyBoardinghouses(c echo.Context) error {
	owner, err := ownerEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Listings.ListByOwner(c.Request().Context(), owner)
	if err != nil {
		return h.fail(c, err, "list boardinghouses")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateBoardinghouse handles PUT/PATCH /v1/boardinghouses/:id.  Rooms are
// managed through their own endpoints and are never replaced here.
func (h *OwnerHandler) UpdateBoardinghouse(c echo.Context) error {
	owner, err := ownerEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req boardinghouseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}
		req.Name = &name
	}
	if err := h.resolveAddress(&req); err != nil {
		return h.fail(c, err, "resolve address")
	}

	ctx := c.Request().Context()
	updated, err := h.Listings.UpdateByIDAndOwner(ctx, c.Param("id"), owner, req.patch())
	if err != nil {
		return h.fail(c, err, "update boardinghouse")
	}
	ev := service.NewEvent(owner, model.ActivityBoardinghouse, queue.ActionUpdated)
	ev.BoardinghouseID, ev.BoardinghouseName = updated.ID, updated.Name
	h.Recorder.Record(ctx, ev)
	return c.JSON(http.StatusOK, updated)
}

// DeleteBoardinghouse handles DELETE /v1/boardinghouses/:id.
func (h *OwnerHandler) DeleteBoardinghouse(c echo.Context) error {
	owner, err := ownerEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	name := ""
	if bh, err := h.Listings.GetByID(ctx, id); err == nil {
		name = bh.Name
	}
	if err := h.Listings.DeleteByIDAndOwner(ctx, id, owner); err != nil {
		return h.fail(c, err, "delete boardinghouse")
	}
	ev := service.NewEvent(owner, model.ActivityBoardinghouse, queue.ActionDeleted)
	ev.BoardinghouseID, ev.BoardinghouseName = id, name
	h.Recorder.Record(ctx, ev)
	return c.NoContent(http.StatusNoContent)
}
