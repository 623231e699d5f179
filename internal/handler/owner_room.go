package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homebase-finder/internal/model"
	"github.com/iliyamo/homebase-finder/internal/queue"
	"github.com/iliyamo/homebase-finder/internal/service"
)

// roomReq is the body of room create and update.
type roomReq struct {
	RoomName       *string   `json:"roomName"`
	TotalBeds      *int      `json:"totalBeds"`
	AvailableBeds  *int      `json:"availableBeds"`
	RentPrice      *float64  `json:"rentPrice"`
	WithCR         *bool     `json:"withCR"`
	Gender         *string   `json:"gender"`
	CookingAllowed *bool     `json:"cookingAllowed"`
	Inclusions     *[]string `json:"inclusions"`
}

func (r roomReq) patch() (model.RoomPatch, error) {
	p := model.RoomPatch{
		RoomName:       r.RoomName,
		TotalBeds:      r.TotalBeds,
		AvailableBeds:  r.AvailableBeds,
		RentPrice:      r.RentPrice,
		WithCR:         r.WithCR,
		CookingAllowed: r.CookingAllowed,
		Inclusions:     r.Inclusions,
	}
	if r.Gender != nil {
		g, err := model.ParseGender(*r.Gender)
		if err != nil {
			return model.RoomPatch{}, err
		}
		p.Gender = &g
	}
	return p, nil
}

// room builds a new room; bed counts and rent are required.
func (r roomReq) room() (model.Room, error) {
	switch {
	case r.TotalBeds == nil:
		return model.Room{}, errors.New("total beds is required")
	case r.AvailableBeds == nil:
		return model.Room{}, errors.New("available beds is required")
	case r.RentPrice == nil:
		return model.Room{}, errors.New("rent price is required")
	}
	p, err := r.patch()
	if err != nil {
		return model.Room{}, err
	}
	var room model.Room
	p.Apply(&room)
	return room, room.Validate()
}

// AddRoom handles POST /v1/boardinghouses/:id/rooms.
func (h *OwnerHandler) AddRoom(c echo.Context) error {
	owner, err := ownerEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	room, err := req.room()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	bhID := c.Param("id")
	created, err := h.Listings.AddRoom(ctx, bhID, owner, room)
	if err != nil {
		return h.fail(c, err, "add room")
	}
	h.recordRoom(c, owner, bhID, created.ID, created.RoomName, queue.ActionCreated)
	return c.JSON(http.StatusCreated, created)
}

// UpdateRoom handles PUT/PATCH /v1/boardinghouses/:id/rooms/:room_id.
func (h *OwnerHandler) UpdateRoom(c echo.Context) error {
	owner, err := ownerEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	patch, err := req.patch()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	bhID, roomID := c.Param("id"), c.Param("room_id")
	updated, err := h.Listings.UpdateRoom(c.Request().Context(), bhID, roomID, owner, patch)
	if err != nil {
		return h.fail(c, err, "update room")
	}
	h.recordRoom(c, owner, bhID, updated.ID, updated.RoomName, queue.ActionUpdated)
	return c.JSON(http.StatusOK, updated)
}

// DeleteRoom handles DELETE /v1/boardinghouses/:id/rooms/:room_id.
func (h *OwnerHandler) DeleteRoom(c echo.Context) error {
	owner, err := ownerEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	bhID, roomID := c.Param("id"), c.Param("room_id")
	roomName := ""
	if bh, err := h.Listings.GetByID(ctx, bhID); err == nil {
		if i := bh.RoomIndex(roomID); i >= 0 {
			roomName = bh.Rooms[i].RoomName
		}
	}
	if err := h.Listings.DeleteRoom(ctx, bhID, roomID, owner); err != nil {
		return h.fail(c, err, "delete room")
	}
	h.recordRoom(c, owner, bhID, roomID, roomName, queue.ActionDeleted)
	return c.NoContent(http.StatusNoContent)
}

func (h *OwnerHandler) recordRoom(c echo.Context, owner, bhID, roomID, roomName, action string) {
	ctx := c.Request().Context()
	ev := service.NewEvent(owner, model.ActivityRoom, action)
	ev.BoardinghouseID, ev.RoomID, ev.RoomName = bhID, roomID, roomName
	if bh, err := h.Listings.GetByID(ctx, bhID); err == nil {
		ev.BoardinghouseName = bh.Name
	}
	h.Recorder.Record(ctx, ev)
}
