// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into activity feed entries.
package queue

import (
	"fmt"

	"github.com/iliyamo/homebase-finder/internal/model"
)

// ListingActivityQueue is the durable queue carrying ListingActivityEvent.
const ListingActivityQueue = "listing.activity"

// Actions carried by ListingActivityEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ListingActivityEvent is published whenever an owner changes a listing.
// It carries enough context to render a feed line without reading the
// boardinghouse back, which may already be gone.
type ListingActivityEvent struct {
	ID                string `json:"id"`
	OwnerEmail        string `json:"owner_email"`
	Kind              string `json:"kind"`   // boardinghouse | room | account
	Action            string `json:"action"` // created | updated | deleted
	BoardinghouseID   string `json:"boardinghouse_id,omitempty"`
	BoardinghouseName string `json:"boardinghouse_name,omitempty"`
	RoomID            string `json:"room_id,omitempty"`
	RoomName          string `json:"room_name,omitempty"`
	OccurredAt        int64  `json:"occurred_at"` // unix ms
}

// Message renders the feed line for the event.
func (e ListingActivityEvent) Message() string {
	verb := map[string]string{
		ActionCreated: "added",
		ActionUpdated: "updated",
		ActionDeleted: "deleted",
	}[e.Action]
	if verb == "" {
		verb = e.Action
	}
	bh := orNoName(e.BoardinghouseName)
	switch e.Kind {
	case model.ActivityRoom:
		return fmt.Sprintf("Room %s: %s in %s", verb, orNoName(e.RoomName), bh)
	case model.ActivityBoardinghouse:
		return fmt.Sprintf("Boardinghouse %s: %s", verb, bh)
	default:
		return fmt.Sprintf("Account %s", verb)
	}
}

// Entry converts the event into a feed entry.
func (e ListingActivityEvent) Entry() model.ActivityEntry {
	meta := map[string]string{"action": e.Action}
	if e.BoardinghouseID != "" {
		meta["bhId"] = e.BoardinghouseID
	}
	if e.RoomID != "" {
		meta["roomId"] = e.RoomID
	}
	return model.ActivityEntry{
		ID:      e.ID,
		TS:      e.OccurredAt,
		Message: e.Message(),
		Type:    e.Kind,
		Meta:    meta,
	}
}

func orNoName(s string) string {
	if s == "" {
		return "(no name)"
	}
	return s
}
