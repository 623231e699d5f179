package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Gender lists who may rent a room.
type Gender string

const (
	GenderAny    Gender = "Any"
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ParseGender accepts any casing; the empty string means GenderAny.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return GenderAny, nil
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// ErrInvalidRoom wraps every room validation failure.
var ErrInvalidRoom = errors.New("invalid room")

// Room is a rentable unit inside exactly one Boardinghouse.  The json
// names match the records written by the browser client so exported
// data loads unchanged.
//
// Fields:
//
//	ID             – generated as room_<base36 ms>-<random> when empty.
//	TotalBeds      – must be positive.
//	AvailableBeds  – between zero and TotalBeds.
//	RentPrice      – monthly rent, never negative.
//	WithCR         – room has a private comfort room (bathroom).
//	Inclusions     – free-form amenities (Mattress, Electric Fan, ...).
//	UpdatedAt      – unix milliseconds of the last write.
type Room struct {
	ID             string   `json:"id"`
	RoomName       string   `json:"roomName"`
	TotalBeds      int      `json:"totalBeds"`
	AvailableBeds  int      `json:"availableBeds"`
	RentPrice      float64  `json:"rentPrice"`
	WithCR         bool     `json:"withCR"`
	Gender         Gender   `json:"gender"`
	CookingAllowed bool     `json:"cookingAllowed"`
	Inclusions     []string `json:"inclusions"`
	UpdatedAt      int64    `json:"updatedAt,omitempty"`

	// rentMissing marks stored rooms that never had a rent price.  It
	// round-trips as a null rentPrice.
	rentMissing bool
}

// RentMissing reports whether the stored room has no rent price.
func (r Room) RentMissing() bool { return r.rentMissing }

// MarshalJSON writes a null rentPrice for rooms without one.
func (r Room) MarshalJSON() ([]byte, error) {
	type plain Room
	out := struct {
		plain
		RentPrice *float64 `json:"rentPrice"`
	}{plain: plain(r)}
	if !r.rentMissing {
		out.RentPrice = &r.RentPrice
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts rentPrice as a number or a numeric string.  An
// absent, null or blank value leaves the rent missing.
func (r *Room) UnmarshalJSON(b []byte) error {
	type plain Room
	aux := struct {
		*plain
		RentPrice json.RawMessage `json:"rentPrice"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	price, missing, err := parseRent(aux.RentPrice)
	if err != nil {
		return err
	}
	r.RentPrice, r.rentMissing = price, missing
	return nil
}

func parseRent(raw json.RawMessage) (float64, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, true, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, true, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("rentPrice: %q is not a number", s)
		}
		return v, false, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, fmt.Errorf("rentPrice: %w", err)
	}
	return v, false, nil
}

// Validate checks the bed and price invariants.
func (r Room) Validate() error {
	if strings.TrimSpace(r.RoomName) == "" {
		return fmt.Errorf("%w: room name is required", ErrInvalidRoom)
	}
	if r.TotalBeds <= 0 {
		return fmt.Errorf("%w: total beds must be a positive number", ErrInvalidRoom)
	}
	if r.AvailableBeds < 0 {
		return fmt.Errorf("%w: available beds must be zero or more", ErrInvalidRoom)
	}
	if r.AvailableBeds > r.TotalBeds {
		return fmt.Errorf("%w: available beds cannot exceed total beds", ErrInvalidRoom)
	}
	if r.RentPrice < 0 {
		return fmt.Errorf("%w: rent price must be zero or more", ErrInvalidRoom)
	}
	return nil
}


// HasVacancy reports whether at least one bed is free.
func (r Room) HasVacancy() bool { return r.AvailableBeds > 0 }

// StructuredAddress is the region/province/city/barangay selection plus
// the free-text street and zip.  Codes refer to the geographic datasets.
type StructuredAddress struct {
	Region       string `json:"region"`
	RegionCode   string `json:"region_code"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
	City         string `json:"city"`
	CityCode     string `json:"city_code"`
	Barangay     string `json:"barangay"`
	BarangayCode string `json:"barangay_code"`
	Street       string `json:"street"`
	Zip          string `json:"zip"`
}

// Boardinghouse is a rental property listing owned by one owner account.
type Boardinghouse struct {
	ID                string             `json:"id"`
	OwnerEmail        string             `json:"ownerEmail"`
	OwnerName         string             `json:"ownerName"`
	Name              string             `json:"name"`
	Contact           string             `json:"contact"`
	Address           string             `json:"address"`
	StructuredAddress *StructuredAddress `json:"structuredAddress,omitempty"`
	Description       string             `json:"description"`
	Facebook          string             `json:"facebook"`
	Photos            []string           `json:"photos"`
	Rooms             []Room             `json:"rooms"`
	UpdatedAt         int64              `json:"updatedAt,omitempty"`
}

// OwnedBy compares owner emails case-insensitively.
func (b Boardinghouse) OwnedBy(email string) bool {
	return email != "" && strings.EqualFold(b.OwnerEmail, strings.TrimSpace(email))
}

// HasAvailableRooms reports whether any room has a free bed.
func (b Boardinghouse) HasAvailableRooms() bool {
	for _, r := range b.Rooms {
		if r.HasVacancy() {
			return true
		}
	}
	return false
}

// RoomIndex returns the position of the room with id or -1.
func (b Boardinghouse) RoomIndex(id string) int {
	for i, r := range b.Rooms {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Normalize replaces nil slices so they serialize as [] instead of null.
func (b *Boardinghouse) Normalize() {
	if b.Photos == nil {
		b.Photos = []string{}
	}
	if b.Rooms == nil {
		b.Rooms = []Room{}
	}
	for i := range b.Rooms {
		b.Rooms[i].normalize()
	}
}

func (r *Room) normalize() {
	if r.Inclusions == nil {
		r.Inclusions = []string{}
	}
	if r.Gender == "" {
		r.Gender = GenderAny
	}
}

// BoardinghousePatch carries a partial update.  Nil fields keep the stored
// value, which lets clients send only what changed.
type BoardinghousePatch struct {
	OwnerName         *string
	Name              *string
	Contact           *string
	Address           *string
	StructuredAddress *StructuredAddress
	Description       *string
	Facebook          *string
	Photos            *[]string
}

// Apply copies the non-nil fields of p onto b.
func (p BoardinghousePatch) Apply(b *Boardinghouse) {
	if p.OwnerName != nil {
		b.OwnerName = *p.OwnerName
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Contact != nil {
		b.Contact = *p.Contact
	}
	if p.Address != nil {
		b.Address = *p.Address
	}
	if p.StructuredAddress != nil {
		sa := *p.StructuredAddress
		b.StructuredAddress = &sa
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Facebook != nil {
		b.Facebook = *p.Facebook
	}
	if p.Photos != nil {
		b.Photos = append([]string{}, (*p.Photos)...)
	}
}

// RoomPatch is the room counterpart of BoardinghousePatch.
type RoomPatch struct {
	RoomName       *string
	TotalBeds      *int
	AvailableBeds  *int
	RentPrice      *float64
	WithCR         *bool
	Gender         *Gender
	CookingAllowed *bool
	Inclusions     *[]string
}

// Apply copies the non-nil fields of p onto r.
func (p RoomPatch) Apply(r *Room) {
	if p.RoomName != nil {
		r.RoomName = *p.RoomName
	}
	if p.TotalBeds != nil {
		r.TotalBeds = *p.TotalBeds
	}
	if p.AvailableBeds != nil {
		r.AvailableBeds = *p.AvailableBeds
	}
	if p.RentPrice != nil {
		r.RentPrice = *p.RentPrice
		r.rentMissing = false
	}
	if p.WithCR != nil {
		r.WithCR = *p.WithCR
	}
	if p.Gender != nil {
		r.Gender = *p.Gender
	}
	if p.CookingAllowed != nil {
		r.CookingAllowed = *p.CookingAllowed
	}
	if p.Inclusions != nil {
		r.Inclusions = append([]string{}, (*p.Inclusions)...)
	}
}
