package service

import (
	"context"
	"sort"
	"strings"

	"github.com/iliyamo/homebase-finder/internal/model"
)

// Availability filter values.
const (
	AvailabilityAll  = ""
	AvailabilityHas  = "has"
	AvailabilityNone = "none"
)

// Listings is the read side of repository.BoardinghouseRepo used by
// browsing.
type Listings interface {
	ListAll(ctx context.Context) ([]model.Boardinghouse, error)
	GetByID(ctx context.Context, id string) (*model.Boardinghouse, error)
	Version(ctx context.Context) (string, error)
}

// BrowseFilter narrows the public listing.  Empty fields match everything.
type BrowseFilter struct {
	Query        string // substring of name or address
	Location     string // substring of the last comma-separated address part
	Availability string // "", "has" or "none"
}

// Detail is one boardinghouse with its room counts.
type Detail struct {
	model.Boardinghouse
	TotalRooms     int `json:"totalRooms"`
	AvailableRooms int `json:"availableRooms"`
	RoomsWithCR    int `json:"roomsWithCR"`
	CookingAllowed int `json:"cookingAllowed"`
}

type BrowseService struct{ listings Listings }

func NewBrowseService(listings Listings) *BrowseService { return &BrowseService{listings: listings} }

// Search returns the boardinghouses matching f in stored order.
func (s *BrowseService) Search(ctx context.Context, f BrowseFilter) ([]model.Boardinghouse, error) {
	all, err := s.listings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	loc := strings.ToLower(strings.TrimSpace(f.Location))

	out := []model.Boardinghouse{}
	for _, bh := range all {
		if q != "" &&
			!strings.Contains(strings.ToLower(bh.Name), q) &&
			!strings.Contains(strings.ToLower(bh.Address), q) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(lastAddressPart(bh.Address)), loc) {
			continue
		}
		switch f.Availability {
		case AvailabilityHas:
			if !bh.HasAvailableRooms() {
				continue
			}
		case AvailabilityNone:
			if bh.HasAvailableRooms() {
				continue
			}
		}
		out = append(out, bh)
	}
	return out, nil
}

// Locations returns the distinct location labels, sorted.  The label of an
// address is its last comma-separated part, or the whole address when it
// has no comma.
func (s *BrowseService) Locations(ctx context.Context) ([]string, error) {
	all, err := s.listings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, bh := range all {
		if bh.Address == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(bh.Address, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		label := bh.Address
		if len(parts) > 1 {
			label = parts[len(parts)-1]
		}
		seen[label] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out, nil
}

// Get returns one boardinghouse with its room counts.
func (s *BrowseService) Get(ctx context.Context, id string) (*Detail, error) {
	bh, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Boardinghouse: *bh, TotalRooms: len(bh.Rooms)}
	for _, r := range bh.Rooms {
		if r.HasVacancy() {
			d.AvailableRooms++
		}
		if r.WithCR {
			d.RoomsWithCR++
		}
		if r.CookingAllowed {
			d.CookingAllowed++
		}
	}
	return d, nil
}

// Version returns the ETag of the listing collection.
func (s *BrowseService) Version(ctx context.Context) (string, error) {
	return s.listings.Version(ctx)
}

func lastAddressPart(addr string) string {
	parts := strings.Split(addr, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
