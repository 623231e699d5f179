package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/homebase-finder/internal/model"
)

// maxDashboardActivity is how many feed entries the dashboard returns.
const maxDashboardActivity = 20

// OwnerListings is the part of repository.BoardinghouseRepo the dashboard
// needs.
type OwnerListings interface {
	ListByOwner(ctx context.Context, ownerEmail string) ([]model.Boardinghouse, error)
}

// ActivityFeed is the read side of repository.ActivityRepo.
type ActivityFeed interface {
	List(ctx context.Context, ownerEmail string) ([]model.ActivityEntry, error)
}

type GenderCounts struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Any    int `json:"any"`
}

type Summary struct {
	TotalBoardinghouses int          `json:"totalBoardinghouses"`
	TotalRooms          int          `json:"totalRooms"`
	RoomsWithCR         int          `json:"roomsWithCR"`
	RoomsWithCRPercent  int          `json:"roomsWithCRPercent"`
	CookingAllowed      int          `json:"cookingAllowed"`
	AvailableRooms      int          `json:"availableRooms"`
	Gender              GenderCounts `json:"gender"`
}

type BoardinghouseRow struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Rooms          int    `json:"rooms"`
	AvailableRooms int    `json:"availableRooms"`
}

// RoomRow is a room annotated with the boardinghouse that holds it.
type RoomRow struct {
	model.Room
	BoardinghouseID   string `json:"bhId"`
	BoardinghouseName string `json:"bhName"`
}

type Alert struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Dashboard is everything the owner overview shows.
type Dashboard struct {
	Summary        Summary               `json:"summary"`
	Boardinghouses []BoardinghouseRow    `json:"boardinghouses"`
	Rooms          []RoomRow             `json:"rooms"`
	Alerts         []Alert               `json:"alerts"`
	Activity       []model.ActivityEntry `json:"activity"`
}

type DashboardService struct {
	listings OwnerListings
	feed     ActivityFeed
	now      func() time.Time
}

func NewDashboardService(listings OwnerListings, feed ActivityFeed) *DashboardService {
	return &DashboardService{listings: listings, feed: feed, now: time.Now}
}

// Build aggregates the owner's listings.
func (s *DashboardService) Build(ctx context.Context, ownerEmail string) (*Dashboard, error) {
	bhs, err := s.listings.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		Boardinghouses: []BoardinghouseRow{},
		Rooms:          []RoomRow{},
		Alerts:         []Alert{},
	}
	d.Summary.TotalBoardinghouses = len(bhs)

	for _, bh := range bhs {
		row := BoardinghouseRow{ID: bh.ID, Name: bh.Name, Rooms: len(bh.Rooms)}
		for _, r := range bh.Rooms {
			d.Rooms = append(d.Rooms, RoomRow{Room: r, BoardinghouseID: bh.ID, BoardinghouseName: bh.Name})
			d.Summary.TotalRooms++
			if r.WithCR {
				d.Summary.RoomsWithCR++
			}
			if r.CookingAllowed {
				d.Summary.CookingAllowed++
			}
			if r.HasVacancy() {
				d.Summary.AvailableRooms++
				row.AvailableRooms++
			}
			switch strings.ToLower(string(r.Gender)) {
			case "male":
				d.Summary.Gender.Male++
			case "female":
				d.Summary.Gender.Female++
			default:
				d.Summary.Gender.Any++
			}
		}
		d.Boardinghouses = append(d.Boardinghouses, row)
		d.Alerts = append(d.Alerts, alertsFor(bh)...)
	}
	if d.Summary.TotalRooms > 0 {
		d.Summary.RoomsWithCRPercent = int(math.Round(float64(d.Summary.RoomsWithCR) / float64(d.Summary.TotalRooms) * 100))
	}

	d.Activity, err = s.activity(ctx, ownerEmail, bhs)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func alertsFor(bh model.Boardinghouse) []Alert {
	label := bh.Name
	if label == "" {
		label = bh.ID
	}
	var out []Alert
	if len(bh.Rooms) == 0 {
		out = append(out, Alert{ID: "bh-" + bh.ID + "-norooms", Message: fmt.Sprintf("Boardinghouse %q has no rooms.", label)})
	}
	for _, r := range bh.Rooms {
		name := r.RoomName
		if name == "" {
			name = r.ID
		}
		if strings.TrimSpace(r.RoomName) == "" {
			out = append(out, Alert{ID: "room-" + r.ID + "-name", Message: fmt.Sprintf("Room (%s) in %q is missing a name.", r.ID, label)})
		}
		if r.TotalBeds == 0 {
			out = append(out, Alert{ID: "room-" + r.ID + "-totalBeds", Message: fmt.Sprintf("Room %q is missing total beds.", name)})
		}
		if r.RentMissing() {
			out = append(out, Alert{ID: "room-" + r.ID + "-rent", Message: fmt.Sprintf("Room %q is missing rent price.", name)})
		}
	}
	return out
}

// activity returns the stored feed, or one synthesized from listing
// timestamps when nothing has been recorded yet.
func (s *DashboardService) activity(ctx context.Context, ownerEmail string, bhs []model.Boardinghouse) ([]model.ActivityEntry, error) {
	stored, err := s.feed.List(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	out := stored
	if len(out) == 0 {
		out = synthesizeActivity(bhs, s.now())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TS > out[j].TS })
	if len(out) > maxDashboardActivity {
		out = out[:maxDashboardActivity]
	}
	return out, nil
}

func synthesizeActivity(bhs []model.Boardinghouse, now time.Time) []model.ActivityEntry {
	nowMS := now.UnixMilli()
	out := []model.ActivityEntry{}
	for i, bh := range bhs {
		ts := bh.UpdatedAt
		if ts == 0 {
			ts = nowMS - int64(i)*1000
		}
		out = append(out, model.ActivityEntry{
			ID:      "bh-" + bh.ID,
			TS:      ts,
			Message: "Boardinghouse saved: " + nameOr(bh.Name),
			Type:    model.ActivityBoardinghouse,
			Meta:    map[string]string{"id": bh.ID},
		})
		for j, r := range bh.Rooms {
			rts := r.UpdatedAt
			if rts == 0 {
				rts = nowMS - int64(i+j+1)*1000
			}
			out = append(out, model.ActivityEntry{
				ID:      "room-" + r.ID,
				TS:      rts,
				Message: fmt.Sprintf("Room saved: %s (%s)", nameOr(r.RoomName), bh.Name),
				Type:    model.ActivityRoom,
				Meta:    map[string]string{"bhId": bh.ID, "roomId": r.ID},
			})
		}
	}
	return out
}

func nameOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(no name)"
	}
	return s
}
