package repository

// This file defines the boardinghouse storage accessor.  The whole
// collection is one JSON array stored under the "boardinghouses" key;
// every method reads it, scans linearly and, for mutations, writes it back
// inside a single atomic kv update so concurrent writers never lose data.

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/homebase-finder/internal/kv"
	"github.com/iliyamo/homebase-finder/internal/model"
)

const boardinghousesKey = "boardinghouses"

// BoardinghouseRepo encapsulates all reads and writes of boardinghouses
// and their nested rooms.
type BoardinghouseRepo struct {
	store kv.Store
	now   func() time.Time
}

// NewBoardinghouseRepo constructs a BoardinghouseRepo on top of store.
func NewBoardinghouseRepo(store kv.Store) *BoardinghouseRepo {
	return &BoardinghouseRepo{store: store, now: time.Now}
}

func (r *BoardinghouseRepo) readAll(ctx context.Context) ([]model.Boardinghouse, error) {
	all, err := readList[model.Boardinghouse](ctx, r.store, boardinghousesKey)
	if err != nil {
		return nil, fmt.Errorf("read boardinghouses: %w", err)
	}
	for i := range all {
		all[i].Normalize()
	}
	return all, nil
}

func (r *BoardinghouseRepo) update(ctx context.Context, fn func([]model.Boardinghouse) ([]model.Boardinghouse, error)) error {
	return updateList(ctx, r.store, boardinghousesKey, fn)
}

// ListAll returns every boardinghouse, newest first.
func (r *BoardinghouseRepo) ListAll(ctx context.Context) ([]model.Boardinghouse, error) {
	return r.readAll(ctx)
}

// ListByOwner returns the boardinghouses owned by ownerEmail.  An empty
// email yields an empty list.
func (r *BoardinghouseRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]model.Boardinghouse, error) {
	out := []model.Boardinghouse{}
	if strings.TrimSpace(ownerEmail) == "" {
		return out, nil
	}
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range all {
		if b.OwnedBy(ownerEmail) {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetByID returns ErrBoardinghouseNotFound when no boardinghouse has id.
func (r *BoardinghouseRepo) GetByID(ctx context.Context, id string) (*model.Boardinghouse, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrBoardinghouseNotFound
}

// ListAllRooms flattens the rooms of every boardinghouse.
func (r *BoardinghouseRepo) ListAllRooms(ctx context.Context) ([]model.Room, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	rooms := []model.Room{}
	for _, b := range all {
		rooms = append(rooms, b.Rooms...)
	}
	return rooms, nil
}

// Version returns a content hash of the stored collection.  It changes
// whenever any boardinghouse or room is written and serves as an ETag.
func (r *BoardinghouseRepo) Version(ctx context.Context) (string, error) {
	raw, err := r.store.Get(ctx, boardinghousesKey)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return "", fmt.Errorf("read boardinghouses: %w", err)
	}
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Create stores a new boardinghouse at the front of the collection.  An
// id is generated when b.ID is empty; nil photos and rooms become empty.
func (r *BoardinghouseRepo) Create(ctx context.Context, b model.Boardinghouse) (*model.Boardinghouse, error) {
	now := r.now()
	if b.ID == "" {
		b.ID = genID("bh_", now)
	}
	b.OwnerEmail = model.NormalizeEmail(b.OwnerEmail)
	b.UpdatedAt = now.UnixMilli()
	b.Normalize()
	for i := range b.Rooms {
		if err := b.Rooms[i].Validate(); err != nil {
			return nil, err
		}
		if b.Rooms[i].ID == "" {
			b.Rooms[i].ID = genID("room_", now)
		}
		b.Rooms[i].UpdatedAt = b.UpdatedAt
	}

	err := r.update(ctx, func(all []model.Boardinghouse) ([]model.Boardinghouse, error) {
		return append([]model.Boardinghouse{b}, all...), nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// mutateOwned runs fn on the boardinghouse with id after checking that it
// belongs to ownerEmail.  The collection is written only if fn succeeds.
func (r *BoardinghouseRepo) mutateOwned(ctx context.Context, id, ownerEmail string, fn func(b *model.Boardinghouse) error) (*model.Boardinghouse, error) {
	var out model.Boardinghouse
	err := r.update(ctx, func(all []model.Boardinghouse) ([]model.Boardinghouse, error) {
		for i := range all {
			if all[i].ID != id {
				continue
			}
			if !all[i].OwnedBy(ownerEmail) {
				return nil, ErrForbidden
			}
			all[i].Normalize()
			if err := fn(&all[i]); err != nil {
				return nil, err
			}
			all[i].UpdatedAt = r.now().UnixMilli()
			out = all[i]
			return all, nil
		}
		return nil, ErrBoardinghouseNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateByIDAndOwner applies patch to a boardinghouse owned by ownerEmail.
// Fields left nil in the patch, and the rooms, are preserved.
func (r *BoardinghouseRepo) UpdateByIDAndOwner(ctx context.Context, id, ownerEmail string, patch model.BoardinghousePatch) (*model.Boardinghouse, error) {
	return r.mutateOwned(ctx, id, ownerEmail, func(b *model.Boardinghouse) error {
		patch.Apply(b)
		return nil
	})
}

// DeleteByIDAndOwner removes a boardinghouse and its rooms.
func (r *BoardinghouseRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerEmail string) error {
	return r.update(ctx, func(all []model.Boardinghouse) ([]model.Boardinghouse, error) {
		for i := range all {
			if all[i].ID != id {
				continue
			}
			if !all[i].OwnedBy(ownerEmail) {
				return nil, ErrForbidden
			}
			return append(all[:i], all[i+1:]...), nil
		}
		return nil, ErrBoardinghouseNotFound
	})
}

// DeleteAllByOwner removes every boardinghouse owned by ownerEmail and
// returns how many were removed.
func (r *BoardinghouseRepo) DeleteAllByOwner(ctx context.Context, ownerEmail string) (int, error) {
	if strings.TrimSpace(ownerEmail) == "" {
		return 0, nil
	}
	removed := 0
	err := r.update(ctx, func(all []model.Boardinghouse) ([]model.Boardinghouse, error) {
		kept := all[:0]
		for _, b := range all {
			if b.OwnedBy(ownerEmail) {
				removed++
				continue
			}
			kept = append(kept, b)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// AddRoom prepends room to the boardinghouse bhID.  A room id is
// generated when empty.
func (r *BoardinghouseRepo) AddRoom(ctx context.Context, bhID, ownerEmail string, room model.Room) (*model.Room, error) {
	now := r.now()
	if room.ID == "" {
		room.ID = genID("room_", now)
	}
	room.UpdatedAt = now.UnixMilli()
	if room.Inclusions == nil {
		room.Inclusions = []string{}
	}
	if room.Gender == "" {
		room.Gender = model.GenderAny
	}
	if err := room.Validate(); err != nil {
		return nil, err
	}

	_, err := r.mutateOwned(ctx, bhID, ownerEmail, func(b *model.Boardinghouse) error {
		b.Rooms = append([]model.Room{room}, b.Rooms...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateRoom merges patch into the room roomID.  Nil inclusions keep the
// stored list.
func (r *BoardinghouseRepo) UpdateRoom(ctx context.Context, bhID, roomID, ownerEmail string, patch model.RoomPatch) (*model.Room, error) {
	var out model.Room
	_, err := r.mutateOwned(ctx, bhID, ownerEmail, func(b *model.Boardinghouse) error {
		idx := b.RoomIndex(roomID)
		if idx == -1 {
			return ErrRoomNotFound
		}
		merged := b.Rooms[idx]
		patch.Apply(&merged)
		if err := merged.Validate(); err != nil {
			return err
		}
		merged.UpdatedAt = r.now().UnixMilli()
		b.Rooms[idx] = merged
		out = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRoom removes the room roomID from boardinghouse bhID.
func (r *BoardinghouseRepo) DeleteRoom(ctx context.Context, bhID, roomID, ownerEmail string) error {
	_, err := r.mutateOwned(ctx, bhID, ownerEmail, func(b *model.Boardinghouse) error {
		idx := b.RoomIndex(roomID)
		if idx == -1 {
			return ErrRoomNotFound
		}
		b.Rooms = append(b.Rooms[:idx], b.Rooms[idx+1:]...)
		return nil
	})
	return err
}
