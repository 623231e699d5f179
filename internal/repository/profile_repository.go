package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/homebase-finder/internal/kv"
	"github.com/iliyamo/homebase-finder/internal/model"
)

const profilesKey = "users"

// ProfileRepo keeps the display profile (name, avatar) of every account
// that has logged in at least once.
type ProfileRepo struct{ store kv.Store }

func NewProfileRepo(store kv.Store) *ProfileRepo { return &ProfileRepo{store: store} }

// Get returns the stored profile or ErrUserNotFound.
func (r *ProfileRepo) Get(ctx context.Context, email string) (*model.Profile, error) {
	all, err := readList[model.Profile](ctx, r.store, profilesKey)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Email, email) {
			return &all[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// Upsert inserts p or replaces the profile with the same email.
func (r *ProfileRepo) Upsert(ctx context.Context, p model.Profile) error {
	p.Email = model.NormalizeEmail(p.Email)
	return updateList(ctx, r.store, profilesKey, func(all []model.Profile) ([]model.Profile, error) {
		for i := range all {
			if strings.EqualFold(all[i].Email, p.Email) {
				all[i] = p
				return all, nil
			}
		}
		return append(all, p), nil
	})
}

// Delete removes the profile; a missing profile is not an error.
func (r *ProfileRepo) Delete(ctx context.Context, email string) error {
	return updateList(ctx, r.store, profilesKey, func(all []model.Profile) ([]model.Profile, error) {
		kept := all[:0]
		for _, p := range all {
			if !strings.EqualFold(p.Email, email) {
				kept = append(kept, p)
			}
		}
		return kept, nil
	})
}
