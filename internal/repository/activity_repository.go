package repository

import (
	"context"
	"sort"

	"github.com/iliyamo/homebase-finder/internal/kv"
	"github.com/iliyamo/homebase-finder/internal/model"
)

// maxActivityEntries caps each owner's stored feed.
const maxActivityEntries = 200

func activityKey(email string) string { return "activityLog:" + model.NormalizeEmail(email) }

// ActivityRepo stores each owner's activity feed newest first.
type ActivityRepo struct{ store kv.Store }

func NewActivityRepo(store kv.Store) *ActivityRepo { return &ActivityRepo{store: store} }

// Append adds e to the owner's feed, keeping the newest entries.
func (r *ActivityRepo) Append(ctx context.Context, ownerEmail string, e model.ActivityEntry) error {
	return updateList(ctx, r.store, activityKey(ownerEmail), func(all []model.ActivityEntry) ([]model.ActivityEntry, error) {
		all = append(all, e)
		sort.SliceStable(all, func(i, j int) bool { return all[i].TS > all[j].TS })
		if len(all) > maxActivityEntries {
			all = all[:maxActivityEntries]
		}
		return all, nil
	})
}

// List returns the owner's feed newest first.
func (r *ActivityRepo) List(ctx context.Context, ownerEmail string) ([]model.ActivityEntry, error) {
	return readList[model.ActivityEntry](ctx, r.store, activityKey(ownerEmail))
}

// Clear drops the owner's feed.
func (r *ActivityRepo) Clear(ctx context.Context, ownerEmail string) error {
	return r.store.Delete(ctx, activityKey(ownerEmail))
}
