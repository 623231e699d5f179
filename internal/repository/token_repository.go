package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/homebase-finder/internal/kv"
	"github.com/iliyamo/homebase-finder/internal/model"
)

// refreshRecord is stored under refresh:<hash>.  The key carries a TTL
// equal to the token lifetime so expired tokens disappear on their own.
type refreshRecord struct {
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expiresAt"`
}

// TokenRepo persists/validates refresh tokens.  Only the sha256 hash of a
// token is stored.  refresh-index:<email> lists the hashes of a user so
// all sessions can be revoked at once.
type TokenRepo struct {
	store kv.Store
	now   func() time.Time
}

func NewTokenRepo(store kv.Store) *TokenRepo { return &TokenRepo{store: store, now: time.Now} }

func refreshKey(hash string) string { return "refresh:" + hash }
func indexKey(email string) string { return "refresh-index:" + email }

// StoreRefresh saves a refresh token hash for email until exp.
func (r *TokenRepo) StoreRefresh(ctx context.Context, email, tokenHash string, exp time.Time) error {
	email = model.NormalizeEmail(email)
	ttl := exp.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}
	b, err := json.Marshal(refreshRecord{Email: email, ExpiresAt: exp.UnixMilli()})
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, refreshKey(tokenHash), b, ttl); err != nil {
		return err
	}
	dead, err := r.expiredHashes(ctx, email)
	if err != nil {
		return err
	}
	return updateList(ctx, r.store, indexKey(email), func(hashes []string) ([]string, error) {
		return append(without(hashes, dead), tokenHash), nil
	})
}

// expiredHashes lists the indexed hashes of email whose token record is
// gone, either expired or revoked.
func (r *TokenRepo) expiredHashes(ctx context.Context, email string) (map[string]bool, error) {
	hashes, err := readList[string](ctx, r.store, indexKey(email))
	if err != nil {
		return nil, err
	}
	dead := map[string]bool{}
	for _, h := range hashes {
		_, err := r.store.Get(ctx, refreshKey(h))
		switch {
		case errors.Is(err, kv.ErrNotFound):
			dead[h] = true
		case err != nil:
			return nil, err
		}
	}
	return dead, nil
}

func without(hashes []string, drop map[string]bool) []string {
	kept := make([]string, 0, len(hashes))
	for _, h := range hashes {
		if !drop[h] {
			kept = append(kept, h)
		}
	}
	return kept
}

// ValidateRefresh returns the owner email if a non-revoked, non-expired
// token exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	raw, err := r.store.Get(ctx, refreshKey(tokenHash))
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	var rec refreshRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return "", ErrInvalidToken
	}
	if r.now().UnixMilli() >= rec.ExpiresAt {
		return "", ErrInvalidToken
	}
	return rec.Email, nil
}

// RevokeByHash invalidates a single token and drops it from its owner's
// index.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	raw, err := r.store.Get(ctx, refreshKey(tokenHash))
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, refreshKey(tokenHash)); err != nil {
		return err
	}
	var rec refreshRecord
	if json.Unmarshal(raw, &rec) != nil || rec.Email == "" {
		return nil
	}
	return updateList(ctx, r.store, indexKey(rec.Email), func(hashes []string) ([]string, error) {
		return without(hashes, map[string]bool{tokenHash: true}), nil
	})
}

// RevokeAllForUser revokes all user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	var hashes []string
	err := updateList(ctx, r.store, indexKey(email), func(cur []string) ([]string, error) {
		hashes = cur
		return []string{}, nil
	})
	if err != nil {
		return err
	}
	for _, h := range hashes {
		if err := r.store.Delete(ctx, refreshKey(h)); err != nil {
			return err
		}
	}
	return r.store.Delete(ctx, indexKey(email))
}
