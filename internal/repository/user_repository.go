package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/homebase-finder/internal/kv"
	"github.com/iliyamo/homebase-finder/internal/model"
	"github.com/iliyamo/homebase-finder/internal/utils"
)

const registeredUsersKey = "registeredUsers"

// UserRepo stores registered credentials as one list.  Email uniqueness
// is checked inside the same atomic update that appends the user.
type UserRepo struct {
	store kv.Store
	now   func() time.Time
}

func NewUserRepo(store kv.Store) *UserRepo { return &UserRepo{store: store, now: time.Now} }

// Create hashes password and stores a new user.
func (r *UserRepo) Create(ctx context.Context, fullName, email, password, role string, cost int) (*model.User, error) {
	email = model.NormalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	u := model.User{
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    r.now().UnixMilli(),
	}
	err = updateList(ctx, r.store, registeredUsersKey, func(all []model.User) ([]model.User, error) {
		for _, existing := range all {
			if strings.EqualFold(existing.Email, email) {
				return nil, ErrEmailExists
			}
		}
		return append(all, u), nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	all, err := readList[model.User](ctx, r.store, registeredUsersKey)
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

// Delete removes the credential so the account can no longer log in.
func (r *UserRepo) Delete(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	return updateList(ctx, r.store, registeredUsersKey, func(all []model.User) ([]model.User, error) {
		kept := all[:0]
		found := false
		for _, u := range all {
			if strings.EqualFold(u.Email, email) {
				found = true
				continue
			}
			kept = append(kept, u)
		}
		if !found {
			return nil, ErrUserNotFound
		}
		return kept, nil
	})
}
