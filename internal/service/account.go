package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/homebase-finder/internal/model"
	"github.com/iliyamo/homebase-finder/internal/repository"
)

// AccountService removes an account together with everything it owns.
type AccountService struct {
	bhs      *repository.BoardinghouseRepo
	users    *repository.UserRepo
	profiles *repository.ProfileRepo
	tokens   *repository.TokenRepo
	activity *repository.ActivityRepo
	log      *zap.Logger
}

func NewAccountService(
	bhs *repository.BoardinghouseRepo,
	users *repository.UserRepo,
	profiles *repository.ProfileRepo,
	tokens *repository.TokenRepo,
	activity *repository.ActivityRepo,
	log *zap.Logger,
) *AccountService {
	return &AccountService{bhs: bhs, users: users, profiles: profiles, tokens: tokens, activity: activity, log: log}
}

// Delete removes the owner's boardinghouses, the profile, the credential,
// every refresh token and the activity feed.  Listings are removed first;
// the credential last.
func (s *AccountService) Delete(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	n, err := s.bhs.DeleteAllByOwner(ctx, email)
	if err != nil {
		return fmt.Errorf("delete boardinghouses: %w", err)
	}
	if err := s.tokens.RevokeAllForUser(ctx, email); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	if err := s.profiles.Delete(ctx, email); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if err := s.activity.Clear(ctx, email); err != nil {
		return fmt.Errorf("clear activity: %w", err)
	}
	if err := s.users.Delete(ctx, email); err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("delete credential: %w", err)
	}
	s.log.Info("account deleted", zap.String("email", email), zap.Int("boardinghouses", n))
	return nil
}
