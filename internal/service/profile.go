package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/moralreport/moralreport/internal/model"
	"github.com/moralreport/moralreport/internal/repository"
)

// ProfileService resolves the account behind an authenticated request.
type ProfileService struct {
	store  CredentialStore
	cache  UserCache
	logger *slog.Logger
}

// NewProfileService creates a new ProfileService. cache may be nil.
func NewProfileService(store CredentialStore, cache UserCache, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		cache:  cache,
		logger: loggerOrDefault(logger),
	}
}

// GetProfile returns the user for an ID taken from a verified access token.
// A token whose user no longer exists is treated as invalid.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	if s.cache != nil {
		cached, err := s.cache.GetUser(ctx, userID)
		if err != nil {
			s.logger.Warn("user cache read failed", slog.String("error", err.Error()))
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("lookup user", slog.String("error", err.Error()))
		return nil, ErrInternal
	}

	if s.cache != nil {
		if err := s.cache.SetUser(ctx, user); err != nil {
			s.logger.Warn("user cache write failed", slog.String("error", err.Error()))
		}
	}

	return user, nil
}
