package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/moralreport/moralreport/internal/metrics"
	"github.com/moralreport/moralreport/internal/repository"
)

// LoginResult is a freshly minted token pair with the user's public fields.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Username     string
	Email        string
}

// AuthenticationService exchanges credentials for tokens.
type AuthenticationService struct {
	store   CredentialStore
	hasher  PasswordHasher
	issuer  TokenIssuer
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewAuthenticationService creates a new AuthenticationService.
func NewAuthenticationService(store CredentialStore, hasher PasswordHasher, issuer TokenIssuer, recorder metrics.Recorder, logger *slog.Logger) *AuthenticationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthenticationService{
		store:   store,
		hasher:  hasher,
		issuer:  issuer,
		metrics: recorder,
		logger:  loggerOrDefault(logger),
	}
}

// Authenticate verifies the credentials and mints an access/refresh pair.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials,
// and both pay for one password verification.
func (s *AuthenticationService) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	verr := newValidationError()
	if username == "" {
		verr.Add("username", msgRequired)
	}
	if password == "" {
		verr.Add("password", msgRequired)
	}
	if !verr.empty() {
		s.metrics.IncLogin(metrics.OutcomeRejected)
		return nil, verr
	}
	username = normalizeUsername(username)

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.VerifyDummy(password)
			s.metrics.IncLogin(metrics.OutcomeRejected)
			s.logger.Info("login rejected", slog.String("reason", "invalid_credentials"))
			return nil, ErrInvalidCredentials
		}
		s.metrics.IncLogin(metrics.OutcomeError)
		s.logger.Error("lookup user", slog.String("error", err.Error()))
		return nil, ErrInternal
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		s.logger.Error("verify password",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, ErrInternal
	}
	if !ok {
		s.metrics.IncLogin(metrics.OutcomeRejected)
		s.logger.Info("login rejected",
			slog.String("user_id", user.ID),
			slog.String("reason", "invalid_credentials"),
		)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(user.Identity())
	if err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		s.logger.Error("issue tokens",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, ErrInternal
	}

	s.metrics.IncLogin(metrics.OutcomeSuccess)
	s.logger.Info("user logged in", slog.String("user_id", user.ID))

	return &LoginResult{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
	}, nil
}
