package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/moralreport/moralreport/internal/metrics"
	"github.com/moralreport/moralreport/internal/model"
	"github.com/moralreport/moralreport/internal/repository"
)

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// RegistrationService validates and creates user accounts.
type RegistrationService struct {
	store   CredentialStore
	hasher  PasswordHasher
	policy  PasswordPolicy
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(store CredentialStore, hasher PasswordHasher, policy PasswordPolicy, recorder metrics.Recorder, logger *slog.Logger) *RegistrationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RegistrationService{
		store:   store,
		hasher:  hasher,
		policy:  policy,
		metrics: recorder,
		logger:  loggerOrDefault(logger),
		now:     time.Now,
	}
}

// Register validates the input and persists a new user with a hashed password.
// Every problem with the input is reported at once in a *ValidationError.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := normalizeUsername(input.Username)
	email := strings.TrimSpace(input.Email)

	verr := s.validate(input.Password, input.PasswordConfirmation, username, email)

	if err := s.checkAvailability(ctx, verr, username, email); err != nil {
		s.metrics.IncRegistration(metrics.OutcomeError)
		return nil, err
	}

	if !verr.empty() {
		s.metrics.IncRegistration(metrics.OutcomeRejected)
		s.logger.Info("registration rejected",
			slog.String("username", username),
			slog.Any("fields", fieldNames(verr)),
		)
		return nil, verr
	}

	started := time.Now()
	hash, err := s.hasher.Hash(input.Password)
	s.metrics.ObservePasswordHashDuration(time.Since(started))
	if err != nil {
		s.metrics.IncRegistration(metrics.OutcomeError)
		s.logger.Error("hash password", slog.String("error", err.Error()))
		return nil, ErrInternal
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		conflict := newValidationError()
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			conflict.AddConflict("username", msgUsernameTaken)
		case errors.Is(err, repository.ErrEmailExists):
			conflict.AddConflict("email", msgEmailTaken)
		default:
			s.metrics.IncRegistration(metrics.OutcomeError)
			s.logger.Error("create user", slog.String("error", err.Error()))
			return nil, ErrInternal
		}
		s.metrics.IncRegistration(metrics.OutcomeRejected)
		return nil, conflict
	}

	s.metrics.IncRegistration(metrics.OutcomeSuccess)
	s.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

func (s *RegistrationService) validate(password, confirmation, username, email string) *ValidationError {
	verr := newValidationError()

	for _, reason := range validateUsername(username) {
		verr.Add("username", reason)
	}
	for _, reason := range validateEmail(email) {
		verr.Add("email", reason)
	}

	switch {
	case password == "":
		verr.Add("password", msgRequired)
	case confirmation == "":
		verr.Add("password_confirmation", msgRequired)
	case password != confirmation:
		verr.Add("password", msgPasswordMismatch)
	}

	if password != "" {
		for _, reason := range s.policy.Validate(password, username, email) {
			verr.Add("password", reason)
		}
	}

	return verr
}

// checkAvailability adds conflicts for taken usernames and emails so they are
// reported with the other field errors. The store's unique constraints remain
// the final guard.
func (s *RegistrationService) checkAvailability(ctx context.Context, verr *ValidationError, username, email string) error {
	if !verr.Has("username") {
		taken, err := s.store.UsernameExists(ctx, username)
		if err != nil {
			s.logger.Error("check username", slog.String("error", err.Error()))
			return fmt.Errorf("%w: check username", ErrInternal)
		}
		if taken {
			verr.AddConflict("username", msgUsernameTaken)
		}
	}

	if !verr.Has("email") {
		taken, err := s.store.EmailExists(ctx, email)
		if err != nil {
			s.logger.Error("check email", slog.String("error", err.Error()))
			return fmt.Errorf("%w: check email", ErrInternal)
		}
		if taken {
			verr.AddConflict("email", msgEmailTaken)
		}
	}

	return nil
}

func fieldNames(verr *ValidationError) []string {
	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
