// Package service provides the credential business logic: registration,
// authentication, token refresh and profile lookup.
package service

import (
	"context"
	"log/slog"

	"github.com/moralreport/moralreport/internal/model"
	"github.com/moralreport/moralreport/internal/token"
)

// CredentialStore persists user records. Implementations must enforce
// username and email uniqueness atomically on CreateUser.
type CredentialStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	// VerifyDummy burns the same CPU as Verify against a throwaway hash.
	VerifyDummy(password string)
}

// TokenIssuer mints signed tokens for an identity.
type TokenIssuer interface {
	IssuePair(id model.Identity) (*model.TokenPair, error)
	IssueAccess(id model.Identity) (model.IssuedToken, error)
}

// TokenVerifier validates a raw token of the expected type.
type TokenVerifier interface {
	Verify(raw string, expected model.TokenType) (*token.Claims, error)
}

// UserCache caches user profiles by ID. A nil user with a nil error is a miss.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
