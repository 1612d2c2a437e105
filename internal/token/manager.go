// Package token issues and verifies the signed access and refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/moralreport/moralreport/internal/model"
)

// MinSecretLength is the minimum HS256 secret length in bytes.
const MinSecretLength = 32

var (
	// ErrInvalidToken is returned for any malformed, expired, badly signed
	// or wrong-type token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidConfig is returned by NewManager for unusable settings.
	ErrInvalidConfig = errors.New("invalid token configuration")
)

// Config holds token issuing settings. It is loaded once at startup.
type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims is the payload carried by every token.
type Claims struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	TokenType model.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Identity returns the user identity embedded in the claims.
func (c *Claims) Identity() model.Identity {
	return model.Identity{
		UserID:   c.Subject,
		Username: c.Username,
		Email:    c.Email,
	}
}

// Manager signs and verifies tokens with a shared HS256 secret.
// It holds no mutable state and is safe for concurrent use.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewManager validates the configuration and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: secret must be at least %d bytes", ErrInvalidConfig, MinSecretLength)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidConfig)
	}
	if cfg.AccessTTL >= cfg.RefreshTTL {
		return nil, fmt.Errorf("%w: access lifetime must be shorter than refresh lifetime", ErrInvalidConfig)
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Manager{
		secret:     secret,
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

// IssuePair mints an access token and a refresh token for the identity.
func (m *Manager) IssuePair(id model.Identity) (*model.TokenPair, error) {
	access, err := m.issue(id, model.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	refresh, err := m.issue(id, model.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	return &model.TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueAccess mints a new access token for the identity.
func (m *Manager) IssueAccess(id model.Identity) (model.IssuedToken, error) {
	return m.issue(id, model.TokenTypeAccess)
}

func (m *Manager) issue(id model.Identity, typ model.TokenType) (model.IssuedToken, error) {
	if id.UserID == "" {
		return model.IssuedToken{}, errors.New("token subject is required")
	}

	ttl := m.accessTTL
	if typ == model.TokenTypeRefresh {
		ttl = m.refreshTTL
	}

	now := m.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Username:  id.Username,
		Email:     id.Email,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        ulid.Make().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("sign %s token: %w", typ, err)
	}

	return model.IssuedToken{
		Value:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks the signature, expiry, issuer and type of a token.
// Any failure yields an error wrapping ErrInvalidToken and no claims.
func (m *Manager) Verify(raw string, expected model.TokenType) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	if !expected.IsValid() {
		return nil, fmt.Errorf("%w: unknown token type %q", ErrInvalidToken, expected)
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		options = append(options, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.NewParser(options...).ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expected {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, expected, claims.TokenType)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}
