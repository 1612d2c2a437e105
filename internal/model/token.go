package model

import "time"

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// IsValid checks if the token type is known.
func (t TokenType) IsValid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// Identity is the user information embedded in every token.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// IssuedToken is a signed token together with its expiry.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenPair bundles a short-lived access token and a longer-lived refresh token.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
