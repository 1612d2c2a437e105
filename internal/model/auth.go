package model

// AuthContext is the identity of an authenticated request.
// It is built from a verified access token.
type AuthContext struct {
	UserID   string
	Username string
	Email    string
	TokenID  string
}
