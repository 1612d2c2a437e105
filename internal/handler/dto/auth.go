// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/moralreport/moralreport/internal/service"

// RegisterRequest represents the request body for POST /register.
// password2 is accepted as an alias of password_confirmation.
type RegisterRequest struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Password2            string `json:"password2,omitempty"`
}

// ToInput converts the request into service input.
func (r RegisterRequest) ToInput() service.RegisterInput {
	confirmation := r.PasswordConfirmation
	if confirmation == "" {
		confirmation = r.Password2
	}
	return service.RegisterInput{
		Username:             r.Username,
		Email:                r.Email,
		Password:             r.Password,
		PasswordConfirmation: confirmation,
	}
}

// LoginRequest represents the request body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

// ToLoginResponse converts a LoginResult to its response body.
func ToLoginResponse(result *service.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		UserID:       result.UserID,
		Username:     result.Username,
		Email:        result.Email,
	}
}

// RefreshRequest represents the request body for POST /refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse carries the newly issued access token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// ErrorResponse represents a non-field API error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
