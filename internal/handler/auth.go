package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/moralreport/moralreport/internal/auth"
	"github.com/moralreport/moralreport/internal/handler/dto"
	"github.com/moralreport/moralreport/internal/service"
)

// AuthHandler handles the registration, login, refresh and profile routes.
type AuthHandler struct {
	registration *service.RegistrationService
	authn        *service.AuthenticationService
	refresh      *service.RefreshService
	profiles     *service.ProfileService
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	registration *service.RegistrationService,
	authn *service.AuthenticationService,
	refresh *service.RefreshService,
	profiles *service.ProfileService,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		authn:        authn,
		refresh:      refresh,
		profiles:     profiles,
		logger:       logger,
	}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.registration.Register(r.Context(), req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.ToResponse())
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.authn.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLoginResponse(result))
}

// Refresh handles POST /refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.refresh.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RefreshResponse{AccessToken: result.AccessToken})
}

// Me handles GET /me. It must run behind the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeDetail(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user, err := h.profiles.GetProfile(r.Context(), authCtx.UserID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToResponse())
}

// decode reads a JSON body into dst. It writes a 400 and returns false when
// the body is missing or malformed.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// handleServiceError maps service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := service.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		writeDetail(w, http.StatusUnauthorized, "invalid token")
	default:
		h.logger.Error("request failed",
			slog.String("endpoint", r.Method+" "+r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}
