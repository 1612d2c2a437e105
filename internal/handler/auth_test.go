package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/moralreport/moralreport/internal/service"
)

func TestAuthHandler_MeWithoutAuthContext(t *testing.T) {
	h := NewAuthHandler(nil, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthHandler_HandleServiceError(t *testing.T) {
	h := NewAuthHandler(nil, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, `{"detail":"invalid credentials"}`},
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized, `{"detail":"invalid token"}`},
		{"internal", errors.New("pgx: connection to 10.1.2.3 refused"), http.StatusInternalServerError, `{"detail":"internal error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.handleServiceError(rec, httptest.NewRequest(http.MethodPost, "/login", nil), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if strings.TrimSpace(rec.Body.String()) != tt.wantBody {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
