package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/moralreport/moralreport/internal/auth"
	"github.com/moralreport/moralreport/internal/model"
	"github.com/moralreport/moralreport/internal/token"
)

func newTestTokens(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager(token.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "moralreport",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuth(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t)
	identity := model.Identity{UserID: "01HZX3V7K9Q2M4N6P8R0S2T4V6", Username: "alice", Email: "a@x.com"}
	pair, err := tokens.IssuePair(identity)
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid access token", "Bearer " + pair.Access.Value, http.StatusOK},
		{"lowercase scheme", "bearer " + pair.Access.Value, http.StatusOK},
		{"refresh token rejected", "Bearer " + pair.Refresh.Value, http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + pair.Access.Value, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got *model.AuthContext
			handler := Auth(AuthConfig{Logger: discardLogger(), Verifier: tokens})(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					got = auth.AuthFromContext(r.Context())
					w.WriteHeader(http.StatusOK)
				}),
			)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				if got == nil || got.UserID != identity.UserID || got.Username != "alice" || got.TokenID == "" {
					t.Errorf("auth context = %+v", got)
				}
				return
			}

			if got != nil {
				t.Error("next handler ran for rejected request")
			}
			if !strings.Contains(rec.Body.String(), `"detail":"invalid token"`) {
				t.Errorf("body = %q", rec.Body.String())
			}
			if rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("WWW-Authenticate header not set")
			}
		})
	}
}
