package auth

import (
	"context"
	"testing"

	"github.com/moralreport/moralreport/internal/model"
)

func TestAuthFromContext(t *testing.T) {
	t.Parallel()

	if got := AuthFromContext(context.Background()); got != nil {
		t.Errorf("AuthFromContext on empty context = %+v, want nil", got)
	}
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("UserIDFromContext on empty context = %q, want empty", got)
	}

	ctx := ContextWithAuth(context.Background(), &model.AuthContext{UserID: "u1", Username: "alice"})

	got := AuthFromContext(ctx)
	if got == nil || got.Username != "alice" {
		t.Fatalf("AuthFromContext = %+v, want alice", got)
	}
	if id := UserIDFromContext(ctx); id != "u1" {
		t.Errorf("UserIDFromContext = %q, want u1", id)
	}
}
