package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:           "01HZX3V7K9Q2M4N6P8R0S2T4V6",
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}

	if strings.Contains(string(data), "argon2id") {
		t.Errorf("serialized user contains password hash: %s", data)
	}
	if strings.Contains(string(data), "password") {
		t.Errorf("serialized user contains password field: %s", data)
	}
}

func TestUser_Identity(t *testing.T) {
	t.Parallel()

	user := &User{ID: "u1", Username: "alice", Email: "a@x.com", PasswordHash: "h"}
	id := user.Identity()

	if id.UserID != "u1" || id.Username != "alice" || id.Email != "a@x.com" {
		t.Errorf("Identity() = %+v, want fields copied from user", id)
	}
}

func TestTokenType_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   TokenType
		want bool
	}{
		{TokenTypeAccess, true},
		{TokenTypeRefresh, true},
		{"", false},
		{"id", false},
	}

	for _, tt := range tests {
		if got := tt.in.IsValid(); got != tt.want {
			t.Errorf("TokenType(%q).IsValid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
