package service

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		want     []string
	}{
		{"simple", "alice", nil},
		{"allowed punctuation", "a.l+i-c_e@home", nil},
		{"unicode letters", "zoë", nil},
		{"empty", "", []string{msgRequired}},
		{"space", "al ice", []string{msgUsernameInvalid}},
		{"slash", "al/ice", []string{msgUsernameInvalid}},
		{"too long", strings.Repeat("a", MaxUsernameLength+1), []string{msgUsernameTooLong}},
		{"max length", strings.Repeat("a", MaxUsernameLength), nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := validateUsername(tt.username)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("validateUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		ok    bool
	}{
		{"simple", "a@x.com", true},
		{"subdomain", "first.last@mail.example.org", true},
		{"plus", "a+tag@x.com", true},
		{"empty", "", false},
		{"no at", "ax.com", false},
		{"no domain dot", "a@localhost", false},
		{"display name", "Alice <a@x.com>", false},
		{"too long", strings.Repeat("a", 250) + "@x.com", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := validateEmail(tt.email)
			if (len(got) == 0) != tt.ok {
				t.Errorf("validateEmail(%q) = %v, want ok=%v", tt.email, got, tt.ok)
			}
		})
	}
}

func TestValidationError_ErrorIsStable(t *testing.T) {
	t.Parallel()

	verr := newValidationError()
	verr.Add("password", "b")
	verr.Add("email", "a")
	verr.Add("password", "c")

	want := "validation failed: email: a; password: b c"
	if verr.Error() != want {
		t.Errorf("Error() = %q, want %q", verr.Error(), want)
	}
}

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"  alice ", "alice"},
		{"\ufb01nn", "finn"},
		{"\uff41\uff4c\uff49", "ali"},
		{"zoe\u0308", "zo\u00eb"},
	}

	for _, tt := range tests {
		if got := normalizeUsername(tt.in); got != tt.want {
			t.Errorf("normalizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFieldNames_Sorted(t *testing.T) {
	t.Parallel()

	verr := newValidationError()
	for _, field := range []string{"username", "password_confirmation", "email", "password"} {
		verr.Add(field, msgRequired)
	}

	want := []string{"email", "password", "password_confirmation", "username"}
	for i := 0; i < 10; i++ {
		got := fieldNames(verr)
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("fieldNames() = %v, want %v", got, want)
		}
	}
}
