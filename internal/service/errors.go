package service

import (
	"errors"
	"sort"
	"strings"
)

// Service errors.
var (
	ErrConflict           = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInternal           = errors.New("internal error")
)

// Field error messages.
const (
	msgRequired         = "This field is required."
	msgUsernameInvalid  = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgUsernameTooLong  = "Ensure this field has no more than 150 characters."
	msgEmailInvalid     = "Enter a valid email address."
	msgEmailTooLong     = "Ensure this field has no more than 254 characters."
	msgUsernameTaken    = "A user with that username already exists."
	msgEmailTaken       = "A user with that email already exists."
	msgPasswordMismatch = "Password fields didn't match."
)

// ValidationError maps request fields to every reason they were rejected.
// It matches ErrConflict when any reason is a uniqueness conflict.
type ValidationError struct {
	Fields   map[string][]string
	conflict bool
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records a reason against a field.
func (e *ValidationError) Add(field, reason string) {
	e.Fields[field] = append(e.Fields[field], reason)
}

// AddConflict records a uniqueness conflict against a field.
func (e *ValidationError) AddConflict(field, reason string) {
	e.Add(field, reason)
	e.conflict = true
}

// Has reports whether the field already has a reason.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// Error lists the rejected fields in a stable order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("validation failed")
	for i, name := range names {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields[name], " "))
	}
	return b.String()
}

// Is lets errors.Is(err, ErrConflict) detect duplicate username or email.
func (e *ValidationError) Is(target error) bool {
	return target == ErrConflict && e.conflict
}

// AsValidationError extracts a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
