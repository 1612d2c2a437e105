package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Field limits.
const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
)

// usernamePattern allows unicode letters, digits and @.+-_ only.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// normalizeUsername trims and NFKC-folds a username so compatibility forms
// such as "\ufb01nn" and "finn" name the same account.
func normalizeUsername(username string) string {
	return norm.NFKC.String(strings.TrimSpace(username))
}

// validateUsername returns the reasons a username is unacceptable.
func validateUsername(username string) []string {
	if username == "" {
		return []string{msgRequired}
	}

	var reasons []string
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		reasons = append(reasons, msgUsernameTooLong)
	}
	if !usernamePattern.MatchString(username) {
		reasons = append(reasons, msgUsernameInvalid)
	}
	return reasons
}

// validateEmail returns the reasons an email address is unacceptable.
// Display names ("Alice <a@x.com>") are rejected.
func validateEmail(email string) []string {
	if email == "" {
		return []string{msgRequired}
	}
	if len(email) > MaxEmailLength {
		return []string{msgEmailTooLong}
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return []string{msgEmailInvalid}
	}

	at := strings.LastIndexByte(email, '@')
	if at <= 0 || !strings.Contains(email[at+1:], ".") {
		return []string{msgEmailInvalid}
	}
	return nil
}
