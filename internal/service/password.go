package service

import (
	"bufio"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

//go:embed common_passwords.txt
var commonPasswordsFile string

var commonPasswords = loadCommonPasswords(commonPasswordsFile)

func loadCommonPasswords(data string) map[string]struct{} {
	set := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = struct{}{}
	}
	return set
}

// Password policy defaults.
const (
	DefaultPasswordMinLength = 8
	// maxSimilarity is the character-overlap ratio at or above which a
	// password counts as too similar to a user attribute.
	maxSimilarity = 0.7
)

// PasswordPolicy is the configurable complexity check applied at registration.
type PasswordPolicy struct {
	MinLength     int
	RejectNumeric bool
	RejectCommon  bool
	RejectSimilar bool
}

// DefaultPasswordPolicy enables every check with an 8 character minimum.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:     DefaultPasswordMinLength,
		RejectNumeric: true,
		RejectCommon:  true,
		RejectSimilar: true,
	}
}

// Validate returns every reason the password fails the policy.
// An empty result means the password is acceptable.
func (p PasswordPolicy) Validate(password, username, email string) []string {
	var reasons []string

	if p.RejectSimilar {
		if attr := similarAttribute(password, username, email); attr != "" {
			reasons = append(reasons, fmt.Sprintf("The password is too similar to the %s.", attr))
		}
	}

	if p.MinLength > 0 && len([]rune(password)) < p.MinLength {
		reasons = append(reasons, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", p.MinLength))
	}

	if p.RejectCommon {
		if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
			reasons = append(reasons, "This password is too common.")
		}
	}

	if p.RejectNumeric && isNumeric(password) {
		reasons = append(reasons, "This password is entirely numeric.")
	}

	return reasons
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var nonWord = regexp.MustCompile(`\W+`)

// similarAttribute names the first user attribute the password resembles,
// or returns "" when none does.
func similarAttribute(password, username, email string) string {
	password = strings.ToLower(password)

	attrs := []struct {
		name  string
		value string
	}{
		{"username", username},
		{"email address", email},
	}

	for _, attr := range attrs {
		value := strings.ToLower(attr.value)
		if value == "" || exceedsLengthRatio(password, value) {
			continue
		}
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if part == "" {
				continue
			}
			if overlapRatio(password, part) >= maxSimilarity {
				return attr.name
			}
		}
	}
	return ""
}

// exceedsLengthRatio skips the similarity check when the password is so much
// longer than the attribute that a match is meaningless.
func exceedsLengthRatio(password, value string) bool {
	pwdLen := len([]rune(password))
	valueLen := len([]rune(value))
	bound := maxSimilarity / 2 * float64(pwdLen)
	return pwdLen >= 10*valueLen && float64(valueLen) < bound
}

// overlapRatio is 2*M/T where M counts characters shared by a and b
// (with multiplicity) and T is their combined length.
func overlapRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	avail := make(map[rune]int, len(rb))
	for _, r := range rb {
		avail[r]++
	}
	matches := 0
	for _, r := range ra {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}
