package handlers

import "strings"

// Validation limits.
const (
	MaxEmailLength    = 254
	MaxPasswordLength = 128
	MaxNameLength     = 100
)

// SanitizeEmail trims and lowercases email; returns empty if invalid length.
func SanitizeEmail(email string) string {
	s := strings.TrimSpace(strings.ToLower(email))
	if len(s) > MaxEmailLength {
		return ""
	}
	return s
}

// SanitizePassword returns empty if over max length. Passwords are not
// trimmed: surrounding spaces are part of the secret.
func SanitizePassword(password string) string {
	if len(password) > MaxPasswordLength {
		return ""
	}
	return password
}

// SanitizeName trims and caps a display name.
func SanitizeName(name string) string {
	s := strings.TrimSpace(name)
	if len(s) > MaxNameLength {
		s = s[:MaxNameLength]
	}
	return s
}
