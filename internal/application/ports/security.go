package ports

import "time"

// PasswordHasher hashes and verifies passwords (bcrypt).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// SessionTokenIssuer mints the signed, opaque session credential handed to
// the browser. Parse checks integrity only; expiry is decided by the
// server-side session row.
type SessionTokenIssuer interface {
	IssueSessionToken(userID string, issuedAt, expiresAt time.Time) (string, error)
	ParseSessionToken(token string) (userID string, err error)
}
