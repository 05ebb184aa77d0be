package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSigner_IssueAndParse(t *testing.T) {
	s := NewSessionSigner("test-secret", "seotools")
	now := time.Now()

	tok, err := s.IssueSessionToken("user-1", now, now.Add(time.Hour))
	require.NoError(t, err)

	uid, err := s.ParseSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestSessionSigner_TokensAreUnique(t *testing.T) {
	s := NewSessionSigner("test-secret", "seotools")
	now := time.Now()
	a, err := s.IssueSessionToken("user-1", now, now.Add(time.Hour))
	require.NoError(t, err)
	b, err := s.IssueSessionToken("user-1", now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSessionSigner_ExpiredTokenStillParses(t *testing.T) {
	s := NewSessionSigner("test-secret", "seotools")
	past := time.Now().Add(-48 * time.Hour)
	tok, err := s.IssueSessionToken("user-1", past, past.Add(time.Hour))
	require.NoError(t, err)

	uid, err := s.ParseSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestSessionSigner_RejectsForeignSignature(t *testing.T) {
	now := time.Now()
	tok, err := NewSessionSigner("other-secret", "seotools").IssueSessionToken("user-1", now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = NewSessionSigner("test-secret", "seotools").ParseSessionToken(tok)
	assert.Error(t, err)

	_, err = NewSessionSigner("test-secret", "seotools").ParseSessionToken("garbage")
	assert.Error(t, err)
}

func TestSessionSigner_RejectsNoneAlg(t *testing.T) {
	claims := jwt.MapClaims{"user_id": "user-1"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessionSigner("test-secret", "seotools").ParseSessionToken(tok)
	assert.Error(t, err)
}
