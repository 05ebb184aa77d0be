package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errInvalidClaims = errors.New("invalid session token claims")

// SessionSigner implements ports.SessionTokenIssuer with HS256.
type SessionSigner struct {
	secret []byte
	issuer string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

func NewSessionSigner(secret, issuer string) *SessionSigner {
	return &SessionSigner{secret: []byte(secret), issuer: issuer}
}

func (s *SessionSigner) IssueSessionToken(userID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseSessionToken checks the signature only. Time claims are left to the
// session row so an expired token still resolves to the row that must be
// cleaned up.
func (s *SessionSigner) ParseSessionToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", errInvalidClaims
	}
	return claims.UserID, nil
}

var _ ports.SessionTokenIssuer = (*SessionSigner)(nil)
