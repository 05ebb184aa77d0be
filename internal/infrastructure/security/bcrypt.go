package security

import (
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost existing password hashes were created with.
const DefaultBcryptCost = 12

// BcryptHasher implements ports.PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into [bcrypt.DefaultCost, bcrypt.MaxCost].
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.DefaultCost {
		cost = DefaultBcryptCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)
