package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail is applied before every lookup so casing never splits accounts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterUserInput struct {
	Email    string
	Password string
	Name     string
}

type RegisterUserResult struct {
	User *domain.User
}

type RegisterUser struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
}

func NewRegisterUser(users ports.UserRepository, hasher ports.PasswordHasher) *RegisterUser {
	return &RegisterUser{users: users, hasher: hasher}
}

func (uc *RegisterUser) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserResult, error) {
	email := NormalizeEmail(input.Email)
	if !emailRegex.MatchString(email) {
		return nil, domerrors.ErrInvalidEmail
	}
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrUserExists
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &RegisterUserResult{User: user}, nil
}
