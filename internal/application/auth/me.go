package auth

import (
	"context"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
)

// GetCurrentUser loads the profile behind an already validated identity.
type GetCurrentUser struct {
	users ports.UserRepository
}

func NewGetCurrentUser(users ports.UserRepository) *GetCurrentUser {
	return &GetCurrentUser{users: users}
}

func (uc *GetCurrentUser) Execute(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// session outlived its user
		return nil, domerrors.ErrUnauthenticated
	}
	return user, nil
}
