package auth

import (
	"context"
	"fmt"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
)

// AccountLockedError carries the remaining cooldown; it matches
// domerrors.ErrAccountLocked with errors.Is.
type AccountLockedError struct {
	RetryAfterSeconds int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("%s; retry after %ds", domerrors.ErrAccountLocked, e.RetryAfterSeconds)
}

func (e *AccountLockedError) Unwrap() error { return domerrors.ErrAccountLocked }

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  *domain.User
}

type Login struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	sessions *SessionManager
	lockout  ports.LoginLockoutStore
}

// NewLogin wires the login flow; lockout may be nil to disable it.
func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, sessions *SessionManager, lockout ports.LoginLockoutStore) *Login {
	return &Login{users: users, hasher: hasher, sessions: sessions, lockout: lockout}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(input.Email)
	if uc.lockout != nil {
		if locked, retry := uc.lockout.IsLocked(ctx, email); locked {
			return nil, &AccountLockedError{RetryAfterSeconds: retry}
		}
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !uc.hasher.Verify(input.Password, user.PasswordHash) {
		if uc.lockout != nil {
			uc.lockout.RecordFailure(ctx, email)
		}
		return nil, domerrors.ErrInvalidCredentials
	}
	if uc.lockout != nil {
		uc.lockout.RecordSuccess(ctx, email)
	}
	token, err := uc.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}
