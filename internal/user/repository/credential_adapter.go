package repository

import (
	"context"

	authUseCase "github.com/allisson/authd/internal/auth/usecase"
	"github.com/allisson/authd/internal/user/domain"
)

// UserGetter is the slice of the user repository the credential adapter needs.
type UserGetter interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CredentialAdapter exposes the user store as a credential lookup for the
// session login flow. ErrUserNotFound passes through unchanged; the login
// use case converts it to a generic credentials error.
type CredentialAdapter struct {
	users UserGetter
}

// NewCredentialAdapter creates a CredentialAdapter over a user repository.
func NewCredentialAdapter(users UserGetter) *CredentialAdapter {
	return &CredentialAdapter{users: users}
}

// GetByEmail returns the credential for the email.
func (a *CredentialAdapter) GetByEmail(ctx context.Context, email string) (*authUseCase.Credential, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return &authUseCase.Credential{
		PrincipalID:  user.ID,
		PasswordHash: user.PasswordHash,
	}, nil
}
