// Package usecase implements the session token lifecycle: issue, login,
// refresh, logout and bulk invalidation.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authd/internal/auth/domain"
)

// SessionRepository defines persistence operations for session tokens.
// Implementations must support transaction-aware operations via context propagation.
type SessionRepository interface {
	// Create inserts a new session token pair.
	Create(ctx context.Context, session *authDomain.SessionToken) error

	// GetByRefreshToken retrieves the session holding the refresh token.
	// Returns ErrSessionNotFound when no session matches.
	GetByRefreshToken(ctx context.Context, refreshToken string) (*authDomain.SessionToken, error)

	// DeleteByID removes a session by its ID.
	// Returns ErrSessionNotFound when no row was removed.
	DeleteByID(ctx context.Context, sessionID uuid.UUID) error

	// DeleteByAccessToken removes the session holding the access token.
	// Returns ErrSessionNotFound when no session matched.
	DeleteByAccessToken(ctx context.Context, accessToken string) error

	// DeleteByPrincipal removes every session belonging to a principal and
	// returns the number removed.
	DeleteByPrincipal(ctx context.Context, principalID uuid.UUID) (int64, error)

	// DeleteExpired removes sessions whose refresh token expired before now
	// and returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Credential is the minimal principal identity needed to verify a login.
type Credential struct {
	PrincipalID  uuid.UUID
	PasswordHash string
}

// CredentialRepository resolves login credentials by email. Implemented by an
// adapter over the user store so this package stays decoupled from it.
type CredentialRepository interface {
	// GetByEmail returns the credential for the email, or an error wrapping
	// ErrNotFound when no principal uses it.
	GetByEmail(ctx context.Context, email string) (*Credential, error)
}

// SessionUseCase defines the session token lifecycle operations.
type SessionUseCase interface {
	// IssueFor creates and persists a new session pair for the principal.
	// Composes with an ambient transaction when called through TxManager.WithTx.
	IssueFor(ctx context.Context, principalID uuid.UUID) (*authDomain.SessionPair, error)

	// Login verifies the email and password and issues a new session pair.
	// Returns ErrInvalidCredentials on unknown email or wrong password.
	Login(ctx context.Context, email string, password string) (*authDomain.SessionPair, error)

	// Refresh redeems a refresh token for a new session pair. The lookup,
	// delete and re-issue run in one transaction so the token is single-use.
	// Returns ErrInvalidRefreshToken for unknown and expired tokens alike.
	Refresh(ctx context.Context, refreshToken string) (*authDomain.SessionPair, error)

	// Logout removes the session holding the access token.
	// Returns ErrSessionNotFound when no session matched.
	Logout(ctx context.Context, accessToken string) error

	// InvalidateAll removes every session belonging to the principal and
	// returns the number removed.
	InvalidateAll(ctx context.Context, principalID uuid.UUID) (int64, error)

	// CleanExpired removes sessions whose refresh token has expired and
	// returns the number removed.
	CleanExpired(ctx context.Context) (int64, error)
}
