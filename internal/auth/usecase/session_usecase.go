package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authd/internal/auth/domain"
	authService "github.com/allisson/authd/internal/auth/service"
	"github.com/allisson/authd/internal/config"
	"github.com/allisson/authd/internal/database"
	apperrors "github.com/allisson/authd/internal/errors"
)

// sessionUseCase implements SessionUseCase.
type sessionUseCase struct {
	config          *config.Config
	sessionRepo     SessionRepository
	credentialRepo  CredentialRepository
	codec           authService.AccessTokenCodec
	refreshService  authService.RefreshTokenService
	passwordService authService.PasswordService
	txManager       database.TxManager
}

// NewSessionUseCase creates a new SessionUseCase with the provided dependencies.
func NewSessionUseCase(
	config *config.Config,
	sessionRepo SessionRepository,
	credentialRepo CredentialRepository,
	codec authService.AccessTokenCodec,
	refreshService authService.RefreshTokenService,
	passwordService authService.PasswordService,
	txManager database.TxManager,
) SessionUseCase {
	return &sessionUseCase{
		config:          config,
		sessionRepo:     sessionRepo,
		credentialRepo:  credentialRepo,
		codec:           codec,
		refreshService:  refreshService,
		passwordService: passwordService,
		txManager:       txManager,
	}
}

// IssueFor creates and persists a new session pair for the principal.
//
// The access token is signed and self-describing; the refresh token is an
// opaque random value bound to the stored session row. The row's expiry bounds
// the refresh token only, the access token expires on its own via its claims.
func (s *sessionUseCase) IssueFor(
	ctx context.Context,
	principalID uuid.UUID,
) (*authDomain.SessionPair, error) {
	accessToken, _, err := s.codec.Encode(principalID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.refreshService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &authDomain.SessionToken{
		ID:           uuid.Must(uuid.NewV7()),
		PrincipalID:  principalID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.config.RefreshTokenExpiration),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &authDomain.SessionPair{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// Login verifies the email and password and issues a new session pair.
//
// Returns ErrInvalidCredentials for both unknown emails and wrong passwords
// to prevent account enumeration.
func (s *sessionUseCase) Login(
	ctx context.Context,
	email string,
	password string,
) (*authDomain.SessionPair, error) {
	credential, err := s.credentialRepo.GetByEmail(ctx, email)
	if err != nil {
		// Unknown email returns the same generic error as a wrong password.
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwordService.ComparePassword(password, credential.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	var pair *authDomain.SessionPair
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		pair, err = s.IssueFor(ctx, credential.PrincipalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Refresh redeems a refresh token for a new session pair.
//
// The lookup, delete and re-issue run inside a single transaction: two
// concurrent redemptions of the same token race on the row delete and only
// the committed winner receives a new pair.
func (s *sessionUseCase) Refresh(
	ctx context.Context,
	refreshToken string,
) (*authDomain.SessionPair, error) {
	var pair *authDomain.SessionPair

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
		if err != nil {
			// Unknown and expired tokens surface as the same error.
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return authDomain.ErrInvalidRefreshToken
			}
			return err
		}

		if session.Expired(time.Now().UTC()) {
			return authDomain.ErrInvalidRefreshToken
		}

		if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
			// A zero-row delete means a concurrent redemption won the race
			// and already consumed the token.
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return authDomain.ErrInvalidRefreshToken
			}
			return err
		}

		pair, err = s.IssueFor(ctx, session.PrincipalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout removes the session holding the access token.
func (s *sessionUseCase) Logout(ctx context.Context, accessToken string) error {
	return s.sessionRepo.DeleteByAccessToken(ctx, accessToken)
}

// InvalidateAll removes every session belonging to the principal.
func (s *sessionUseCase) InvalidateAll(ctx context.Context, principalID uuid.UUID) (int64, error) {
	return s.sessionRepo.DeleteByPrincipal(ctx, principalID)
}

// CleanExpired removes sessions whose refresh token has expired.
func (s *sessionUseCase) CleanExpired(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, time.Now().UTC())
}
