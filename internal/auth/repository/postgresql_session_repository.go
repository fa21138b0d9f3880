// Package repository provides persistence implementations for session tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authd/internal/auth/domain"
	"github.com/allisson/authd/internal/database"
	apperrors "github.com/allisson/authd/internal/errors"
)

// PostgreSQLSessionRepository implements SessionToken persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLSessionRepository struct {
	db *sql.DB
}

// NewPostgreSQLSessionRepository creates a new PostgreSQL SessionToken repository.
func NewPostgreSQLSessionRepository(db *sql.DB) *PostgreSQLSessionRepository {
	return &PostgreSQLSessionRepository{db: db}
}

// Create inserts a new SessionToken. Uses transaction support via database.GetTx().
func (p *PostgreSQLSessionRepository) Create(ctx context.Context, session *authDomain.SessionToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO session_tokens (id, principal_id, access_token, refresh_token, expires_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		session.ID,
		session.PrincipalID,
		session.AccessToken,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create session token")
	}
	return nil
}

// GetByRefreshToken retrieves a SessionToken by its refresh token.
// Returns ErrSessionNotFound if no session holds the token.
func (p *PostgreSQLSessionRepository) GetByRefreshToken(
	ctx context.Context,
	refreshToken string,
) (*authDomain.SessionToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, principal_id, access_token, refresh_token, expires_at, created_at, updated_at
			  FROM session_tokens WHERE refresh_token = $1`

	var session authDomain.SessionToken

	err := querier.QueryRowContext(ctx, query, refreshToken).Scan(
		&session.ID,
		&session.PrincipalID,
		&session.AccessToken,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get session token by refresh token")
	}

	return &session, nil
}

// DeleteByID removes a SessionToken by its ID. Uses transaction support via
// database.GetTx(). Returns ErrSessionNotFound when no row went away, so the
// loser of two concurrent deletes of the same session can tell.
func (p *PostgreSQLSessionRepository) DeleteByID(ctx context.Context, sessionID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM session_tokens WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, sessionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete session token")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rowsAffected == 0 {
		return authDomain.ErrSessionNotFound
	}
	return nil
}

// DeleteByAccessToken removes the session holding the access token.
// Returns ErrSessionNotFound when no session matched.
func (p *PostgreSQLSessionRepository) DeleteByAccessToken(ctx context.Context, accessToken string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM session_tokens WHERE access_token = $1`

	result, err := querier.ExecContext(ctx, query, accessToken)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete session token by access token")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rowsAffected == 0 {
		return authDomain.ErrSessionNotFound
	}
	return nil
}

// DeleteByPrincipal removes every session belonging to a principal.
// Returns the number of sessions removed.
func (p *PostgreSQLSessionRepository) DeleteByPrincipal(ctx context.Context, principalID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM session_tokens WHERE principal_id = $1`

	result, err := querier.ExecContext(ctx, query, principalID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete session tokens for principal")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return rowsAffected, nil
}

// DeleteExpired removes sessions whose refresh token expired before now.
// Returns the number of sessions removed.
func (p *PostgreSQLSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM session_tokens WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired session tokens")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return rowsAffected, nil
}
