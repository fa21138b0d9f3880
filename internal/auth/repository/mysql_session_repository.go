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

// MySQLSessionRepository implements SessionToken persistence for MySQL.
// UUIDs are stored as CHAR(36) strings; transaction support via database.GetTx().
type MySQLSessionRepository struct {
	db *sql.DB
}

// NewMySQLSessionRepository creates a new MySQL SessionToken repository.
func NewMySQLSessionRepository(db *sql.DB) *MySQLSessionRepository {
	return &MySQLSessionRepository{db: db}
}

// Create inserts a new SessionToken. Uses transaction support via database.GetTx().
func (m *MySQLSessionRepository) Create(ctx context.Context, session *authDomain.SessionToken) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO session_tokens (id, principal_id, access_token, refresh_token, expires_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		session.ID.String(),
		session.PrincipalID.String(),
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
func (m *MySQLSessionRepository) GetByRefreshToken(
	ctx context.Context,
	refreshToken string,
) (*authDomain.SessionToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, principal_id, access_token, refresh_token, expires_at, created_at, updated_at
			  FROM session_tokens WHERE refresh_token = ?`

	var session authDomain.SessionToken
	var rawID, rawPrincipalID string

	err := querier.QueryRowContext(ctx, query, refreshToken).Scan(
		&rawID,
		&rawPrincipalID,
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

	if session.ID, err = uuid.Parse(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse session id")
	}
	if session.PrincipalID, err = uuid.Parse(rawPrincipalID); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse principal id")
	}

	return &session, nil
}

// DeleteByID removes a SessionToken by its ID. Returns ErrSessionNotFound when
// no row went away, so the loser of two concurrent deletes of the same session
// can tell.
func (m *MySQLSessionRepository) DeleteByID(ctx context.Context, sessionID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM session_tokens WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, sessionID.String())
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
func (m *MySQLSessionRepository) DeleteByAccessToken(ctx context.Context, accessToken string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM session_tokens WHERE access_token = ?`

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
func (m *MySQLSessionRepository) DeleteByPrincipal(ctx context.Context, principalID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM session_tokens WHERE principal_id = ?`

	result, err := querier.ExecContext(ctx, query, principalID.String())
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
func (m *MySQLSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM session_tokens WHERE expires_at < ?`

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
