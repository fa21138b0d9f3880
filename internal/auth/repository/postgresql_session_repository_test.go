package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authd/internal/auth/domain"
)

func testSession() *authDomain.SessionToken {
	now := time.Now().UTC()
	return &authDomain.SessionToken{
		ID:           uuid.Must(uuid.NewV7()),
		PrincipalID:  uuid.Must(uuid.NewV7()),
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    now.Add(time.Hour),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestPostgreSQLSessionRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	session := testSession()

	mock.ExpectExec(`INSERT INTO session_tokens`).
		WithArgs(
			session.ID,
			session.PrincipalID,
			session.AccessToken,
			session.RefreshToken,
			session.ExpiresAt,
			session.CreatedAt,
			session.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLSessionRepository(db)

	err = repo.Create(context.Background(), session)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSessionRepository_GetByRefreshToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	session := testSession()

	rows := sqlmock.NewRows([]string{
		"id", "principal_id", "access_token", "refresh_token", "expires_at", "created_at", "updated_at",
	}).AddRow(
		session.ID,
		session.PrincipalID,
		session.AccessToken,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)

	mock.ExpectQuery(`SELECT id, principal_id, access_token, refresh_token, expires_at, created_at, updated_at`).
		WithArgs(session.RefreshToken).
		WillReturnRows(rows)

	repo := NewPostgreSQLSessionRepository(db)

	got, err := repo.GetByRefreshToken(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.PrincipalID, got.PrincipalID)
	assert.Equal(t, session.RefreshToken, got.RefreshToken)
}

func TestPostgreSQLSessionRepository_GetByRefreshToken_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, principal_id, access_token, refresh_token, expires_at, created_at, updated_at`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "principal_id", "access_token", "refresh_token", "expires_at", "created_at", "updated_at",
		}))

	repo := NewPostgreSQLSessionRepository(db)

	got, err := repo.GetByRefreshToken(context.Background(), "missing")
	assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
	assert.Nil(t, got)
}

func TestPostgreSQLSessionRepository_DeleteByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sessionID := uuid.Must(uuid.NewV7())

	mock.ExpectExec(`DELETE FROM session_tokens WHERE id = \$1`).
		WithArgs(sessionID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLSessionRepository(db)

	err = repo.DeleteByID(context.Background(), sessionID)
	assert.NoError(t, err)
}

func TestPostgreSQLSessionRepository_DeleteByID_NoRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sessionID := uuid.Must(uuid.NewV7())

	// A concurrent redemption already removed the row.
	mock.ExpectExec(`DELETE FROM session_tokens WHERE id = \$1`).
		WithArgs(sessionID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgreSQLSessionRepository(db)

	err = repo.DeleteByID(context.Background(), sessionID)
	assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
}

func TestPostgreSQLSessionRepository_DeleteByAccessToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM session_tokens WHERE access_token = \$1`).
		WithArgs("access-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLSessionRepository(db)

	err = repo.DeleteByAccessToken(context.Background(), "access-token")
	assert.NoError(t, err)
}

func TestPostgreSQLSessionRepository_DeleteByAccessToken_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM session_tokens WHERE access_token = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgreSQLSessionRepository(db)

	err = repo.DeleteByAccessToken(context.Background(), "missing")
	assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
}

func TestPostgreSQLSessionRepository_DeleteByPrincipal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	principalID := uuid.Must(uuid.NewV7())

	mock.ExpectExec(`DELETE FROM session_tokens WHERE principal_id = \$1`).
		WithArgs(principalID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewPostgreSQLSessionRepository(db)

	count, err := repo.DeleteByPrincipal(context.Background(), principalID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestPostgreSQLSessionRepository_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectExec(`DELETE FROM session_tokens WHERE expires_at < \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 7))

	repo := NewPostgreSQLSessionRepository(db)

	count, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
