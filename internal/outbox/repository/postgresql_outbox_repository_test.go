package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/authd/internal/outbox/domain"
)

func testEvent() *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: "user.created",
		Payload:   `{"user_id":"abc"}`,
		Status:    domain.OutboxEventStatusPending,
		Retries:   0,
	}
}

func TestPostgreSQLOutboxEventRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event := testEvent()

	mock.ExpectExec(`INSERT INTO outbox_events`).
		WithArgs(event.ID, event.EventType, event.Payload, event.Status, event.Retries, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLOutboxEventRepository(db)

	err = repo.Create(context.Background(), event)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event := testEvent()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "event_type", "payload", "status", "retries", "last_error", "processed_at",
		"created_at", "updated_at",
	}).AddRow(event.ID, event.EventType, event.Payload, event.Status, event.Retries, nil, nil, now, now)

	mock.ExpectQuery(`SELECT id, event_type, payload, status, retries, last_error, processed_at`).
		WithArgs(domain.OutboxEventStatusPending, 10).
		WillReturnRows(rows)

	repo := NewPostgreSQLOutboxEventRepository(db)

	events, err := repo.GetPendingEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Equal(t, domain.OutboxEventStatusPending, events[0].Status)
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, event_type, payload, status, retries, last_error, processed_at`).
		WithArgs(domain.OutboxEventStatusPending, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_type", "payload", "status", "retries", "last_error", "processed_at",
			"created_at", "updated_at",
		}))

	repo := NewPostgreSQLOutboxEventRepository(db)

	events, err := repo.GetPendingEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPostgreSQLOutboxEventRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event := testEvent()
	now := time.Now().UTC()
	event.Status = domain.OutboxEventStatusProcessed
	event.ProcessedAt = &now

	mock.ExpectExec(`UPDATE outbox_events`).
		WithArgs(event.EventType, event.Payload, event.Status, event.Retries, nil,
			event.ProcessedAt, event.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLOutboxEventRepository(db)

	err = repo.Update(context.Background(), event)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
