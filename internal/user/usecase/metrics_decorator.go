package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authd/internal/metrics"
	"github.com/allisson/authd/internal/user/domain"
)

// userUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	u.metrics.RecordOperation(ctx, "user", operation, status)
	u.metrics.RecordDuration(ctx, "user", operation, time.Since(start), status)
}

// RegisterUser records metrics for user registrations.
func (u *userUseCaseWithMetrics) RegisterUser(
	ctx context.Context,
	input RegisterUserInput,
) (*RegisterUserOutput, error) {
	start := time.Now()
	output, err := u.next.RegisterUser(ctx, input)
	u.record(ctx, "register", start, err)
	return output, err
}

// UpdateUser records metrics for credential updates.
func (u *userUseCaseWithMetrics) UpdateUser(
	ctx context.Context,
	id uuid.UUID,
	input UpdateUserInput,
) (*UpdateUserOutput, error) {
	start := time.Now()
	output, err := u.next.UpdateUser(ctx, id, input)
	u.record(ctx, "update", start, err)
	return output, err
}

// GetUserByEmail records metrics for email lookups.
func (u *userUseCaseWithMetrics) GetUserByEmail(
	ctx context.Context,
	email string,
) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetUserByEmail(ctx, email)
	u.record(ctx, "get_by_email", start, err)
	return user, err
}

// GetUserByID records metrics for ID lookups.
func (u *userUseCaseWithMetrics) GetUserByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetUserByID(ctx, id)
	u.record(ctx, "get_by_id", start, err)
	return user, err
}
