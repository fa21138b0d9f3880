package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authd/internal/metrics"
)

// useCaseWithMetrics decorates the authorization UseCase with metrics instrumentation.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps an authorization UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *useCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	u.metrics.RecordOperation(ctx, "authz", operation, status)
	u.metrics.RecordDuration(ctx, "authz", operation, time.Since(start), status)
}

// IsAuthorized records metrics for authorization checks.
func (u *useCaseWithMetrics) IsAuthorized(
	ctx context.Context,
	principalID uuid.UUID,
	action string,
) (bool, error) {
	start := time.Now()
	authorized, err := u.next.IsAuthorized(ctx, principalID, action)
	u.record(ctx, "is_authorized", start, err)
	return authorized, err
}

// IsAdmin records metrics for admin membership checks.
func (u *useCaseWithMetrics) IsAdmin(ctx context.Context, principalID uuid.UUID) (bool, error) {
	start := time.Now()
	isAdmin, err := u.next.IsAdmin(ctx, principalID)
	u.record(ctx, "is_admin", start, err)
	return isAdmin, err
}

// IsUser records metrics for user membership checks.
func (u *useCaseWithMetrics) IsUser(ctx context.Context, principalID uuid.UUID) (bool, error) {
	start := time.Now()
	isUser, err := u.next.IsUser(ctx, principalID)
	u.record(ctx, "is_user", start, err)
	return isUser, err
}

// RequireRole records metrics for role guard checks.
func (u *useCaseWithMetrics) RequireRole(ctx context.Context, principalID uuid.UUID, role string) error {
	start := time.Now()
	err := u.next.RequireRole(ctx, principalID, role)
	u.record(ctx, "require_role", start, err)
	return err
}

// GrantRole records metrics for role grants.
func (u *useCaseWithMetrics) GrantRole(ctx context.Context, principalID uuid.UUID, role string) error {
	start := time.Now()
	err := u.next.GrantRole(ctx, principalID, role)
	u.record(ctx, "grant_role", start, err)
	return err
}
