package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authd/internal/auth/domain"
	"github.com/allisson/authd/internal/metrics"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *sessionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "auth", operation, status)
	s.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// IssueFor records metrics for session issuance.
func (s *sessionUseCaseWithMetrics) IssueFor(
	ctx context.Context,
	principalID uuid.UUID,
) (*authDomain.SessionPair, error) {
	start := time.Now()
	pair, err := s.next.IssueFor(ctx, principalID)
	s.record(ctx, "issue", start, err)
	return pair, err
}

// Login records metrics for credential logins.
func (s *sessionUseCaseWithMetrics) Login(
	ctx context.Context,
	email string,
	password string,
) (*authDomain.SessionPair, error) {
	start := time.Now()
	pair, err := s.next.Login(ctx, email, password)
	s.record(ctx, "login", start, err)
	return pair, err
}

// Refresh records metrics for refresh token redemptions.
func (s *sessionUseCaseWithMetrics) Refresh(
	ctx context.Context,
	refreshToken string,
) (*authDomain.SessionPair, error) {
	start := time.Now()
	pair, err := s.next.Refresh(ctx, refreshToken)
	s.record(ctx, "refresh", start, err)
	return pair, err
}

// Logout records metrics for logouts.
func (s *sessionUseCaseWithMetrics) Logout(ctx context.Context, accessToken string) error {
	start := time.Now()
	err := s.next.Logout(ctx, accessToken)
	s.record(ctx, "logout", start, err)
	return err
}

// InvalidateAll records metrics for bulk session invalidation.
func (s *sessionUseCaseWithMetrics) InvalidateAll(
	ctx context.Context,
	principalID uuid.UUID,
) (int64, error) {
	start := time.Now()
	count, err := s.next.InvalidateAll(ctx, principalID)
	s.record(ctx, "invalidate_all", start, err)
	return count, err
}

// CleanExpired records metrics for expired session cleanup.
func (s *sessionUseCaseWithMetrics) CleanExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := s.next.CleanExpired(ctx)
	s.record(ctx, "clean_expired", start, err)
	return count, err
}
