package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authd/internal/auth/domain"
)

// mockSessionUseCase is a testify mock for the session use case.
type mockSessionUseCase struct {
	mock.Mock
}

func (m *mockSessionUseCase) IssueFor(ctx context.Context, principalID uuid.UUID) (*authDomain.SessionPair, error) {
	args := m.Called(ctx, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SessionPair), args.Error(1)
}

func (m *mockSessionUseCase) Login(ctx context.Context, email, password string) (*authDomain.SessionPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SessionPair), args.Error(1)
}

func (m *mockSessionUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.SessionPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SessionPair), args.Error(1)
}

func (m *mockSessionUseCase) Logout(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *mockSessionUseCase) InvalidateAll(ctx context.Context, principalID uuid.UUID) (int64, error) {
	args := m.Called(ctx, principalID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionUseCase) CleanExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunCleanExpiredSessions(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockSessionUseCase{}
		mockUseCase.On("CleanExpired", ctx).Return(int64(10), nil)

		var out bytes.Buffer
		err := RunCleanExpiredSessions(ctx, mockUseCase, logger, &out, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 10 expired session(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockSessionUseCase{}
		mockUseCase.On("CleanExpired", ctx).Return(int64(5), nil)

		var out bytes.Buffer
		err := RunCleanExpiredSessions(ctx, mockUseCase, logger, &out, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 5`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &mockSessionUseCase{}
		mockUseCase.On("CleanExpired", ctx).Return(int64(0), context.DeadlineExceeded)

		err := RunCleanExpiredSessions(ctx, mockUseCase, logger, &bytes.Buffer{}, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to clean expired sessions")
		mockUseCase.AssertExpectations(t)
	})
}
