package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authzDomain "github.com/allisson/authd/internal/authz/domain"
)

// mockGraphSource is a mock implementation of GraphSource for testing.
type mockGraphSource struct {
	mock.Mock
}

func (m *mockGraphSource) ListNodes(ctx context.Context) ([]authzDomain.PermissionNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]authzDomain.PermissionNode), args.Error(1)
}

func (m *mockGraphSource) ListEdges(ctx context.Context) ([]authzDomain.PermissionEdge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]authzDomain.PermissionEdge), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGraphProvider_Current(t *testing.T) {
	ctx := context.Background()

	t.Run("BuildsOnFirstCall", func(t *testing.T) {
		source := &mockGraphSource{}
		source.On("ListNodes", mock.Anything).Return(nodes("admin", "user"), nil).Once()
		source.On("ListEdges", mock.Anything).Return(edges([2]string{"admin", "user"}), nil).Once()

		provider := NewGraphProvider(source, time.Minute, true, testLogger())

		graph, err := provider.Current(ctx)
		require.NoError(t, err)
		assert.True(t, graph.IsAuthorized([]string{"admin"}, "user"))

		source.AssertExpectations(t)
	})

	t.Run("ReusesFreshSnapshot", func(t *testing.T) {
		source := &mockGraphSource{}
		source.On("ListNodes", mock.Anything).Return(nodes("admin"), nil).Once()
		source.On("ListEdges", mock.Anything).Return([]authzDomain.PermissionEdge{}, nil).Once()

		provider := NewGraphProvider(source, time.Minute, true, testLogger())

		first, err := provider.Current(ctx)
		require.NoError(t, err)

		second, err := provider.Current(ctx)
		require.NoError(t, err)

		assert.Same(t, first, second)
		source.AssertExpectations(t)
	})

	t.Run("RebuildsWhenStale", func(t *testing.T) {
		source := &mockGraphSource{}
		source.On("ListNodes", mock.Anything).Return(nodes("admin"), nil).Twice()
		source.On("ListEdges", mock.Anything).Return([]authzDomain.PermissionEdge{}, nil).Twice()

		provider := NewGraphProvider(source, time.Nanosecond, true, testLogger())

		first, err := provider.Current(ctx)
		require.NoError(t, err)

		time.Sleep(time.Millisecond)

		second, err := provider.Current(ctx)
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		source.AssertExpectations(t)
	})

	t.Run("FirstBuildFailurePropagates", func(t *testing.T) {
		source := &mockGraphSource{}
		source.On("ListNodes", mock.Anything).Return(nil, assert.AnError).Once()

		provider := NewGraphProvider(source, time.Minute, true, testLogger())

		graph, err := provider.Current(ctx)
		assert.Error(t, err)
		assert.Nil(t, graph)
	})

	t.Run("RefreshFailureServesStaleSnapshot", func(t *testing.T) {
		source := &mockGraphSource{}
		source.On("ListNodes", mock.Anything).Return(nodes("admin"), nil).Once()
		source.On("ListEdges", mock.Anything).Return([]authzDomain.PermissionEdge{}, nil).Once()
		source.On("ListNodes", mock.Anything).Return(nil, assert.AnError)

		provider := NewGraphProvider(source, time.Nanosecond, true, testLogger())

		first, err := provider.Current(ctx)
		require.NoError(t, err)

		time.Sleep(time.Millisecond)

		second, err := provider.Current(ctx)
		require.NoError(t, err)
		assert.Same(t, first, second)
	})
}

func TestGraphProvider_Refresh(t *testing.T) {
	ctx := context.Background()

	source := &mockGraphSource{}
	source.On("ListNodes", mock.Anything).Return(nodes("admin"), nil).Twice()
	source.On("ListEdges", mock.Anything).Return([]authzDomain.PermissionEdge{}, nil).Twice()

	provider := NewGraphProvider(source, time.Hour, true, testLogger())

	first, err := provider.Current(ctx)
	require.NoError(t, err)

	// Interval has not elapsed, but an explicit refresh must rebuild anyway.
	require.NoError(t, provider.Refresh(ctx))

	second, err := provider.Current(ctx)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	source.AssertExpectations(t)
}
