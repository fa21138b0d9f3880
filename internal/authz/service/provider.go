package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	authzDomain "github.com/allisson/authd/internal/authz/domain"
	apperrors "github.com/allisson/authd/internal/errors"
)

// GraphSource loads the permission graph's raw material from the store.
type GraphSource interface {
	// ListNodes returns a snapshot of all permission nodes.
	ListNodes(ctx context.Context) ([]authzDomain.PermissionNode, error)

	// ListEdges returns a snapshot of all parent/child inheritance edges.
	ListEdges(ctx context.Context) ([]authzDomain.PermissionEdge, error)
}

// GraphProvider hands out a process-wide cached Graph with bounded staleness.
// The graph is rebuilt at most once per refresh interval; readers share the
// current immutable snapshot, so the lock only covers the swap to a newer one.
type GraphProvider struct {
	source          GraphSource
	refreshInterval time.Duration
	failOpen        bool
	logger          *slog.Logger

	mu        sync.RWMutex
	graph     *Graph
	refreshed time.Time
}

// NewGraphProvider creates a GraphProvider. The first call to Current builds
// the initial graph; subsequent calls reuse it until refreshInterval elapses.
func NewGraphProvider(
	source GraphSource,
	refreshInterval time.Duration,
	failOpen bool,
	logger *slog.Logger,
) *GraphProvider {
	return &GraphProvider{
		source:          source,
		refreshInterval: refreshInterval,
		failOpen:        failOpen,
		logger:          logger,
	}
}

// Current returns the current graph snapshot, rebuilding it when stale.
// A rebuild failure is only fatal when no graph has ever been built; once a
// snapshot exists the provider keeps serving it and logs the failed refresh,
// so a transient store outage does not take authorization down with it.
func (p *GraphProvider) Current(ctx context.Context) (*Graph, error) {
	p.mu.RLock()
	graph, refreshed := p.graph, p.refreshed
	p.mu.RUnlock()

	if graph != nil && time.Since(refreshed) < p.refreshInterval {
		return graph, nil
	}

	return p.refresh(ctx)
}

// Refresh forces an immediate rebuild regardless of staleness.
func (p *GraphProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.refreshed = time.Time{}
	p.mu.Unlock()

	_, err := p.refresh(ctx)
	return err
}

func (p *GraphProvider) refresh(ctx context.Context) (*Graph, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Another request may have rebuilt while we waited for the lock.
	if p.graph != nil && time.Since(p.refreshed) < p.refreshInterval {
		return p.graph, nil
	}

	graph, err := p.load(ctx)
	if err != nil {
		if p.graph != nil {
			p.logger.Warn("permission graph refresh failed, serving stale snapshot",
				slog.Any("error", err),
				slog.Time("last_refreshed", p.refreshed),
			)
			return p.graph, nil
		}
		return nil, apperrors.Wrap(err, "failed to build permission graph")
	}

	p.graph = graph
	p.refreshed = time.Now()

	p.logger.Debug("permission graph rebuilt",
		slog.Int("nodes", graph.NodeCount()),
	)

	return graph, nil
}

func (p *GraphProvider) load(ctx context.Context) (*Graph, error) {
	nodes, err := p.source.ListNodes(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permission nodes")
	}

	edges, err := p.source.ListEdges(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permission edges")
	}

	return NewGraph(nodes, edges, p.failOpen), nil
}
