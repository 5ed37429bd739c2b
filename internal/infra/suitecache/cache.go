// Package suitecache memoizes suite listings in front of a SuiteRepository.
package suitecache

import (
	"context"
	"io"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/ports"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// Repository is a read-through cache. Mutations go to the wrapped
// repository and drop the workspace's entries.
type Repository struct {
	next  ports.SuiteRepository
	cache *gocache.Cache
	log   *slog.Logger
}

type Option func(*Repository)

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.log = l
		}
	}
}

func WithExpiration(ttl, cleanup time.Duration) Option {
	return func(r *Repository) { r.cache = gocache.New(ttl, cleanup) }
}

func New(next ports.SuiteRepository, opts ...Option) *Repository {
	r := &Repository{
		next:  next,
		cache: gocache.New(DefaultExpiration, DefaultCleanupInterval),
		log:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.SuiteRepository = (*Repository)(nil)

func listKey(workspaceID string) string { return "suites:" + workspaceID }

func (r *Repository) ListTestSuites(ctx context.Context, workspaceID string) ([]domain.TestSuite, error) {
	key := listKey(workspaceID)
	if v, ok := r.cache.Get(key); ok {
		if suites, ok := v.([]domain.TestSuite); ok {
			r.log.Debug("suitecache.hit", "workspace_id", workspaceID)
			return append([]domain.TestSuite(nil), suites...), nil
		}
		r.log.Error("suitecache.bad_entry", "key", key)
	}

	suites, err := r.next.ListTestSuites(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, append([]domain.TestSuite(nil), suites...), gocache.DefaultExpiration)
	return suites, nil
}

// GetTestSuite answers from a cached listing when there is one.
func (r *Repository) GetTestSuite(ctx context.Context, workspaceID, suiteID string) (domain.TestSuite, error) {
	if v, ok := r.cache.Get(listKey(workspaceID)); ok {
		if suites, ok := v.([]domain.TestSuite); ok {
			if s, found := domain.FindSuite(suites, suiteID); found {
				return s, nil
			}
		}
	}
	return r.next.GetTestSuite(ctx, workspaceID, suiteID)
}

func (r *Repository) CreateTestSuite(ctx context.Context, workspaceID, name string) (domain.TestSuite, error) {
	defer r.Invalidate(workspaceID)
	return r.next.CreateTestSuite(ctx, workspaceID, name)
}

func (r *Repository) DeleteTestSuite(ctx context.Context, workspaceID, suiteID string) error {
	defer r.Invalidate(workspaceID)
	return r.next.DeleteTestSuite(ctx, workspaceID, suiteID)
}

// Invalidate drops the cached listing of one workspace.
func (r *Repository) Invalidate(workspaceID string) {
	r.cache.Delete(listKey(workspaceID))
}

// Flush drops everything; the file watcher calls it on disk changes.
func (r *Repository) Flush() {
	r.cache.Flush()
	r.log.Debug("suitecache.flush")
}
