// Package inventory supplies the dashboard data snapshot the assistant
// answers from.
package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scan-dashboard/internal/common/config"
	"scan-dashboard/internal/common/database"
	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/models"
)

// Source loads a snapshot. Callers must treat the result as read-only.
type Source interface {
	Snapshot(ctx context.Context) (*models.DataSnapshot, error)
}

// StaticSource always returns the same snapshot.
type StaticSource struct {
	snapshot *models.DataSnapshot
}

func NewStaticSource(s *models.DataSnapshot) *StaticSource {
	return &StaticSource{snapshot: s}
}

func (s *StaticSource) Snapshot(_ context.Context) (*models.DataSnapshot, error) {
	if s.snapshot == nil {
		return nil, errors.NewSnapshotUnavailableError("static", fmt.Errorf("no snapshot configured"))
	}
	return s.snapshot, nil
}

// FileSource re-reads a snapshot document on every call.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Snapshot(_ context.Context) (*models.DataSnapshot, error) {
	s, err := LoadSnapshotFile(f.path)
	if err != nil {
		return nil, errors.NewSnapshotUnavailableError("file", err)
	}
	return s, nil
}

// CachedSource memoizes another source for a fixed TTL. Failed loads are not cached.
type CachedSource struct {
	next Source
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	snapshot *models.DataSnapshot
	loadedAt time.Time
}

func NewCachedSource(next Source, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, ttl: ttl, now: time.Now}
}

func (c *CachedSource) Snapshot(ctx context.Context) (*models.DataSnapshot, error) {
	c.mu.RLock()
	if c.snapshot != nil && c.now().Sub(c.loadedAt) < c.ttl {
		s := c.snapshot
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	s, err := c.next.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = s
	c.loadedAt = c.now()
	c.mu.Unlock()
	return s, nil
}

// Open builds the source selected by cfg.Snapshot. The returned close
// function releases any database pool the source owns.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Source, func() error, error) {
	noop := func() error { return nil }
	ttl := config.GetDuration(cfg.Snapshot.CacheTTL)

	switch cfg.Snapshot.Source {
	case config.SnapshotStatic:
		return NewStaticSource(DefaultSnapshot()), noop, nil
	case config.SnapshotFile:
		if _, err := LoadSnapshotFile(cfg.Snapshot.Path); err != nil {
			return nil, noop, errors.NewSnapshotUnavailableError("file", err)
		}
		return NewCachedSource(NewFileSource(cfg.Snapshot.Path), ttl), noop, nil
	case config.SnapshotPostgres:
		pg, err := database.ConnectPostgres(ctx, cfg.Database.Postgres, 5*time.Second)
		if err != nil {
			return nil, noop, errors.NewSnapshotUnavailableError("postgres", err)
		}
		return NewCachedSource(NewRepository(pg.DB, log), ttl), pg.Close, nil
	}
	return nil, noop, fmt.Errorf("unsupported snapshot source %q", cfg.Snapshot.Source)
}
