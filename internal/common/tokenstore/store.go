// Package tokenstore persists the authenticated session between requests
// and between process runs.
package tokenstore

import (
	"context"
	"fmt"

	"scan-dashboard/internal/common/config"
	"scan-dashboard/internal/common/database"
	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/models"
)

// SchemaVersion tags every persisted session. Documents or keys written
// under any other version are treated as foreign and discarded.
const SchemaVersion = 1

// Store holds at most one session.
//
// Get returns an error matching errors.ErrSessionNotFound when nothing usable
// is stored. Set rejects a session missing either its access token or its
// user. Clear is idempotent.
type Store interface {
	Get(ctx context.Context) (*models.Session, error)
	Set(ctx context.Context, session models.Session) error
	Clear(ctx context.Context) error
}

func checkComplete(s models.Session) error {
	if !s.Complete() {
		return errors.NewValidationError("session requires both an access token and a user")
	}
	return nil
}

func notFound() error {
	return errors.NewSessionNotFoundError("")
}

// Open builds the store selected by cfg.TokenStore. The returned close
// function releases any connection the store owns.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.TokenStore.Backend {
	case config.TokenStoreMemory:
		return NewMemoryStore(), noop, nil
	case config.TokenStoreFile:
		return NewFileStore(cfg.TokenStore.Path, log), noop, nil
	case config.TokenStoreRedis:
		rdb, err := database.ConnectRedis(ctx, cfg.Database.Redis)
		if err != nil {
			return nil, noop, errors.NewSessionStoreError("connect", err)
		}
		return NewRedisStore(rdb, cfg.TokenStore.KeyPrefix, log), rdb.Close, nil
	}
	return nil, noop, fmt.Errorf("unsupported token store backend %q", cfg.TokenStore.Backend)
}
