// Package backend opens the blob store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/wolong/internal/config"
	"github.com/felixgeelhaar/wolong/internal/storage"
	"github.com/felixgeelhaar/wolong/internal/storage/local"
	"github.com/felixgeelhaar/wolong/internal/storage/postgres"
	"github.com/felixgeelhaar/wolong/internal/storage/sqlite"
)

// Store is an opened blob store and the function that releases it.
type Store struct {
	storage.BlobStore
	Backend string
	close   func() error
}

// Close releases the underlying connection, if any.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open builds the configured backend under baseDir and wraps persistent
// backends with retry and a circuit breaker.
func Open(ctx context.Context, cfg *config.LocalConfig, baseDir string) (*Store, error) {
	var (
		inner   storage.BlobStore
		closeFn func() error
	)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return &Store{BlobStore: storage.NewMemoryStore(), Backend: config.BackendMemory}, nil

	case config.BackendFile, "":
		fs, err := local.NewStore(cfg.StoragePath(baseDir))
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		inner = fs

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.StoragePath(baseDir))
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		inner = sqlite.NewBlobStore(db)
		closeFn = db.Close

	case config.BackendPostgres:
		pg, err := postgres.Connect(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		inner = pg
		closeFn = func() error {
			pg.Close()
			return nil
		}

	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrInvalidConfig, cfg.Storage.Backend)
	}

	rcfg := storage.DefaultResilientConfig()
	rcfg.MaxAttempts = cfg.Storage.RetryAttempts

	slog.Info("storage opened", "backend", cfg.Storage.Backend)
	return &Store{
		BlobStore: storage.NewResilientStore(inner, rcfg),
		Backend:   cfg.Storage.Backend,
		close:     closeFn,
	}, nil
}
