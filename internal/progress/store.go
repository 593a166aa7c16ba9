// Package progress owns the player's progress record: loading with default
// merging, best-effort persistence, level gating and round recording.
package progress

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/wolong/internal/clock"
	"github.com/felixgeelhaar/wolong/internal/domain"
	"github.com/felixgeelhaar/wolong/internal/storage"
)

// Store reads and writes the progress blob. Storage failures are logged and
// swallowed: Load falls back to defaults, Save and Clear drop the write.
type Store struct {
	blobs storage.BlobStore
	clock clock.Clock
}

// NewStore creates a progress store over blobs.
func NewStore(blobs storage.BlobStore, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Store{blobs: blobs, clock: clk}
}

// Load returns the persisted progress merged with defaults.
func (s *Store) Load(ctx context.Context) domain.PlayerProgress {
	now := s.clock.Now()

	blob, found, err := s.blobs.Get(ctx, storage.KeyProgress)
	if err != nil {
		slog.Error("failed to load progress", "error", err)
		return Defaults(now)
	}
	if !found || blob == "" {
		return Defaults(now)
	}

	p, err := Decode([]byte(blob), now)
	if err != nil {
		slog.Warn("discarding unreadable progress", "error", err)
	}
	return p
}

// Save persists p. Callers must not assume the write succeeded.
func (s *Store) Save(ctx context.Context, p domain.PlayerProgress) {
	data, err := Encode(p)
	if err != nil {
		slog.Error("failed to save progress", "error", err)
		return
	}
	if err := s.blobs.Set(ctx, storage.KeyProgress, string(data)); err != nil {
		slog.Error("failed to save progress", "error", err)
	}
}

// Clear removes the persisted progress.
func (s *Store) Clear(ctx context.Context) {
	if err := s.blobs.Remove(ctx, storage.KeyProgress); err != nil {
		slog.Error("failed to clear progress", "error", err)
	}
}
