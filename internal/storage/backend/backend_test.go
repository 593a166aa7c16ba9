package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/wolong/internal/config"
	"github.com/felixgeelhaar/wolong/internal/storage"
)

func roundTrip(t *testing.T, s storage.BlobStore) {
	t.Helper()
	ctx := context.Background()

	if err := s.Set(ctx, storage.KeySoundEnabled, "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, found, err := s.Get(ctx, storage.KeySoundEnabled)
	if err != nil || !found || v != "false" {
		t.Fatalf("Get() = (%q, %v, %v)", v, found, err)
	}
}

func TestOpen(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			base := t.TempDir()
			cfg := config.DefaultLocalConfig()
			cfg.Storage.Backend = backend

			s, err := Open(context.Background(), cfg, base)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer s.Close()

			if s.Backend != backend {
				t.Errorf("Backend = %q, want %q", s.Backend, backend)
			}
			roundTrip(t, s)
		})
	}
}

func TestOpen_SQLiteFileLocation(t *testing.T) {
	base := t.TempDir()
	cfg := config.DefaultLocalConfig()
	cfg.Storage.Backend = config.BackendSQLite

	s, err := Open(context.Background(), cfg, base)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(base, "data", "wolong.db")); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.DefaultLocalConfig()
	cfg.Storage.Backend = "redis"

	_, err := Open(context.Background(), cfg, t.TempDir())
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Open() error = %v, want ErrInvalidConfig", err)
	}
}
