package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWolongDir(t *testing.T) {
	dir, err := WolongDir()
	if err != nil {
		t.Fatalf("WolongDir() error = %v", err)
	}
	if filepath.Base(dir) != ".wolong" {
		t.Errorf("WolongDir() = %q, want ending with .wolong", dir)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("WolongDir() = %q, want absolute path", dir)
	}
}

func TestEnsureWolongDir(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	dir, err := EnsureWolongDir()
	if err != nil {
		t.Fatalf("EnsureWolongDir() error = %v", err)
	}

	expectedDir := filepath.Join(tmpHome, ".wolong")
	if dir != expectedDir {
		t.Errorf("EnsureWolongDir() = %q, want %q", dir, expectedDir)
	}

	for _, subdir := range []string{"logs", "data"} {
		if _, err := os.Stat(filepath.Join(dir, subdir)); os.IsNotExist(err) {
			t.Errorf("EnsureWolongDir() should create %s", subdir)
		}
	}
}

func TestDefaultLocalConfig(t *testing.T) {
	cfg := DefaultLocalConfig()

	if cfg.Daemon.Port != 7433 {
		t.Errorf("Daemon.Port = %d, want 7433", cfg.Daemon.Port)
	}
	if cfg.Daemon.Bind != "127.0.0.1" {
		t.Errorf("Daemon.Bind = %q, want 127.0.0.1", cfg.Daemon.Bind)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Storage.Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Game.Seed != 0 {
		t.Errorf("Game.Seed = %d, want 0", cfg.Game.Seed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadLocalConfigFrom(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadLocalConfigFrom(filepath.Join(t.TempDir(), "config.yaml"))
		if err != nil {
			t.Fatalf("LoadLocalConfigFrom() error = %v", err)
		}
		if cfg.Daemon.Port != 7433 {
			t.Errorf("Daemon.Port = %d, want 7433", cfg.Daemon.Port)
		}
	})

	t.Run("yaml overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "daemon:\n  port: 9000\nstorage:\n  backend: sqlite\ngame:\n  seed: 42\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		cfg, err := LoadLocalConfigFrom(path)
		if err != nil {
			t.Fatalf("LoadLocalConfigFrom() error = %v", err)
		}
		if cfg.Daemon.Port != 9000 {
			t.Errorf("Daemon.Port = %d, want 9000", cfg.Daemon.Port)
		}
		if cfg.Daemon.Bind != "127.0.0.1" {
			t.Errorf("Daemon.Bind = %q, want default kept", cfg.Daemon.Bind)
		}
		if cfg.Storage.Backend != BackendSQLite {
			t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
		}
		if cfg.Game.Seed != 42 {
			t.Errorf("Game.Seed = %d, want 42", cfg.Game.Seed)
		}
	})

	t.Run("env overrides yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("daemon:\n  port: 9000\n"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		t.Setenv("WOLONG_DAEMON_PORT", "9100")
		t.Setenv("WOLONG_STORAGE_BACKEND", "memory")

		cfg, err := LoadLocalConfigFrom(path)
		if err != nil {
			t.Fatalf("LoadLocalConfigFrom() error = %v", err)
		}
		if cfg.Daemon.Port != 9100 {
			t.Errorf("Daemon.Port = %d, want 9100", cfg.Daemon.Port)
		}
		if cfg.Storage.Backend != BackendMemory {
			t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("daemon: [unclosed"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if _, err := LoadLocalConfigFrom(path); err == nil {
			t.Error("LoadLocalConfigFrom() should fail on invalid yaml")
		}
	})
}

func TestSaveLocalConfigTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultLocalConfig()
	cfg.Storage.Backend = BackendSQLite
	cfg.Game.Seed = 7

	if err := SaveLocalConfigTo(path, cfg); err != nil {
		t.Fatalf("SaveLocalConfigTo() error = %v", err)
	}
	loaded, err := LoadLocalConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadLocalConfigFrom() error = %v", err)
	}
	if loaded.Storage.Backend != BackendSQLite || loaded.Game.Seed != 7 {
		t.Errorf("loaded = %+v, want sqlite backend and seed 7", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LocalConfig)
		wantErr bool
	}{
		{"defaults", func(*LocalConfig) {}, false},
		{"empty fields filled", func(c *LocalConfig) { *c = LocalConfig{} }, false},
		{"uppercase log level", func(c *LocalConfig) { c.Daemon.LogLevel = "DEBUG" }, false},
		{"bad log level", func(c *LocalConfig) { c.Daemon.LogLevel = "verbose" }, true},
		{"bad port", func(c *LocalConfig) { c.Daemon.Port = 70000 }, true},
		{"unknown backend", func(c *LocalConfig) { c.Storage.Backend = "redis" }, true},
		{"postgres without url", func(c *LocalConfig) { c.Storage.Backend = BackendPostgres }, true},
		{"postgres with url", func(c *LocalConfig) {
			c.Storage.Backend = BackendPostgres
			c.Storage.PostgresURL = "postgres://localhost/wolong"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLocalConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestStoragePath(t *testing.T) {
	cfg := DefaultLocalConfig()
	if got := cfg.StoragePath("/base"); got != filepath.Join("/base", "data") {
		t.Errorf("file StoragePath() = %q", got)
	}

	cfg.Storage.Backend = BackendSQLite
	if got := cfg.StoragePath("/base"); got != filepath.Join("/base", "data", "wolong.db") {
		t.Errorf("sqlite StoragePath() = %q", got)
	}

	cfg.Storage.Path = "/custom/path"
	if got := cfg.StoragePath("/base"); got != "/custom/path" {
		t.Errorf("explicit StoragePath() = %q", got)
	}
}
