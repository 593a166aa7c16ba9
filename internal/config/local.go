package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var (
	backends  = []string{BackendFile, BackendSQLite, BackendPostgres, BackendMemory}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// LocalConfig holds configuration for the CLI and daemon
type LocalConfig struct {
	Daemon  DaemonConfig  `yaml:"daemon"`
	Storage StorageConfig `yaml:"storage"`
	Game    GameConfig    `yaml:"game"`
}

// DaemonConfig holds daemon server settings
type DaemonConfig struct {
	Port     int    `yaml:"port" env:"WOLONG_DAEMON_PORT"`
	Bind     string `yaml:"bind" env:"WOLONG_DAEMON_BIND"`
	LogLevel string `yaml:"log_level" env:"WOLONG_LOG_LEVEL"`
}

// StorageConfig selects where progress and settings are persisted
type StorageConfig struct {
	Backend       string `yaml:"backend" env:"WOLONG_STORAGE_BACKEND"`
	Path          string `yaml:"path,omitempty" env:"WOLONG_STORAGE_PATH"`
	PostgresURL   string `yaml:"postgres_url,omitempty" env:"WOLONG_POSTGRES_URL"`
	RetryAttempts int    `yaml:"retry_attempts" env:"WOLONG_STORAGE_RETRY_ATTEMPTS"`
}

// GameConfig holds gameplay settings
type GameConfig struct {
	// Seed for the problem generator; 0 seeds from system entropy.
	Seed uint64 `yaml:"seed" env:"WOLONG_SEED"`
}

// WolongDir returns the path to ~/.wolong
func WolongDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".wolong"), nil
}

// EnsureWolongDir creates ~/.wolong and subdirectories if they don't exist
func EnsureWolongDir() (string, error) {
	dir, err := WolongDir()
	if err != nil {
		return "", err
	}

	for _, subdir := range []string{"", "logs", "data"} {
		path := filepath.Join(dir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("create dir %s: %w", path, err)
		}
	}

	return dir, nil
}

// DefaultLocalConfig returns sensible defaults for local mode
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Daemon: DaemonConfig{
			Port:     7433,
			Bind:     "127.0.0.1",
			LogLevel: "info",
		},
		Storage: StorageConfig{
			Backend:       BackendFile,
			RetryAttempts: 3,
		},
	}
}

// LoadLocalConfig loads ~/.wolong/config.yaml and applies WOLONG_* overrides
func LoadLocalConfig() (*LocalConfig, error) {
	dir, err := WolongDir()
	if err != nil {
		return nil, err
	}
	return LoadLocalConfigFrom(filepath.Join(dir, "config.yaml"))
}

// LoadLocalConfigFrom loads configuration from path. A missing file yields defaults.
func LoadLocalConfigFrom(configPath string) (*LocalConfig, error) {
	cfg := DefaultLocalConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveLocalConfig saves configuration to ~/.wolong/config.yaml
func SaveLocalConfig(cfg *LocalConfig) error {
	dir, err := EnsureWolongDir()
	if err != nil {
		return err
	}
	return SaveLocalConfigTo(filepath.Join(dir, "config.yaml"), cfg)
}

// SaveLocalConfigTo writes cfg as YAML to configPath.
func SaveLocalConfigTo(configPath string, cfg *LocalConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate normalizes empty fields to defaults and rejects unknown values.
func (c *LocalConfig) Validate() error {
	def := DefaultLocalConfig()

	if c.Daemon.Port == 0 {
		c.Daemon.Port = def.Daemon.Port
	}
	if c.Daemon.Port < 1 || c.Daemon.Port > 65535 {
		return fmt.Errorf("%w: daemon.port %d out of range", ErrInvalidConfig, c.Daemon.Port)
	}
	if c.Daemon.Bind == "" {
		c.Daemon.Bind = def.Daemon.Bind
	}

	c.Daemon.LogLevel = strings.ToLower(c.Daemon.LogLevel)
	if c.Daemon.LogLevel == "" {
		c.Daemon.LogLevel = def.Daemon.LogLevel
	}
	if !slices.Contains(logLevels, c.Daemon.LogLevel) {
		return fmt.Errorf("%w: daemon.log_level %q", ErrInvalidConfig, c.Daemon.LogLevel)
	}

	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if !slices.Contains(backends, c.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend %q (want one of %s)", ErrInvalidConfig, c.Storage.Backend, strings.Join(backends, ", "))
	}
	if c.Storage.Backend == BackendPostgres && c.Storage.PostgresURL == "" {
		return fmt.Errorf("%w: storage.postgres_url is required for the postgres backend", ErrInvalidConfig)
	}
	if c.Storage.RetryAttempts <= 0 {
		c.Storage.RetryAttempts = def.Storage.RetryAttempts
	}

	return nil
}

// StoragePath resolves the file or database path for file-based backends,
// defaulting under baseDir.
func (c *LocalConfig) StoragePath(baseDir string) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == BackendSQLite {
		return filepath.Join(baseDir, "data", "wolong.db")
	}
	return filepath.Join(baseDir, "data")
}
