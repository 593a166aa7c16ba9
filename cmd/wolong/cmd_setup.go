package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/wolong/internal/config"
)

// cmdInit creates ~/.wolong and a default config
func cmdInit() error {
	fmt.Println("Wolong Math - First-Time Setup")
	fmt.Println("==============================")
	fmt.Println()

	fmt.Print("Creating ~/.wolong directory structure... ")
	wolongDir, err := config.EnsureWolongDir()
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	fmt.Println("✓")

	configPath := filepath.Join(wolongDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Print("Creating default configuration... ")
		if err := config.SaveLocalConfig(config.DefaultLocalConfig()); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Println("✓")
	} else {
		fmt.Println("Configuration already exists ✓")
	}

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. wolong start             # Start the daemon for the game front-end")
	fmt.Println("  2. wolong levels round-up   # See which levels are open")
	fmt.Println("  3. wolong problem balance   # Try a practice problem")
	fmt.Println()
	fmt.Println("Storage backends (storage.backend in config.yaml):")
	fmt.Println("  file (default), sqlite, postgres, memory")

	return nil
}

// cmdConfig shows current configuration
func cmdConfig() error {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	wolongDir, err := config.WolongDir()
	if err != nil {
		return err
	}

	fmt.Println("Wolong Configuration")

	fmt.Println("Daemon:")
	fmt.Printf("  bind: %s:%d\n", cfg.Daemon.Bind, cfg.Daemon.Port)
	fmt.Printf("  log_level: %s\n", cfg.Daemon.LogLevel)

	fmt.Println("\nStorage:")
	fmt.Printf("  backend: %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		fmt.Printf("  postgres_url: %s\n", redactURL(cfg.Storage.PostgresURL))
	case config.BackendMemory:
	default:
		fmt.Printf("  path: %s\n", cfg.StoragePath(wolongDir))
	}
	fmt.Printf("  retry_attempts: %d\n", cfg.Storage.RetryAttempts)

	fmt.Println("\nGame:")
	if cfg.Game.Seed == 0 {
		fmt.Println("  seed: random")
	} else {
		fmt.Printf("  seed: %d\n", cfg.Game.Seed)
	}

	fmt.Printf("\nConfig path: %s\n", filepath.Join(wolongDir, "config.yaml"))

	return nil
}
