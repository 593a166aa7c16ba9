package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/wolong/internal/config"
	"github.com/felixgeelhaar/wolong/internal/daemon"
)

const (
	sweepInterval = time.Minute
	shutdownGrace = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	wolongDir, err := config.EnsureWolongDir()
	if err != nil {
		return fmt.Errorf("ensure wolong dir: %w", err)
	}

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := daemon.SetupLogging(wolongDir, daemon.ParseLogLevel(cfg.Daemon.LogLevel), os.Stderr)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logFile.Close()

	pid := daemon.NewPIDFile(wolongDir)
	if err := pid.Write(os.Getpid()); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			slog.Warn("failed to remove pid file", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := daemon.NewServer(ctx, daemon.ServerConfig{
		Config:  cfg,
		BaseDir: wolongDir,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	if err := server.Run(ctx, daemon.RunOptions{
		SweepEvery:    sweepInterval,
		ShutdownGrace: shutdownGrace,
	}); err != nil {
		return err
	}

	slog.Info("daemon stopped")
	return nil
}
