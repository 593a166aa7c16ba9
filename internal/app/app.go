// Package app wires the storage backend and the game services shared by the
// daemon, the MCP server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/wolong/internal/clock"
	"github.com/felixgeelhaar/wolong/internal/config"
	"github.com/felixgeelhaar/wolong/internal/game"
	"github.com/felixgeelhaar/wolong/internal/problem"
	"github.com/felixgeelhaar/wolong/internal/progress"
	"github.com/felixgeelhaar/wolong/internal/session"
	"github.com/felixgeelhaar/wolong/internal/settings"
	"github.com/felixgeelhaar/wolong/internal/storage"
	"github.com/felixgeelhaar/wolong/internal/storage/backend"
)

// Options overrides collaborators, mostly for tests.
type Options struct {
	// Blobs replaces the configured backend.
	Blobs storage.BlobStore
	// Generator replaces the generator built from the configured seed.
	Generator *problem.Generator
	Scheduler session.Scheduler
	Clock     clock.Clock
}

// App holds the wired services.
type App struct {
	Backend     string
	Progress    *progress.Service
	Sound       *settings.Store
	Generator   *problem.Generator
	Coordinator *game.Coordinator

	closer func() error
}

// New opens the configured blob store under baseDir and builds the services on it.
func New(ctx context.Context, cfg *config.LocalConfig, baseDir string, opts Options) (*App, error) {
	a := &App{}

	blobs := opts.Blobs
	if blobs == nil {
		store, err := backend.Open(ctx, cfg, baseDir)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		blobs = store
		a.Backend = store.Backend
		a.closer = store.Close
	} else {
		a.Backend = "custom"
	}

	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = problem.ForSeed(cfg.Game.Seed)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	a.Generator = gen
	a.Progress = progress.NewService(progress.NewStore(blobs, clk), clk)
	a.Sound = settings.NewStore(blobs)
	a.Coordinator = game.NewCoordinator(a.Progress, gen, opts.Scheduler)
	return a, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}
