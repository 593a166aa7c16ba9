// Package game owns running sessions: it gates level access, starts sessions
// and records their outcome in the player's progress.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/wolong/internal/domain"
	"github.com/felixgeelhaar/wolong/internal/problem"
	"github.com/felixgeelhaar/wolong/internal/progress"
	"github.com/felixgeelhaar/wolong/internal/session"
)

// DefaultRetention is how long a finished game stays readable before Sweep drops it.
const DefaultRetention = 10 * time.Minute

// Coordinator is the session owner used by the daemon and the MCP server.
type Coordinator struct {
	progress  progress.ProgressService
	generator *problem.Generator
	scheduler session.Scheduler
	retention time.Duration

	mu    sync.RWMutex
	games map[domain.SessionID]*Game
}

// NewCoordinator creates a coordinator. A nil scheduler uses real timers.
func NewCoordinator(svc progress.ProgressService, gen *problem.Generator, sched session.Scheduler) *Coordinator {
	if sched == nil {
		sched = session.RealScheduler{}
	}
	return &Coordinator{
		progress:  svc,
		generator: gen,
		scheduler: sched,
		retention: DefaultRetention,
		games:     make(map[domain.SessionID]*Game),
	}
}

// SetRetention changes how long finished games are kept. Non-positive values
// drop finished games on the next sweep.
func (c *Coordinator) SetRetention(d time.Duration) {
	c.mu.Lock()
	c.retention = max(d, 0)
	c.mu.Unlock()
}

// Start opens a session for an unlocked level.
func (c *Coordinator) Start(ctx context.Context, mode domain.GameMode, level int) (*Game, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("start session: %w: %q", domain.ErrInvalidMode, mode)
	}
	if level < 1 || level > domain.LevelsPerMode {
		return nil, fmt.Errorf("start session: %w: %d", domain.ErrInvalidLevel, level)
	}
	if !c.progress.IsUnlocked(ctx, mode, level) {
		return nil, fmt.Errorf("start %s level %d: %w", mode, level, domain.ErrLevelLocked)
	}

	c.Sweep()

	g := &Game{
		ID:        domain.GenerateSessionID(),
		StartedAt: c.scheduler.Now(),
		progress:  c.progress,
		now:       c.scheduler.Now,
	}
	sess, err := session.New(session.Config{
		Mode:      mode,
		Level:     level,
		Generator: c.generator,
		Scheduler: c.scheduler,
		Owner:     g,
	})
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	g.session = sess

	c.mu.Lock()
	c.games[g.ID] = g
	c.mu.Unlock()

	slog.Info("session started", "session_id", g.ID.String(), "mode", mode, "level", level)
	return g, nil
}

// Get returns a registered game.
func (c *Coordinator) Get(id domain.SessionID) (*Game, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.games[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return g, nil
}

// Remove exits the game if it is still running and drops it from the registry.
func (c *Coordinator) Remove(id domain.SessionID) error {
	c.mu.Lock()
	g, ok := c.games[id]
	delete(c.games, id)
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	if err := g.session.Exit(); err != nil && !errors.Is(err, domain.ErrSessionNotActive) {
		return err
	}
	return nil
}

// Sweep drops games that completed or exited more than the retention period
// ago and reports how many were removed. Running games are never dropped.
func (c *Coordinator) Sweep() int {
	now := c.scheduler.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := now.Add(-c.retention)
	removed := 0
	for id, g := range c.games {
		at, ok := g.FinishedAt()
		if !ok || at.After(cutoff) {
			continue
		}
		delete(c.games, id)
		removed++
	}
	if removed > 0 {
		slog.Debug("swept finished sessions", "removed", removed, "remaining", len(c.games))
	}
	return removed
}

// Len returns the number of registered games.
func (c *Coordinator) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.games)
}

// Game is one registered session and, once finished, its recorded result.
type Game struct {
	ID        domain.SessionID
	StartedAt time.Time

	session  *session.Session
	progress progress.ProgressService
	now      func() time.Time

	mu         sync.Mutex
	result     *progress.RoundResult
	exited     bool
	finishedAt time.Time
}

// Status is the view of a game returned to clients.
type Status struct {
	ID      string                `json:"id"`
	Session session.Snapshot      `json:"session"`
	Result  *progress.RoundResult `json:"result,omitempty"`
	Exited  bool                  `json:"exited"`
}

// Status returns the current snapshot and the recorded result, if any.
func (g *Game) Status() Status {
	snap := g.session.Snapshot()

	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{
		ID:      g.ID.String(),
		Session: snap,
		Result:  g.result,
		Exited:  g.exited,
	}
}

// Result returns the recorded round, or false while the game is still running.
func (g *Game) Result() (progress.RoundResult, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result == nil {
		return progress.RoundResult{}, false
	}
	return *g.result, true
}

// FinishedAt reports when the game completed or exited.
func (g *Game) FinishedAt() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finishedAt, !g.finishedAt.IsZero()
}

// Session returns the underlying session controller.
func (g *Game) Session() *session.Session {
	return g.session
}

// Select picks a number in RoundUp or adds a weight in Balance.
func (g *Game) Select(index int) error {
	switch g.session.Mode() {
	case domain.ModeRoundUp:
		return g.session.Toggle(index)
	case domain.ModeBalance:
		return g.session.AddWeight(index)
	default:
		return fmt.Errorf("select: %w", domain.ErrWrongMode)
	}
}

// OnComplete records the finished round.
func (g *Game) OnComplete(stars int) {
	result, err := g.progress.RecordRound(context.Background(), progress.RoundOutcome{
		Mode:    g.session.Mode(),
		Level:   g.session.Level(),
		Stars:   stars,
		Elapsed: g.session.Elapsed(),
	})
	finished := g.now()
	if err != nil {
		slog.Error("failed to record round", "session_id", g.ID.String(), "error", err)
		g.mu.Lock()
		g.finishedAt = finished
		g.mu.Unlock()
		return
	}

	g.mu.Lock()
	g.result = &result
	g.finishedAt = finished
	g.mu.Unlock()

	slog.Info("session completed",
		"session_id", g.ID.String(),
		"stars", stars,
		"total_stars", result.Progress.TotalStars,
		"unlocked", len(result.NewlyUnlocked),
	)
}

// OnExit marks the game abandoned. Nothing is recorded.
func (g *Game) OnExit() {
	finished := g.now()
	g.mu.Lock()
	g.exited = true
	g.finishedAt = finished
	g.mu.Unlock()

	slog.Info("session exited", "session_id", g.ID.String())
}

var _ session.Owner = (*Game)(nil)
