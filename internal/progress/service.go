package progress

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/wolong/internal/achievement"
	"github.com/felixgeelhaar/wolong/internal/clock"
	"github.com/felixgeelhaar/wolong/internal/domain"
)

// Service is the single owner of the in-memory progress value. Every
// mutation goes through it and is written through to the store.
type Service struct {
	mu      sync.Mutex
	store   *Store
	clock   clock.Clock
	current domain.PlayerProgress
	loaded  bool
}

// NewService creates a new progress service
func NewService(store *Store, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{store: store, clock: clk}
}

// RoundOutcome is what a finished session reports to its owner.
type RoundOutcome struct {
	Mode    domain.GameMode
	Level   int
	Stars   int
	Elapsed time.Duration
}

// RoundResult is the progress after recording a round and what changed.
type RoundResult struct {
	Mode          domain.GameMode            `json:"mode"`
	Level         int                        `json:"level"`
	StarsEarned   int                        `json:"starsEarned"`
	Progress      domain.PlayerProgress      `json:"progress"`
	NewlyUnlocked []domain.Achievement       `json:"newlyUnlocked"`
	PreviousRank  domain.Rank                `json:"previousRank"`
	Rank          domain.Rank                `json:"rank"`
	Announcements []achievement.Announcement `json:"announcements"`
}

// RankChanged reports whether the round promoted the player.
func (r RoundResult) RankChanged() bool {
	return r.PreviousRank != r.Rank
}

// Progress returns a copy of the current progress, loading it on first use.
func (s *Service) Progress(ctx context.Context) domain.PlayerProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx).Clone()
}

// IsUnlocked applies the level gate to the current progress.
func (s *Service) IsUnlocked(ctx context.Context, mode domain.GameMode, level int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return IsUnlocked(s.loadLocked(ctx), mode, level)
}

// Levels returns the level-select view for mode.
func (s *Service) Levels(ctx context.Context, mode domain.GameMode) ([]LevelState, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("levels for %q: %w", mode, domain.ErrInvalidMode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return LevelStates(s.loadLocked(ctx), mode), nil
}

// RecordRound records a completed level, adds its stars, runs the
// achievement engine and saves the result.
func (s *Service) RecordRound(ctx context.Context, o RoundOutcome) (RoundResult, error) {
	if !o.Mode.Valid() {
		return RoundResult{}, fmt.Errorf("record round: %w: %q", domain.ErrInvalidMode, o.Mode)
	}
	if o.Level < 1 || o.Level > domain.LevelsPerMode {
		return RoundResult{}, fmt.Errorf("record round: %w: %d", domain.ErrInvalidLevel, o.Level)
	}
	if o.Stars < 0 || o.Stars > 3 {
		return RoundResult{}, fmt.Errorf("record round: %w: %d", domain.ErrInvalidStars, o.Stars)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.loadLocked(ctx)
	now := s.clock.Now().UTC()

	updated := before.Clone()
	if !updated.HasCompleted(o.Mode, o.Level) {
		updated.CompletedLevels[o.Mode] = append(updated.CompletedLevels[o.Mode], o.Level)
	}
	updated.TotalStars += o.Stars
	updated.LastPlayed = now

	after := achievement.CheckAndUnlock(updated, achievement.Round{
		Mode:           o.Mode,
		StarsEarned:    o.Stars,
		ElapsedSeconds: o.Elapsed.Seconds(),
	}, now)

	s.current = after
	s.store.Save(ctx, after)

	unlocked := achievement.NewlyUnlocked(before, after)
	for _, a := range unlocked {
		slog.Info("achievement unlocked", "id", a.ID, "name", a.Name)
	}
	if before.CurrentLevel != after.CurrentLevel {
		slog.Info("rank changed", "from", before.CurrentLevel, "to", after.CurrentLevel)
	}

	return RoundResult{
		Mode:          o.Mode,
		Level:         o.Level,
		StarsEarned:   o.Stars,
		Progress:      after.Clone(),
		NewlyUnlocked: unlocked,
		PreviousRank:  before.CurrentLevel,
		Rank:          after.CurrentLevel,
		Announcements: achievement.Announce(unlocked, before.CurrentLevel, after.CurrentLevel),
	}, nil
}

// Reset replaces progress with defaults and clears the persisted blob.
func (s *Service) Reset(ctx context.Context) domain.PlayerProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Defaults(s.clock.Now())
	s.loaded = true
	s.store.Clear(ctx)
	slog.Info("progress reset")
	return s.current.Clone()
}

// Reload discards the in-memory value so the next call reads the store.
func (s *Service) Reload() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

func (s *Service) loadLocked(ctx context.Context) domain.PlayerProgress {
	if !s.loaded {
		s.current = s.store.Load(ctx)
		s.loaded = true
	}
	return s.current
}
