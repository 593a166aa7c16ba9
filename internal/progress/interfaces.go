package progress

import (
	"context"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

// ProgressService defines the progress operations used by the game
// coordinator, daemon handlers and MCP tools
type ProgressService interface {
	// Progress returns a copy of the current progress
	Progress(ctx context.Context) domain.PlayerProgress

	// IsUnlocked reports whether a level may be played
	IsUnlocked(ctx context.Context, mode domain.GameMode, level int) bool

	// Levels returns the level-select view for a mode
	Levels(ctx context.Context, mode domain.GameMode) ([]LevelState, error)

	// RecordRound applies a completed round and persists the result
	RecordRound(ctx context.Context, o RoundOutcome) (RoundResult, error)

	// Reset restores defaults and clears persisted progress
	Reset(ctx context.Context) domain.PlayerProgress
}

// Ensure Service implements ProgressService
var _ ProgressService = (*Service)(nil)
