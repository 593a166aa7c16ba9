package progress

import "github.com/felixgeelhaar/wolong/internal/domain"

// IsUnlocked reports whether level is playable: level 1 always is, and
// level n>1 needs n-1 completed in the same mode.
func IsUnlocked(p domain.PlayerProgress, mode domain.GameMode, level int) bool {
	if level == 1 {
		return true
	}
	if level < 1 {
		return false
	}
	return p.HasCompleted(mode, level-1)
}

// LevelState describes one entry on the level-select screen.
type LevelState struct {
	Level     int  `json:"level"`
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
}

// LevelStates lists levels 1..domain.LevelsPerMode for mode.
func LevelStates(p domain.PlayerProgress, mode domain.GameMode) []LevelState {
	out := make([]LevelState, 0, domain.LevelsPerMode)
	for level := 1; level <= domain.LevelsPerMode; level++ {
		out = append(out, LevelState{
			Level:     level,
			Unlocked:  IsUnlocked(p, mode, level),
			Completed: p.HasCompleted(mode, level),
		})
	}
	return out
}
