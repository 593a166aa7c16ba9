package domain

import (
	"slices"
	"time"
)

// PlayerProgress is the single persisted record of a player's progress.
type PlayerProgress struct {
	TotalStars      int                `json:"totalStars"`
	CompletedLevels map[GameMode][]int `json:"completedLevels"`
	Achievements    []Achievement      `json:"achievements"`
	CurrentLevel    Rank               `json:"currentLevel"`
	LastPlayed      time.Time          `json:"lastPlayed"`
}

// Clone returns a deep copy so callers can mutate the result freely.
func (p PlayerProgress) Clone() PlayerProgress {
	out := p
	out.CompletedLevels = make(map[GameMode][]int, len(p.CompletedLevels))
	for mode, levels := range p.CompletedLevels {
		out.CompletedLevels[mode] = slices.Clone(levels)
		if out.CompletedLevels[mode] == nil {
			out.CompletedLevels[mode] = []int{}
		}
	}
	if p.Achievements != nil {
		out.Achievements = make([]Achievement, len(p.Achievements))
		for i, a := range p.Achievements {
			if a.UnlockedAt != nil {
				at := *a.UnlockedAt
				a.UnlockedAt = &at
			}
			out.Achievements[i] = a
		}
	}
	return out
}

// TotalCompleted counts completed levels across every mode.
func (p PlayerProgress) TotalCompleted() int {
	total := 0
	for _, levels := range p.CompletedLevels {
		total += len(levels)
	}
	return total
}

// HasCompleted reports whether level is recorded as completed in mode.
func (p PlayerProgress) HasCompleted(mode GameMode, level int) bool {
	return slices.Contains(p.CompletedLevels[mode], level)
}

// Achievement looks up an achievement by ID.
func (p PlayerProgress) Achievement(id AchievementID) (Achievement, bool) {
	for _, a := range p.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// UnlockedCount returns how many achievements are unlocked.
func (p PlayerProgress) UnlockedCount() int {
	n := 0
	for _, a := range p.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}
