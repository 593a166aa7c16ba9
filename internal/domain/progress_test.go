package domain

import (
	"testing"
	"time"
)

func TestPlayerProgress_Clone(t *testing.T) {
	at := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	achievements := DefaultAchievements()
	achievements[0].Unlocked = true
	achievements[0].UnlockedAt = &at

	original := PlayerProgress{
		TotalStars: 6,
		CompletedLevels: map[GameMode][]int{
			ModeRoundUp: {1, 2},
		},
		Achievements: achievements,
		CurrentLevel: RankNovice,
	}

	clone := original.Clone()
	clone.CompletedLevels[ModeRoundUp][0] = 99
	clone.CompletedLevels[ModeBalance] = append(clone.CompletedLevels[ModeBalance], 1)
	clone.Achievements[1].Unlocked = true
	*clone.Achievements[0].UnlockedAt = at.Add(time.Hour)

	if original.CompletedLevels[ModeRoundUp][0] != 1 {
		t.Error("clone shares completed level slices with original")
	}
	if _, ok := original.CompletedLevels[ModeBalance]; ok {
		t.Error("clone shares completed level map with original")
	}
	if original.Achievements[1].Unlocked {
		t.Error("clone shares achievements slice with original")
	}
	if !original.Achievements[0].UnlockedAt.Equal(at) {
		t.Error("clone shares unlockedAt pointer with original")
	}
}

func TestPlayerProgress_Queries(t *testing.T) {
	p := PlayerProgress{
		CompletedLevels: map[GameMode][]int{
			ModeRoundUp:        {1, 2, 3},
			ModeMultiplication: {1},
			ModeBalance:        {},
		},
		Achievements: DefaultAchievements(),
	}
	p.Achievements[2].Unlocked = true

	if got := p.TotalCompleted(); got != 4 {
		t.Errorf("TotalCompleted() = %d, want 4", got)
	}
	if !p.HasCompleted(ModeRoundUp, 3) {
		t.Error("HasCompleted(round-up, 3) = false, want true")
	}
	if p.HasCompleted(ModeBalance, 1) {
		t.Error("HasCompleted(balance, 1) = true, want false")
	}
	if got := p.UnlockedCount(); got != 1 {
		t.Errorf("UnlockedCount() = %d, want 1", got)
	}
	if _, ok := p.Achievement(AchievementSpeedDemon); !ok {
		t.Error("Achievement(speed-demon) not found")
	}
	if _, ok := p.Achievement("missing"); ok {
		t.Error("Achievement(missing) should not be found")
	}
}
