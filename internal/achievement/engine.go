// Package achievement evaluates unlock rules after a completed round.
package achievement

import (
	"time"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

// Unlock thresholds
const (
	MasteryLevels      = domain.LevelsPerMode
	StarCollectorStars = 50
	PerfectStars       = 3
	SpeedSeconds       = 30.0
)

// Round describes the completed round being evaluated.
type Round struct {
	Mode           domain.GameMode
	StarsEarned    int
	ElapsedSeconds float64
}

// rule unlocks one achievement when its predicate holds.
type rule struct {
	id    domain.AchievementID
	holds func(p domain.PlayerProgress, r Round, prevRank domain.Rank) bool
}

// rules are evaluated in order on every call.
var rules = []rule{
	{domain.AchievementFirstSteps, func(p domain.PlayerProgress, _ Round, _ domain.Rank) bool {
		return p.TotalCompleted() == 1
	}},
	{domain.AchievementRoundUpMaster, masteryOf(domain.ModeRoundUp)},
	{domain.AchievementMultiplicationMaster, masteryOf(domain.ModeMultiplication)},
	{domain.AchievementBalanceMaster, masteryOf(domain.ModeBalance)},
	{domain.AchievementStarCollector, func(p domain.PlayerProgress, _ Round, _ domain.Rank) bool {
		return p.TotalStars >= StarCollectorStars
	}},
	{domain.AchievementPerfectWarrior, func(_ domain.PlayerProgress, r Round, _ domain.Rank) bool {
		return r.StarsEarned == PerfectStars
	}},
	{domain.AchievementSpeedDemon, func(_ domain.PlayerProgress, r Round, _ domain.Rank) bool {
		return r.ElapsedSeconds <= SpeedSeconds
	}},
	{domain.AchievementMasterStrategist, func(p domain.PlayerProgress, _ Round, prevRank domain.Rank) bool {
		return domain.RankFor(p.TotalStars) == domain.TopRank() && prevRank != domain.TopRank()
	}},
}

// masteryOf only fires for the mode of the round being evaluated.
func masteryOf(mode domain.GameMode) func(domain.PlayerProgress, Round, domain.Rank) bool {
	return func(p domain.PlayerProgress, r Round, _ domain.Rank) bool {
		return r.Mode == mode && len(p.CompletedLevels[mode]) >= MasteryLevels
	}
}

// CheckAndUnlock returns a copy of p with every newly satisfied achievement
// unlocked at now and the rank recomputed. The caller must already have
// recorded the round's level and stars in p. p itself is not modified.
func CheckAndUnlock(p domain.PlayerProgress, r Round, now time.Time) domain.PlayerProgress {
	out := p.Clone()
	prevRank := p.CurrentLevel

	for _, rl := range rules {
		if rl.holds(out, r, prevRank) {
			unlock(&out, rl.id, now)
		}
	}

	out.CurrentLevel = domain.RankFor(out.TotalStars)
	return out
}

// unlock flips a locked achievement. Already unlocked or unknown IDs are left alone.
func unlock(p *domain.PlayerProgress, id domain.AchievementID, now time.Time) {
	for i := range p.Achievements {
		a := &p.Achievements[i]
		if a.ID != id || a.Unlocked {
			continue
		}
		at := now
		a.Unlocked = true
		a.UnlockedAt = &at
	}
}

// NewlyUnlocked lists achievements unlocked in after but not in before.
func NewlyUnlocked(before, after domain.PlayerProgress) []domain.Achievement {
	was := make(map[domain.AchievementID]bool, len(before.Achievements))
	for _, a := range before.Achievements {
		was[a.ID] = a.Unlocked
	}

	var out []domain.Achievement
	for _, a := range after.Achievements {
		if a.Unlocked && !was[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
