package progress

import (
	"time"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

// Defaults returns a fresh progress record: no stars, no completed levels,
// every achievement locked.
func Defaults(now time.Time) domain.PlayerProgress {
	levels := make(map[domain.GameMode][]int, len(domain.AllModes()))
	for _, mode := range domain.AllModes() {
		levels[mode] = []int{}
	}
	return domain.PlayerProgress{
		TotalStars:      0,
		CompletedLevels: levels,
		Achievements:    domain.DefaultAchievements(),
		CurrentLevel:    domain.RankNovice,
		LastPlayed:      now.UTC(),
	}
}
