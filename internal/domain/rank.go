package domain

// Rank is the player's title, derived from total stars.
type Rank string

const (
	RankNovice         Rank = "书童"
	RankStrategist     Rank = "谋士"
	RankTactician      Rank = "军师"
	RankSleepingDragon Rank = "卧龙"
)

// Star thresholds are inclusive floors.
const (
	StrategistStars     = 20
	TacticianStars      = 50
	SleepingDragonStars = 100
)

var rankOrder = []Rank{RankNovice, RankStrategist, RankTactician, RankSleepingDragon}

// AllRanks returns the ranks from lowest to highest.
func AllRanks() []Rank {
	out := make([]Rank, len(rankOrder))
	copy(out, rankOrder)
	return out
}

// RankFor computes the rank for a star total.
func RankFor(totalStars int) Rank {
	switch {
	case totalStars >= SleepingDragonStars:
		return RankSleepingDragon
	case totalStars >= TacticianStars:
		return RankTactician
	case totalStars >= StrategistStars:
		return RankStrategist
	default:
		return RankNovice
	}
}

// TopRank is the highest attainable rank.
func TopRank() Rank {
	return RankSleepingDragon
}

// Ordinal returns the zero-based position of r, or -1 for unknown ranks.
func (r Rank) Ordinal() int {
	for i, rank := range rankOrder {
		if rank == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is a known rank.
func (r Rank) Valid() bool {
	return r.Ordinal() >= 0
}

// EnglishName returns the English title of the rank.
func (r Rank) EnglishName() string {
	switch r {
	case RankNovice:
		return "Novice"
	case RankStrategist:
		return "Strategist"
	case RankTactician:
		return "Tactician"
	case RankSleepingDragon:
		return "Sleeping Dragon"
	}
	return string(r)
}

// StarsToNextRank returns the next rank above the one earned by totalStars and
// how many more stars it needs. ok is false at the top rank.
func StarsToNextRank(totalStars int) (next Rank, needed int, ok bool) {
	switch RankFor(totalStars) {
	case RankNovice:
		return RankStrategist, StrategistStars - totalStars, true
	case RankStrategist:
		return RankTactician, TacticianStars - totalStars, true
	case RankTactician:
		return RankSleepingDragon, SleepingDragonStars - totalStars, true
	}
	return "", 0, false
}
