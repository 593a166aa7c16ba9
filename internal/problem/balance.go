package problem

import "github.com/felixgeelhaar/wolong/internal/domain"

// Coins are the weight denominations offered by the balance game.
var Coins = []int{1, 2, 5, 10, 20, 50, 100, 200, 500}

// BalanceBand returns the [min, max) target band for a level.
func BalanceBand(level int) (lo, hi int) {
	level = ClampLevel(level)
	switch {
	case level >= 9:
		return 1000, 3000
	case level >= 6:
		return 500, 1500
	case level >= 3:
		return 200, 800
	default:
		return 100, 500
	}
}

// Balance builds a problem whose weights add up to exactly Target-Start.
func (g *Generator) Balance(level int) domain.BalanceProblem {
	lo, hi := BalanceBand(level)

	g.mu.Lock()
	defer g.mu.Unlock()

	target := lo + 100*g.intN((hi-lo)/100)
	start := g.intN(target / 2)
	weights := g.decompose(target-start, Coins)
	g.rng.Shuffle(len(weights), func(i, j int) {
		weights[i], weights[j] = weights[j], weights[i]
	})

	return domain.BalanceProblem{
		Start:   start,
		Target:  target,
		Weights: weights,
	}
}

// decompose splits amount into randomly chosen admissible coins. When no coin
// fits the remainder it is paid out in units so the weights always sum to amount.
// Callers hold g.mu.
func (g *Generator) decompose(amount int, coins []int) []int {
	var weights []int
	remaining := amount
	for remaining > 0 {
		admissible := make([]int, 0, len(coins))
		for _, c := range coins {
			if c > 0 && c <= remaining {
				admissible = append(admissible, c)
			}
		}
		if len(admissible) == 0 {
			for ; remaining > 0; remaining-- {
				weights = append(weights, 1)
			}
			break
		}
		w := admissible[g.intN(len(admissible))]
		weights = append(weights, w)
		remaining -= w
	}
	return weights
}
