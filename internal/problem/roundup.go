package problem

import (
	"fmt"
	"slices"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

var roundUpTargets = []int{100, 200, 300, 400, 500, 1000}

// RoundUpTarget returns the target sum for a level.
func RoundUpTarget(level int) int {
	level = ClampLevel(level)
	return roundUpTargets[((level-1)/2)%len(roundUpTargets)]
}

// RoundUp builds a problem whose three numbers add up to the level's target.
func (g *Generator) RoundUp(level int) domain.RoundUpProblem {
	target := RoundUpTarget(level)

	g.mu.Lock()
	defer g.mu.Unlock()

	base := g.between(10, target-50)
	remainder := target - base
	split1 := g.between(1, remainder)
	split2 := remainder - split1

	solution := []int{base, split1, split2}
	numbers := slices.Clone(solution)
	g.rng.Shuffle(len(numbers), func(i, j int) {
		numbers[i], numbers[j] = numbers[j], numbers[i]
	})

	return domain.RoundUpProblem{
		Target:   target,
		Numbers:  numbers,
		Solution: solution,
		Hint:     fmt.Sprintf("找出可以凑成 %d 的数字", target),
	}
}
