package problem

import (
	"fmt"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

// Verdict is the outcome of checking a partial answer.
type Verdict int

const (
	// VerdictPending means the selection is still short of the goal.
	VerdictPending Verdict = iota
	// VerdictCorrect means the selection hits the goal exactly.
	VerdictCorrect
	// VerdictOver means the selection overshoots the goal.
	VerdictOver
)

func (v Verdict) String() string {
	switch v {
	case VerdictPending:
		return "pending"
	case VerdictCorrect:
		return "correct"
	case VerdictOver:
		return "over"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

func compare(sum, goal int) Verdict {
	switch {
	case sum == goal:
		return VerdictCorrect
	case sum > goal:
		return VerdictOver
	default:
		return VerdictPending
	}
}

// EvaluateRoundUp sums the numbers at the selected indices and compares the
// sum with the target. Indices must be distinct.
func EvaluateRoundUp(p domain.RoundUpProblem, selected []int) (Verdict, int, error) {
	seen := make(map[int]bool, len(selected))
	sum := 0
	for _, idx := range selected {
		if idx < 0 || idx >= len(p.Numbers) {
			return VerdictPending, 0, fmt.Errorf("number index %d: %w", idx, domain.ErrInvalidInput)
		}
		if seen[idx] {
			return VerdictPending, 0, fmt.Errorf("number index %d selected twice: %w", idx, domain.ErrInvalidInput)
		}
		seen[idx] = true
		sum += p.Numbers[idx]
	}
	return compare(sum, p.Target), sum, nil
}

// EvaluateBalance sums the weights at the added indices and compares the sum
// with the gap between start and target. A weight may be added repeatedly.
func EvaluateBalance(p domain.BalanceProblem, added []int) (Verdict, int, error) {
	sum := 0
	for _, idx := range added {
		if idx < 0 || idx >= len(p.Weights) {
			return VerdictPending, 0, fmt.Errorf("weight index %d: %w", idx, domain.ErrInvalidInput)
		}
		sum += p.Weights[idx]
	}
	return compare(sum, p.Difference()), sum, nil
}
