package problem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

// Describe renders a problem as a question and its worked answer.
func Describe(p domain.Problem) (prompt, answer string) {
	switch {
	case p.RoundUp != nil:
		ru := p.RoundUp
		return fmt.Sprintf("Pick numbers from %s that add up to %d.", list(ru.Numbers), ru.Target),
			fmt.Sprintf("%s = %d", join(ru.Solution, " + "), ru.Target)
	case p.Multiplication != nil:
		mp := p.Multiplication
		return fmt.Sprintf("How many blocks are in a %d x %d grid?", mp.Multiplicand, mp.Multiplier),
			fmt.Sprintf("%d x %d = %d", mp.Multiplicand, mp.Multiplier, mp.Product)
	case p.Balance != nil:
		bp := p.Balance
		return fmt.Sprintf("The scale shows %d. Add weights from %s to reach %d.", bp.Start, list(bp.Weights), bp.Target),
			fmt.Sprintf("%d + %s = %d", bp.Start, join(bp.Weights, " + "), bp.Target)
	}
	return "", ""
}

func list(xs []int) string {
	return "[" + join(xs, ", ") + "]"
}

func join(xs []int, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, sep)
}
