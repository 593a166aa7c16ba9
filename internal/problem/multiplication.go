package problem

import "github.com/felixgeelhaar/wolong/internal/domain"

// MultiplicationMax returns the exclusive upper bound for both factors.
func MultiplicationMax(level int) int {
	level = ClampLevel(level)
	switch {
	case level >= 10:
		return 12
	case level >= 8:
		return 9
	case level >= 5:
		return 8
	case level >= 3:
		return 6
	default:
		return 5
	}
}

// Multiplication draws both factors from [2, max).
func (g *Generator) Multiplication(level int) domain.MultiplicationProblem {
	upper := MultiplicationMax(level)

	g.mu.Lock()
	defer g.mu.Unlock()

	a := g.between(2, upper)
	b := g.between(2, upper)
	return domain.MultiplicationProblem{
		Multiplicand: a,
		Multiplier:   b,
		Product:      a * b,
	}
}
