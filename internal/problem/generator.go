// Package problem generates randomized arithmetic problems for each game mode.
//
// Generators never fail for a known mode: levels are clamped into
// [1, domain.LevelsPerMode] before any range is derived, so every sampled
// range is non-empty.
package problem

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/felixgeelhaar/wolong/internal/domain"
	"github.com/felixgeelhaar/wolong/internal/random"
)

// Rand is the random source consumed by a Generator. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Generator produces problems from an injected random source.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng Rand
}

// New creates a deterministic generator seeded with seed.
func New(seed uint64) *Generator {
	return NewWithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewWithRand creates a generator over an arbitrary random source.
func NewWithRand(rng Rand) *Generator {
	return &Generator{rng: rng}
}

// NewFromEntropy creates a generator seeded from crypto/rand.
func NewFromEntropy() (*Generator, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return nil, fmt.Errorf("seed generator: %w", err)
	}
	return New(seed), nil
}

// ForSeed returns a generator for a configured seed. Zero draws a seed from crypto/rand.
func ForSeed(seed uint64) (*Generator, error) {
	if seed == 0 {
		return NewFromEntropy()
	}
	return New(seed), nil
}

// ClampLevel maps any integer onto a playable level.
func ClampLevel(level int) int {
	return min(max(level, 1), domain.LevelsPerMode)
}

// Generate returns a problem for the given mode and level.
func (g *Generator) Generate(mode domain.GameMode, level int) (domain.Problem, error) {
	level = ClampLevel(level)
	p := domain.Problem{Mode: mode, Level: level}

	switch mode {
	case domain.ModeRoundUp:
		ru := g.RoundUp(level)
		p.RoundUp = &ru
	case domain.ModeMultiplication:
		mp := g.Multiplication(level)
		p.Multiplication = &mp
	case domain.ModeBalance:
		bp := g.Balance(level)
		p.Balance = &bp
	default:
		return domain.Problem{}, fmt.Errorf("generate %q: %w", mode, domain.ErrInvalidMode)
	}
	return p, nil
}

// intN draws from [0, n). Callers hold g.mu.
func (g *Generator) intN(n int) int {
	if n <= 1 {
		return 0
	}
	return g.rng.IntN(n)
}

// between draws from [lo, hi). Callers hold g.mu.
func (g *Generator) between(lo, hi int) int {
	return lo + g.intN(hi-lo)
}
