package problem

import (
	"errors"
	"slices"
	"testing"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

// firstRand always picks the lowest value and never reorders.
type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }
func (firstRand) Shuffle(int, func(i, j int)) {}

// lastRand always picks the highest value.
type lastRand struct{}

func (lastRand) IntN(n int) int { return n - 1 }
func (lastRand) Shuffle(int, func(i, j int)) {}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestClampLevel(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{7, 7},
		{10, 10},
		{42, 10},
	}
	for _, tt := range tests {
		if got := ClampLevel(tt.in); got != tt.want {
			t.Errorf("ClampLevel(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRoundUp_SolutionSumsToTarget(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		g := New(seed)
		for level := 1; level <= domain.LevelsPerMode; level++ {
			p := g.RoundUp(level)
			if p.Target != RoundUpTarget(level) {
				t.Fatalf("level %d: target = %d, want %d", level, p.Target, RoundUpTarget(level))
			}
			if got := sum(p.Solution); got != p.Target {
				t.Fatalf("level %d: sum(solution) = %d, want %d", level, got, p.Target)
			}
			if len(p.Solution) != 3 {
				t.Fatalf("level %d: len(solution) = %d, want 3", level, len(p.Solution))
			}
			for _, n := range p.Solution {
				if n < 1 {
					t.Fatalf("level %d: non-positive number %d in %v", level, n, p.Solution)
				}
			}
			if p.Solution[0] < 10 || p.Solution[0] >= p.Target-50 {
				t.Fatalf("level %d: base %d outside [10, %d)", level, p.Solution[0], p.Target-50)
			}
			numbers := slices.Clone(p.Numbers)
			solution := slices.Clone(p.Solution)
			slices.Sort(numbers)
			slices.Sort(solution)
			if !slices.Equal(numbers, solution) {
				t.Fatalf("level %d: numbers %v is not a permutation of %v", level, p.Numbers, p.Solution)
			}
			if p.Hint == "" {
				t.Fatalf("level %d: empty hint", level)
			}
		}
	}
}

func TestRoundUpTarget(t *testing.T) {
	want := []int{100, 100, 200, 200, 300, 300, 400, 400, 500, 500}
	for i, w := range want {
		if got := RoundUpTarget(i + 1); got != w {
			t.Errorf("RoundUpTarget(%d) = %d, want %d", i+1, got, w)
		}
	}
	if got := RoundUpTarget(0); got != 100 {
		t.Errorf("RoundUpTarget(0) = %d, want 100", got)
	}
}

func TestRoundUp_Extremes(t *testing.T) {
	for _, rng := range []Rand{firstRand{}, lastRand{}} {
		p := NewWithRand(rng).RoundUp(1)
		if got := sum(p.Solution); got != p.Target {
			t.Errorf("sum(solution) = %d, want %d", got, p.Target)
		}
		if p.Solution[1] < 1 || p.Solution[2] < 1 {
			t.Errorf("split produced a non-positive part: %v", p.Solution)
		}
	}
}

func TestMultiplication_ProductAndRange(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		g := New(seed)
		for level := 1; level <= domain.LevelsPerMode; level++ {
			p := g.Multiplication(level)
			if p.Product != p.Multiplicand*p.Multiplier {
				t.Fatalf("level %d: product = %d, want %d", level, p.Product, p.Multiplicand*p.Multiplier)
			}
			upper := MultiplicationMax(level)
			for _, f := range []int{p.Multiplicand, p.Multiplier} {
				if f < 2 || f >= upper {
					t.Fatalf("level %d: factor %d outside [2, %d)", level, f, upper)
				}
			}
		}
	}
}

func TestMultiplicationMax(t *testing.T) {
	want := []int{5, 5, 6, 6, 8, 8, 8, 9, 9, 12}
	for i, w := range want {
		if got := MultiplicationMax(i + 1); got != w {
			t.Errorf("MultiplicationMax(%d) = %d, want %d", i+1, got, w)
		}
	}
}

func TestBalance_WeightsSumToDifference(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		g := New(seed)
		for level := 1; level <= domain.LevelsPerMode; level++ {
			p := g.Balance(level)
			lo, hi := BalanceBand(level)
			if p.Target < lo || p.Target >= hi || p.Target%100 != 0 {
				t.Fatalf("level %d: target %d not a multiple of 100 in [%d, %d)", level, p.Target, lo, hi)
			}
			if p.Start < 0 || p.Start >= p.Target/2 {
				t.Fatalf("level %d: start %d outside [0, %d)", level, p.Start, p.Target/2)
			}
			if got := sum(p.Weights); got != p.Difference() {
				t.Fatalf("level %d: weights sum to %d, want %d (truncated decomposition)", level, got, p.Difference())
			}
			for _, w := range p.Weights {
				if !slices.Contains(Coins, w) {
					t.Fatalf("level %d: weight %d is not a coin", level, w)
				}
			}
		}
	}
}

func TestDecompose_UnitFallback(t *testing.T) {
	g := NewWithRand(firstRand{})
	got := g.decompose(7, []int{5})
	want := []int{5, 1, 1}
	if !slices.Equal(got, want) {
		t.Errorf("decompose(7, [5]) = %v, want %v", got, want)
	}
	if got := g.decompose(0, Coins); len(got) != 0 {
		t.Errorf("decompose(0) = %v, want empty", got)
	}
}

func TestGenerate(t *testing.T) {
	g := New(7)

	t.Run("dispatches by mode", func(t *testing.T) {
		for _, mode := range domain.AllModes() {
			p, err := g.Generate(mode, 3)
			if err != nil {
				t.Fatalf("Generate(%s) error = %v", mode, err)
			}
			if p.Mode != mode || p.Level != 3 {
				t.Errorf("Generate(%s) = mode %s level %d", mode, p.Mode, p.Level)
			}
			set := 0
			if p.RoundUp != nil {
				set++
			}
			if p.Multiplication != nil {
				set++
			}
			if p.Balance != nil {
				set++
			}
			if set != 1 {
				t.Errorf("Generate(%s) populated %d problems, want 1", mode, set)
			}
		}
	})

	t.Run("clamps level", func(t *testing.T) {
		p, err := g.Generate(domain.ModeBalance, 99)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if p.Level != 10 {
			t.Errorf("Level = %d, want 10", p.Level)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := g.Generate("chess", 1)
		if !errors.Is(err, domain.ErrInvalidMode) {
			t.Errorf("Generate(chess) error = %v, want ErrInvalidMode", err)
		}
	})
}

func TestNew_Deterministic(t *testing.T) {
	a := New(99).Balance(5)
	b := New(99).Balance(5)
	if a.Start != b.Start || a.Target != b.Target || !slices.Equal(a.Weights, b.Weights) {
		t.Errorf("same seed produced different problems: %+v vs %+v", a, b)
	}
}

func TestNewFromEntropy(t *testing.T) {
	g, err := NewFromEntropy()
	if err != nil {
		t.Fatalf("NewFromEntropy() error = %v", err)
	}
	p := g.Multiplication(1)
	if p.Product != p.Multiplicand*p.Multiplier {
		t.Errorf("product = %d", p.Product)
	}
}

func TestForSeed(t *testing.T) {
	g, err := ForSeed(7)
	if err != nil {
		t.Fatalf("ForSeed(7) error = %v", err)
	}
	if got, want := g.RoundUp(3), New(7).RoundUp(3); !slices.Equal(got.Numbers, want.Numbers) {
		t.Errorf("ForSeed(7) numbers = %v, want %v", got.Numbers, want.Numbers)
	}

	if _, err := ForSeed(0); err != nil {
		t.Errorf("ForSeed(0) error = %v", err)
	}
}
