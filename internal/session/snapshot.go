package session

import (
	"slices"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	Mode       domain.GameMode `json:"mode"`
	Level      int             `json:"level"`
	State      State           `json:"state"`
	Feedback   Feedback        `json:"feedback,omitempty"`
	Problem    domain.Problem  `json:"problem"`
	Selected   []int           `json:"selected"`
	Sum        int             `json:"sum"`
	Revealed   int             `json:"revealed"`
	ShowAnswer bool            `json:"showAnswer"`
	ShowHint   bool            `json:"showHint"`
	Solved     int             `json:"solved"`
	Target     int             `json:"target"`
	Score      int             `json:"score"`
	Stars      int             `json:"stars"`
	ElapsedMS  int64           `json:"elapsedMs"`
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := s.sched.Now().Sub(s.startedAt)
	if !s.finishedAt.IsZero() {
		elapsed = s.finishedAt.Sub(s.startedAt)
	}

	return Snapshot{
		Mode:       s.mode,
		Level:      s.level,
		State:      s.state,
		Feedback:   s.feedback,
		Problem:    cloneProblem(s.problem),
		Selected:   append([]int{}, s.selected...),
		Sum:        s.sumLocked(),
		Revealed:   s.revealed,
		ShowAnswer: s.answer,
		ShowHint:   s.hint,
		Solved:     s.solved,
		Target:     TargetProblems,
		Score:      s.score,
		Stars:      StarsFor(s.solved),
		ElapsedMS:  elapsed.Milliseconds(),
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) sumLocked() int {
	total := 0
	switch {
	case s.problem.RoundUp != nil:
		for _, i := range s.selected {
			total += s.problem.RoundUp.Numbers[i]
		}
	case s.problem.Balance != nil:
		for _, i := range s.selected {
			total += s.problem.Balance.Weights[i]
		}
	}
	return total
}

func cloneProblem(p domain.Problem) domain.Problem {
	if p.RoundUp != nil {
		ru := *p.RoundUp
		ru.Numbers = slices.Clone(ru.Numbers)
		ru.Solution = slices.Clone(ru.Solution)
		p.RoundUp = &ru
	}
	if p.Multiplication != nil {
		mp := *p.Multiplication
		p.Multiplication = &mp
	}
	if p.Balance != nil {
		bp := *p.Balance
		bp.Weights = slices.Clone(bp.Weights)
		p.Balance = &bp
	}
	return p
}
