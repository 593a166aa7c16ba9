// Package session runs one play-through of a mini-game: it presents
// problems, evaluates player input, schedules the feedback pauses and
// reports the star rating to its owner after the last problem.
package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/felixgeelhaar/wolong/internal/domain"
	"github.com/felixgeelhaar/wolong/internal/problem"
)

// TargetProblems is the number of solved problems that completes a session.
const TargetProblems = 5

// PointsPerSolve is added to the score for every solved problem.
const PointsPerSolve = 100

// Feedback pauses
const (
	RoundUpWrongPause     = 800 * time.Millisecond
	RoundUpCelebration    = 1500 * time.Millisecond
	BalanceWrongPause     = 1000 * time.Millisecond
	BalanceCelebration    = 2000 * time.Millisecond
	RevealStep            = 50 * time.Millisecond
	RevealSettle          = 500 * time.Millisecond
	RevealCelebration     = 2000 * time.Millisecond
	SkipRevealCelebration = 1500 * time.Millisecond
	CompletionDelay       = 1500 * time.Millisecond
)

// State is the session's position in its state machine.
type State string

const (
	StatePresenting  State = "presenting"
	StateEvaluating  State = "evaluating"
	StateCelebrating State = "celebrating"
	StateComplete    State = "complete"
	StateExited      State = "exited"
)

// Feedback is the verdict currently shown to the player.
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackCorrect Feedback = "correct"
	FeedbackWrong   Feedback = "wrong"
)

// Owner receives the session's terminal events.
type Owner interface {
	// OnComplete is called once, after the completion delay, with 0..3 stars.
	OnComplete(stars int)
	// OnExit is called when the player abandons the session.
	OnExit()
}

// StarsFor maps solved problems to a star rating.
func StarsFor(solved int) int {
	switch {
	case solved >= TargetProblems:
		return 3
	case solved >= 3:
		return 2
	case solved >= 1:
		return 1
	default:
		return 0
	}
}

// Config holds a session's collaborators.
type Config struct {
	Mode      domain.GameMode
	Level     int
	Generator *problem.Generator
	Scheduler Scheduler
	Owner     Owner
}

// Session is safe for concurrent use; timers fire on other goroutines.
type Session struct {
	mu sync.Mutex

	mode  domain.GameMode
	level int
	gen   *problem.Generator
	sched Scheduler
	owner Owner

	state    State
	feedback Feedback
	problem  domain.Problem
	selected []int
	revealed int
	answer   bool
	hint     bool
	solved   int
	score    int
	notified bool

	timers    map[int]Timer
	nextTimer int

	startedAt  time.Time
	finishedAt time.Time
}

// New starts a session and presents its first problem.
func New(cfg Config) (*Session, error) {
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("new session: %w: %q", domain.ErrInvalidMode, cfg.Mode)
	}
	if cfg.Generator == nil {
		return nil, errors.New("new session: generator is required")
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = RealScheduler{}
	}

	s := &Session{
		mode:   cfg.Mode,
		level:  problem.ClampLevel(cfg.Level),
		gen:    cfg.Generator,
		sched:  cfg.Scheduler,
		owner:  cfg.Owner,
		timers: make(map[int]Timer),
	}
	s.startedAt = s.sched.Now()
	if err := s.present(); err != nil {
		return nil, err
	}
	return s, nil
}

// Toggle selects or deselects a RoundUp number by index.
func (s *Session) Toggle(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acceptLocked(domain.ModeRoundUp); err != nil {
		return err
	}
	p := *s.problem.RoundUp

	if i := slices.Index(s.selected, index); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return nil
	}

	next := append(slices.Clone(s.selected), index)
	verdict, _, err := problem.EvaluateRoundUp(p, next)
	if err != nil {
		return err
	}
	s.selected = next

	switch verdict {
	case problem.VerdictCorrect:
		s.celebrateLocked(RoundUpCelebration)
	case problem.VerdictOver:
		s.wrongLocked(RoundUpWrongPause)
	}
	return nil
}

// AddWeight adds a Balance weight by index. The same weight may be added repeatedly.
func (s *Session) AddWeight(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acceptLocked(domain.ModeBalance); err != nil {
		return err
	}

	next := append(slices.Clone(s.selected), index)
	verdict, _, err := problem.EvaluateBalance(*s.problem.Balance, next)
	if err != nil {
		return err
	}
	s.selected = next

	switch verdict {
	case problem.VerdictCorrect:
		s.celebrateLocked(BalanceCelebration)
	case problem.VerdictOver:
		s.wrongLocked(BalanceWrongPause)
	}
	return nil
}

// ResetSelection clears the weights added so far.
func (s *Session) ResetSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acceptLocked(domain.ModeBalance); err != nil {
		return err
	}
	s.selected = nil
	return nil
}

// Reveal starts the block-by-block multiplication animation. The answer is
// shown RevealSettle after the last block.
func (s *Session) Reveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acceptLocked(domain.ModeMultiplication); err != nil {
		return err
	}
	s.state = StateEvaluating
	s.revealed = 0
	s.scheduleLocked(RevealStep, s.revealStepLocked)
	return nil
}

// SkipReveal shows every block and the answer at once while revealing.
func (s *Session) SkipReveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != domain.ModeMultiplication {
		return fmt.Errorf("skip reveal: %w", domain.ErrWrongMode)
	}
	if s.state != StateEvaluating {
		return fmt.Errorf("skip reveal in state %s: %w", s.state, domain.ErrSessionNotActive)
	}
	s.stopTimersLocked()
	s.revealed = s.problem.Multiplication.Blocks()
	s.celebrateLocked(SkipRevealCelebration)
	return nil
}

// ToggleHint shows or hides the hint. New problems start with it hidden.
func (s *Session) ToggleHint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateComplete || s.state == StateExited {
		return fmt.Errorf("toggle hint: %w", domain.ErrSessionNotActive)
	}
	s.hint = !s.hint
	return nil
}

// Exit abandons the session. Pending transitions are cancelled and the
// owner's OnExit is called; no stars are reported.
func (s *Session) Exit() error {
	s.mu.Lock()
	if s.state == StateExited || s.notified {
		s.mu.Unlock()
		return fmt.Errorf("exit: %w", domain.ErrSessionNotActive)
	}
	s.stopTimersLocked()
	s.state = StateExited
	s.feedback = FeedbackNone
	s.finishedAt = s.sched.Now()
	owner := s.owner
	s.mu.Unlock()

	if owner != nil {
		owner.OnExit()
	}
	return nil
}

// Elapsed is the play time so far, or the total once the session has ended.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finishedAt.IsZero() {
		return s.finishedAt.Sub(s.startedAt)
	}
	return s.sched.Now().Sub(s.startedAt)
}

// Mode returns the session's game mode.
func (s *Session) Mode() domain.GameMode { return s.mode }

// Level returns the session's level.
func (s *Session) Level() int { return s.level }

func (s *Session) acceptLocked(mode domain.GameMode) error {
	if s.mode != mode {
		return fmt.Errorf("%w: session is %s", domain.ErrWrongMode, s.mode)
	}
	if s.state != StatePresenting {
		return fmt.Errorf("input in state %s: %w", s.state, domain.ErrSessionNotActive)
	}
	return nil
}

func (s *Session) present() error {
	p, err := s.gen.Generate(s.mode, s.level)
	if err != nil {
		return err
	}
	s.problem = p
	s.selected = nil
	s.revealed = 0
	s.answer = false
	s.hint = false
	s.feedback = FeedbackNone
	s.state = StatePresenting
	return nil
}

func (s *Session) wrongLocked(pause time.Duration) {
	s.state = StateEvaluating
	s.feedback = FeedbackWrong
	s.scheduleLocked(pause, func() func() {
		s.selected = nil
		s.feedback = FeedbackNone
		s.state = StatePresenting
		return nil
	})
}

func (s *Session) celebrateLocked(pause time.Duration) {
	s.state = StateCelebrating
	s.feedback = FeedbackCorrect
	s.answer = true
	s.score += PointsPerSolve
	s.scheduleLocked(pause, s.advanceLocked)
}

func (s *Session) revealStepLocked() func() {
	s.revealed++
	if s.revealed < s.problem.Multiplication.Blocks() {
		s.scheduleLocked(RevealStep, s.revealStepLocked)
		return nil
	}
	s.scheduleLocked(RevealSettle, func() func() {
		s.celebrateLocked(RevealCelebration)
		return nil
	})
	return nil
}

// advanceLocked counts the solve and either presents the next problem or
// completes the session.
func (s *Session) advanceLocked() func() {
	s.solved++
	if s.solved < TargetProblems {
		if err := s.present(); err != nil {
			// Generation only fails for unknown modes, which New rejects.
			panic(err)
		}
		return nil
	}

	s.state = StateComplete
	s.feedback = FeedbackNone
	s.finishedAt = s.sched.Now()
	stars := StarsFor(s.solved)
	s.scheduleLocked(CompletionDelay, func() func() {
		s.notified = true
		owner := s.owner
		if owner == nil {
			return nil
		}
		return func() { owner.OnComplete(stars) }
	})
	return nil
}

// scheduleLocked runs fn under the session lock after d unless the timer is
// stopped first. A non-nil function returned by fn runs after the lock is released.
func (s *Session) scheduleLocked(d time.Duration, fn func() func()) {
	s.nextTimer++
	id := s.nextTimer
	s.timers[id] = s.sched.AfterFunc(d, func() {
		s.mu.Lock()
		if _, ok := s.timers[id]; !ok {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		after := fn()
		s.mu.Unlock()

		if after != nil {
			after()
		}
	})
}

func (s *Session) stopTimersLocked() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
