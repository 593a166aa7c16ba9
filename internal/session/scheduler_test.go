package session

import (
	"slices"
	"testing"
	"time"
)

var testStart = time.Date(2026, time.July, 1, 8, 0, 0, 0, time.UTC)

func TestManualScheduler_FiresInOrder(t *testing.T) {
	s := NewManualScheduler(testStart)
	var got []string

	s.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	s.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	s.AfterFunc(100*time.Millisecond, func() { got = append(got, "b") })

	s.Advance(200 * time.Millisecond)
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("fired = %v, want [a b]", got)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}

	s.Advance(100 * time.Millisecond)
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("fired = %v, want [a b c]", got)
	}
	if !s.Now().Equal(testStart.Add(300 * time.Millisecond)) {
		t.Errorf("Now() = %v", s.Now())
	}
}

func TestManualScheduler_ChainedTimers(t *testing.T) {
	s := NewManualScheduler(testStart)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 5 {
			s.AfterFunc(50*time.Millisecond, tick)
		}
	}
	s.AfterFunc(50*time.Millisecond, tick)

	s.Advance(time.Second)
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}
}

func TestManualScheduler_Stop(t *testing.T) {
	s := NewManualScheduler(testStart)
	fired := false
	timer := s.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop() = false, want true for pending timer")
	}
	if timer.Stop() {
		t.Error("second Stop() = true, want false")
	}

	s.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}
