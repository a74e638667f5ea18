package examsession

import (
	"context"
	"errors"
	"testing"
	"time"
)

// submissions collects what a session hands to its SubmitFunc.
type submissions struct {
	calls [][]int
}

func (s *submissions) record(answers []int) {
	s.calls = append(s.calls, answers)
}

func TestStartInitializesCountdownAndBuffer(t *testing.T) {
	s := New(3, 2, 2, nil)

	if s.State() != StateNotStarted {
		t.Fatalf("State = %v, want not_started", s.State())
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateInProgress {
		t.Fatalf("State = %v, want in_progress", s.State())
	}
	if got := s.RemainingSeconds(); got != 120 {
		t.Fatalf("RemainingSeconds = %d, want 120", got)
	}
	for i, a := range s.Answers() {
		if a != Unanswered {
			t.Fatalf("Answers[%d] = %d, want %d", i, a, Unanswered)
		}
	}

	if err := s.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start: err = %v, want ErrAlreadyRunning", err)
	}
}

func TestSelectAnswerValidation(t *testing.T) {
	s := New(2, 1, 2, nil)

	if err := s.SelectAnswer(0, 1); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("before Start: err = %v, want ErrNotInProgress", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.SelectAnswer(-1, 0); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("negative index: err = %v, want ErrInvalidQuestion", err)
	}
	if err := s.SelectAnswer(2, 0); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("index past end: err = %v, want ErrInvalidQuestion", err)
	}
	if err := s.SelectAnswer(1, 3); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if got := s.Answers(); got[1] != 3 {
		t.Fatalf("Answers[1] = %d, want 3", got[1])
	}
}

func TestManualSubmitRequiresEveryAnswer(t *testing.T) {
	var subs submissions
	s := New(2, 1, 2, subs.record)

	if err := s.Submit(); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("submit before start: err = %v, want ErrNotInProgress", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.SelectAnswer(0, 2); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if err := s.Submit(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("partial submit: err = %v, want ErrUnanswered", err)
	}
	if err := s.SelectAnswer(1, 0); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if err := s.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if s.State() != StateSubmitted {
		t.Fatalf("State = %v, want submitted", s.State())
	}
	if len(subs.calls) != 1 {
		t.Fatalf("submit called %d times, want 1", len(subs.calls))
	}
	if got := subs.calls[0]; got[0] != 2 || got[1] != 0 {
		t.Fatalf("submitted answers = %v, want [2 0]", got)
	}

	// The session is spent: nothing else may fire.
	if err := s.Submit(); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("submit after submit: err = %v, want ErrNotInProgress", err)
	}
	s.Tick()
	if len(subs.calls) != 1 {
		t.Fatalf("tick after submit fired a second submission")
	}
}

func TestCountdownAutoSubmitsPartialBuffer(t *testing.T) {
	var subs submissions
	s := New(2, 1, 2, subs.record)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.SelectAnswer(0, 1); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}

	for i := 0; i < 60; i++ {
		s.Tick()
	}

	if s.State() != StateSubmitted {
		t.Fatalf("State = %v, want submitted after countdown", s.State())
	}
	if s.RemainingSeconds() != 0 {
		t.Fatalf("RemainingSeconds = %d, want 0", s.RemainingSeconds())
	}
	if len(subs.calls) != 1 {
		t.Fatalf("submit called %d times, want 1", len(subs.calls))
	}
	// Auto-submit sends the buffer as-is, unanswered slots included.
	if got := subs.calls[0]; got[0] != 1 || got[1] != Unanswered {
		t.Fatalf("submitted answers = %v, want [1 %d]", got, Unanswered)
	}
}

func TestTabHiddenDiscardsRunAndRearms(t *testing.T) {
	var subs submissions
	s := New(5, 1, 2, subs.record)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.SelectAnswer(i, 0); err != nil {
			t.Fatalf("SelectAnswer(%d): %v", i, err)
		}
	}

	s.ReportTabHidden()

	if s.State() != StateViolated {
		t.Fatalf("State = %v, want violated", s.State())
	}
	if s.Violations() != 1 {
		t.Fatalf("Violations = %d, want 1", s.Violations())
	}
	for i, a := range s.Answers() {
		if a != Unanswered {
			t.Fatalf("Answers[%d] = %d, want discarded", i, a)
		}
	}
	if len(subs.calls) != 0 {
		t.Fatalf("violated run must never be submitted")
	}

	// Selecting is refused until the restart delay elapses.
	if err := s.SelectAnswer(0, 0); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("select while violated: err = %v, want ErrNotInProgress", err)
	}

	s.Tick()
	if s.State() != StateViolated {
		t.Fatalf("rearmed after 1 tick, want 2")
	}
	s.Tick()
	if s.State() != StateNotStarted {
		t.Fatalf("State = %v, want not_started after restart delay", s.State())
	}

	// The restarted run begins from scratch.
	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := s.RemainingSeconds(); got != 60 {
		t.Fatalf("RemainingSeconds = %d, want full 60", got)
	}
	for i, a := range s.Answers() {
		if a != Unanswered {
			t.Fatalf("Answers[%d] = %d, want empty buffer after restart", i, a)
		}
	}
}

func TestBackNavigationCountsAsViolation(t *testing.T) {
	s := New(2, 1, 2, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	s.ReportBackNavigation()

	if s.State() != StateViolated {
		t.Fatalf("State = %v, want violated", s.State())
	}
	if s.Violations() != 1 {
		t.Fatalf("Violations = %d, want 1", s.Violations())
	}
}

func TestViolationsAccumulateAcrossRestarts(t *testing.T) {
	s := New(1, 1, 1, nil)
	for round := 1; round <= 3; round++ {
		if err := s.Start(); err != nil {
			t.Fatalf("Start round %d: %v", round, err)
		}
		s.ReportTabHidden()
		s.Tick() // restart delay of 1
		if s.State() != StateNotStarted {
			t.Fatalf("round %d: State = %v, want not_started", round, s.State())
		}
	}
	if s.Violations() != 3 {
		t.Fatalf("Violations = %d, want 3", s.Violations())
	}
}

func TestViolationIgnoredOutsideInProgress(t *testing.T) {
	s := New(1, 1, 2, nil)

	s.ReportTabHidden()
	if s.State() != StateNotStarted || s.Violations() != 0 {
		t.Fatalf("violation before start must be a no-op, got state=%v violations=%d", s.State(), s.Violations())
	}
}

func TestRunStopsOnClose(t *testing.T) {
	s := New(1, 10, 2, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	s.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after Close")
	}
	s.Close() // idempotent
}

func TestRunStopsOnContextCancel(t *testing.T) {
	s := New(1, 10, 2, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after context cancel")
	}
}

func TestStateStrings(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateNotStarted, "not_started"},
		{StateInProgress, "in_progress"},
		{StateSubmitted, "submitted"},
		{StateViolated, "violated"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Fatalf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
