// Package examsession models the client-side lifecycle of one timed MCQ test:
// a countdown, an answer buffer, and cheating-signal handling. The session is
// advanced by one-second ticks, normally driven by Run's ticker, so tests can
// step it deterministically.
package examsession

import (
	"context"
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateSubmitted
	StateViolated
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateSubmitted:
		return "submitted"
	case StateViolated:
		return "violated"
	}
	return "unknown"
}

type ViolationReason string

const (
	ViolationTabHidden      ViolationReason = "tab_hidden"
	ViolationBackNavigation ViolationReason = "back_navigation"
)

// Unanswered marks a question with no selected option in the answer buffer.
const Unanswered = -1

var (
	ErrNotInProgress   = errors.New("test is not in progress")
	ErrAlreadyRunning  = errors.New("test already started")
	ErrUnanswered      = errors.New("all questions must be answered before submitting")
	ErrInvalidQuestion = errors.New("question index out of range")
)

// SubmitFunc receives the final answer buffer exactly once per completed run,
// whether the submit was manual or triggered by the countdown reaching zero.
type SubmitFunc func(answers []int)

type Session struct {
	mu sync.Mutex

	state         State
	questionCount int
	timeLimitSec  int
	remainingSec  int
	restartDelay  int // seconds spent in Violated before rearming
	rearmIn       int
	answers       []int
	violations    int
	submit        SubmitFunc

	closeOnce sync.Once
	done      chan struct{}
}

func New(questionCount, timeLimitMinutes, restartDelaySeconds int, submit SubmitFunc) *Session {
	s := &Session{
		state:         StateNotStarted,
		questionCount: questionCount,
		timeLimitSec:  timeLimitMinutes * 60,
		restartDelay:  restartDelaySeconds,
		submit:        submit,
		done:          make(chan struct{}),
	}
	s.answers = emptyBuffer(questionCount)
	return s
}

// Start transitions NotStarted -> InProgress with a full countdown and an
// empty answer buffer. Restarting after a violation goes through here too, so
// nothing from the discarded run carries over.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return ErrAlreadyRunning
	}
	s.state = StateInProgress
	s.remainingSec = s.timeLimitSec
	s.answers = emptyBuffer(s.questionCount)
	return nil
}

func (s *Session) SelectAnswer(questionIndex, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if questionIndex < 0 || questionIndex >= s.questionCount {
		return ErrInvalidQuestion
	}
	s.answers[questionIndex] = option
	return nil
}

// Tick advances the session by one second. When the countdown reaches zero
// the buffered answers are auto-submitted as-is; while Violated, ticks count
// down the rearm delay and then return the session to NotStarted.
func (s *Session) Tick() {
	s.mu.Lock()
	switch s.state {
	case StateInProgress:
		s.remainingSec--
		if s.remainingSec > 0 {
			s.mu.Unlock()
			return
		}
		s.remainingSec = 0
		answers := s.takeSubmissionLocked()
		s.mu.Unlock()
		if s.submit != nil {
			s.submit(answers)
		}
	case StateViolated:
		s.rearmIn--
		if s.rearmIn <= 0 {
			s.state = StateNotStarted
		}
		s.mu.Unlock()
	default:
		s.mu.Unlock()
	}
}

// Submit is the manual submission path. It is rejected outright while any
// question is unanswered; auto-submit at zero is the only path that sends a
// partial buffer.
func (s *Session) Submit() error {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return ErrNotInProgress
	}
	for _, a := range s.answers {
		if a == Unanswered {
			s.mu.Unlock()
			return ErrUnanswered
		}
	}
	answers := s.takeSubmissionLocked()
	s.mu.Unlock()
	if s.submit != nil {
		s.submit(answers)
	}
	return nil
}

// ReportTabHidden handles the browser tab or window losing visibility.
func (s *Session) ReportTabHidden() {
	s.violate(ViolationTabHidden)
}

// ReportBackNavigation handles a browser-history back navigation.
func (s *Session) ReportBackNavigation() {
	s.violate(ViolationBackNavigation)
}

// violate discards the in-progress run: the answer buffer is cleared, the
// violation counter incremented, and the session rearms to NotStarted after
// the restart delay. The discarded attempt is never submitted.
func (s *Session) violate(_ ViolationReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return
	}
	s.state = StateViolated
	s.violations++
	s.answers = emptyBuffer(s.questionCount)
	s.rearmIn = s.restartDelay
	if s.rearmIn <= 0 {
		s.state = StateNotStarted
	}
}

// takeSubmissionLocked stops the countdown before handing out the buffer, so
// a zero-countdown auto-submit and a concurrent manual submit cannot both
// fire. Callers must hold s.mu.
func (s *Session) takeSubmissionLocked() []int {
	s.state = StateSubmitted
	answers := make([]int, len(s.answers))
	copy(answers, s.answers)
	return answers
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingSec
}

func (s *Session) Violations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.violations
}

func (s *Session) Answers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := make([]int, len(s.answers))
	copy(answers, s.answers)
	return answers
}

// Run drives the session on a one-second ticker until the context is
// cancelled or Close is called. The ticker and any signal subscriptions are
// released on every exit path.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.Tick()
			if s.State() == StateSubmitted {
				return
			}
		}
	}
}

// Close tears the session down. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func emptyBuffer(n int) []int {
	buf := make([]int, n)
	for i := range buf {
		buf[i] = Unanswered
	}
	return buf
}
