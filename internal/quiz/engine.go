// Package quiz holds the quiz-taking state machine. The engine is pure
// state: the screen layer owns timers and network calls and drives the
// engine through events, so every transition is synchronous and testable.
package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuestionTimeLimit is the countdown budget for one question.
const QuestionTimeLimit = 60 * time.Second

// State is the engine's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateInProgress
	StateFinished
	StateSubmitted
	StateSubmitFailed
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in-progress"
	case StateFinished:
		return "finished"
	case StateSubmitted:
		return "submitted"
	case StateSubmitFailed:
		return "submit-failed"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

var (
	// ErrBadTransition is returned when an event arrives in a state that
	// cannot accept it.
	ErrBadTransition = errors.New("quiz: invalid state transition")

	// ErrQuestionClosed is returned when an end-event arrives for a
	// question that already recorded one. A countdown firing after its
	// question was answered lands here and is a no-op.
	ErrQuestionClosed = errors.New("quiz: question already ended")

	// ErrEmptyQuestionSet is returned when the fetched topic has no
	// questions. This is a terminal error, never a zero-score finish.
	ErrEmptyQuestionSet = errors.New("quiz: empty question set")
)

// Engine sequences questions, records end-events, computes the score and
// gates submission. Exactly one attempt is live per engine.
type Engine struct {
	topicKey string
	now      func() time.Time

	state     State
	loadErr   error
	submitErr error

	questions []Question
	attempt   *Attempt

	current          int
	questionOpenedAt time.Time

	submitStarted bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the engine's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an idle engine for one topic.
func NewEngine(topicKey string, opts ...Option) *Engine {
	e := &Engine{
		topicKey: topicKey,
		now:      time.Now,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// TopicKey returns the topic this engine was created for.
func (e *Engine) TopicKey() string { return e.topicKey }

// Err returns the load error after StateErrored, nil otherwise.
func (e *Engine) Err() error { return e.loadErr }

// SubmitErr returns the submission error after StateSubmitFailed.
func (e *Engine) SubmitErr() error { return e.submitErr }

// Begin moves Idle → Loading. The caller starts the question fetch.
func (e *Engine) Begin() error {
	if e.state != StateIdle {
		return fmt.Errorf("%w: begin in %s", ErrBadTransition, e.state)
	}
	e.state = StateLoading
	return nil
}

// QuestionsLoaded moves Loading → InProgress and opens the first question.
// An empty set moves to StateErrored instead: the engine never presents a
// zero-question quiz.
func (e *Engine) QuestionsLoaded(questions []Question) error {
	if e.state != StateLoading {
		return fmt.Errorf("%w: questions loaded in %s", ErrBadTransition, e.state)
	}
	if len(questions) == 0 {
		e.state = StateErrored
		e.loadErr = ErrEmptyQuestionSet
		return ErrEmptyQuestionSet
	}

	e.questions = questions
	e.attempt = &Attempt{
		ID:        uuid.New().String(),
		TopicKey:  e.topicKey,
		StartedAt: e.now(),
	}
	e.current = 0
	e.questionOpenedAt = e.now()
	e.state = StateInProgress
	return nil
}

// LoadFailed moves Loading → StateErrored.
func (e *Engine) LoadFailed(err error) error {
	if e.state != StateLoading {
		return fmt.Errorf("%w: load failed in %s", ErrBadTransition, e.state)
	}
	e.state = StateErrored
	e.loadErr = err
	return nil
}

// Retry moves StateErrored back to Loading for another fetch. Only load
// errors are retryable; submission failures are terminal.
func (e *Engine) Retry() error {
	if e.state != StateErrored {
		return fmt.Errorf("%w: retry in %s", ErrBadTransition, e.state)
	}
	e.state = StateLoading
	e.loadErr = nil
	return nil
}

// Current returns the active question and its index while InProgress.
func (e *Engine) Current() (Question, int, bool) {
	if e.state != StateInProgress || e.current >= len(e.questions) {
		return Question{}, 0, false
	}
	return e.questions[e.current], e.current, true
}

// Questions returns the loaded question set.
func (e *Engine) Questions() []Question { return e.questions }

// Deadline returns the instant the active question's countdown expires.
func (e *Engine) Deadline() time.Time {
	return e.questionOpenedAt.Add(QuestionTimeLimit)
}

// Remaining returns the time left on the active question's countdown.
func (e *Engine) Remaining() time.Duration {
	d := e.Deadline().Sub(e.now())
	if d < 0 {
		return 0
	}
	return d
}

// Answer locks in a choice for the active question and advances. A second
// end-event for the same question returns ErrQuestionClosed and changes
// nothing.
func (e *Engine) Answer(choiceID string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	q := e.questions[e.current]
	if _, ok := q.Choice(choiceID); !ok {
		return fmt.Errorf("quiz: unknown choice %q for question %q", choiceID, q.ID)
	}

	chosen := choiceID
	e.endQuestion(QuestionRecord{
		QuestionID:     q.ID,
		ChosenChoiceID: &chosen,
		ElapsedMs:      int(e.now().Sub(e.questionOpenedAt).Milliseconds()),
	})
	return nil
}

// Timeout records the countdown reaching zero for the active question and
// advances. Timed-out questions record a nil choice and never score.
func (e *Engine) Timeout() error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	q := e.questions[e.current]
	e.endQuestion(QuestionRecord{
		QuestionID: q.ID,
		TimedOut:   true,
		ElapsedMs:  int(QuestionTimeLimit.Milliseconds()),
	})
	return nil
}

// Abandon discards the live attempt without producing a record for the
// active question. Used when the quiz screen is torn down mid-question.
func (e *Engine) Abandon() {
	e.questions = nil
	e.attempt = nil
	e.loadErr = nil
	e.submitErr = nil
	e.submitStarted = false
	e.current = 0
	e.state = StateIdle
}

// checkOpen verifies that an end-event may be recorded right now.
func (e *Engine) checkOpen() error {
	if e.state != StateInProgress {
		return fmt.Errorf("%w: end-event in %s", ErrBadTransition, e.state)
	}
	if len(e.attempt.Records) != e.current {
		return ErrQuestionClosed
	}
	return nil
}

// endQuestion appends the record, then opens the next question or finishes.
// The next question's window opens only after the record is fully stored,
// so transitions are strictly sequential.
func (e *Engine) endQuestion(rec QuestionRecord) {
	e.attempt.Records = append(e.attempt.Records, rec)

	if e.current+1 < len(e.questions) {
		e.current++
		e.questionOpenedAt = e.now()
		return
	}

	// Score is computed exactly once, here, and never mutated after.
	e.attempt.Score = scoreRecords(e.questions, e.attempt.Records)
	e.attempt.CompletedAt = e.now()
	e.current = len(e.questions)
	e.state = StateFinished
}

// Attempt returns the live attempt, nil before loading or after Abandon.
func (e *Engine) Attempt() *Attempt { return e.attempt }

// Score returns the computed score. Valid from StateFinished on.
func (e *Engine) Score() int {
	if e.attempt == nil {
		return 0
	}
	return e.attempt.Score
}

// BeginSubmit gates the Finished → Submitted transition. The caller passes
// the identity read from the TokenStore at this moment — not at quiz start,
// so a user who logged in mid-quiz still gets their result saved. Guests
// stay in Finished with the local summary. Returns true exactly once per
// attempt: rapid re-triggering of the finish transition cannot cause a
// second submission.
func (e *Engine) BeginSubmit(authenticated bool) bool {
	if e.state != StateFinished || !authenticated || e.submitStarted {
		return false
	}
	e.submitStarted = true
	return true
}

// SubmitSucceeded moves Finished → Submitted.
func (e *Engine) SubmitSucceeded() error {
	if e.state != StateFinished || !e.submitStarted {
		return fmt.Errorf("%w: submit succeeded in %s", ErrBadTransition, e.state)
	}
	e.state = StateSubmitted
	return nil
}

// SubmitFailed moves Finished → SubmitFailed, a terminal state with no
// retry: the score stays visible locally, marked unsaved.
func (e *Engine) SubmitFailed(err error) error {
	if e.state != StateFinished || !e.submitStarted {
		return fmt.Errorf("%w: submit failed in %s", ErrBadTransition, e.state)
	}
	e.state = StateSubmitFailed
	e.submitErr = err
	return nil
}
