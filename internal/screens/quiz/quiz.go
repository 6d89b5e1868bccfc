package quiz

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/topiq/internal/auth"
	eng "github.com/abhisek/topiq/internal/quiz"
	"github.com/abhisek/topiq/internal/router"
	"github.com/abhisek/topiq/internal/screen"
	"github.com/abhisek/topiq/internal/store"
	"github.com/abhisek/topiq/internal/ui/components"
	"github.com/abhisek/topiq/internal/ui/layout"
)

// QuestionSource fetches the question set for a topic.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, topicKey string) ([]eng.Question, error)
}

// ResultSink persists a completed attempt remotely.
type ResultSink interface {
	SubmitAttempt(ctx context.Context, topicKey string, attempt *eng.Attempt) error
}

// QuizScreen drives one attempt through the engine: fetch, countdown,
// answers, summary, opportunistic submission.
type QuizScreen struct {
	engine   *eng.Engine
	source   QuestionSource
	sink     ResultSink
	tokens   *auth.TokenStore
	attempts store.AttemptRepo

	choices  components.ChoiceList
	saved    bool
	wasGuest bool
	torn     bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.TearDowner = (*QuizScreen)(nil)

// New creates a QuizScreen for one topic. attempts may be nil to skip the
// local history log.
func New(source QuestionSource, sink ResultSink, tokens *auth.TokenStore, attempts store.AttemptRepo, topicKey string) *QuizScreen {
	return &QuizScreen{
		engine:   eng.NewEngine(topicKey),
		source:   source,
		sink:     sink,
		tokens:   tokens,
		attempts: attempts,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	if err := s.engine.Begin(); err != nil {
		return nil
	}
	return s.fetchQuestions()
}

func (s *QuizScreen) Title() string {
	return "Quiz: " + s.engine.TopicKey()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.engine.State() {
	case eng.StateInProgress:
		return []layout.KeyHint{
			{Key: "1-9", Description: "Answer"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Lock in"},
			{Key: "Esc", Description: "Abandon"},
		}
	case eng.StateErrored:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
}

// TearDown is called by the router when the screen is popped. A live
// countdown is cancelled and the attempt abandoned: navigation away
// produces no record for the question being answered.
func (s *QuizScreen) TearDown() {
	s.torn = true
	if s.engine.State() == eng.StateInProgress || s.engine.State() == eng.StateLoading {
		s.engine.Abandon()
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		return s.handleQuestionsLoaded(msg)
	case countdownTickMsg:
		return s.handleCountdownTick(msg)
	case submitDoneMsg:
		return s.handleSubmitDone(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// fetchQuestions requests the topic's question set asynchronously.
func (s *QuizScreen) fetchQuestions() tea.Cmd {
	topicKey := s.engine.TopicKey()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		questions, err := s.source.FetchQuestions(ctx, topicKey)
		return questionsLoadedMsg{Questions: questions, Err: err}
	}
}

func (s *QuizScreen) handleQuestionsLoaded(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	if s.torn {
		return s, nil
	}

	if msg.Err != nil {
		_ = s.engine.LoadFailed(msg.Err)
		return s, nil
	}
	if err := s.engine.QuestionsLoaded(msg.Questions); err != nil {
		return s, nil
	}

	q, idx, _ := s.engine.Current()
	s.choices = components.NewChoiceList(q)
	return s, s.tickCmd(idx)
}

// tickCmd arms a 1-second tick bound to the given question index. The
// binding is what makes a late tick harmless: it no longer matches the
// active question and is dropped.
func (s *QuizScreen) tickCmd(index int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return countdownTickMsg{Index: index, At: t}
	})
}

func (s *QuizScreen) handleCountdownTick(msg countdownTickMsg) (screen.Screen, tea.Cmd) {
	if s.torn || s.engine.State() != eng.StateInProgress {
		return s, nil
	}
	_, idx, ok := s.engine.Current()
	if !ok || msg.Index != idx {
		return s, nil
	}

	if s.engine.Remaining() > 0 {
		return s, s.tickCmd(idx)
	}

	if err := s.engine.Timeout(); err != nil {
		return s, nil
	}
	return s, s.afterQuestionEnd()
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.engine.State() {
	case eng.StateErrored:
		switch msg.String() {
		case "r", "R":
			if err := s.engine.Retry(); err != nil {
				return s, nil
			}
			return s, s.fetchQuestions()
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil

	case eng.StateInProgress:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var locked bool
		s.choices, locked = s.choices.Update(msg)
		if !locked {
			return s, nil
		}
		if err := s.engine.Answer(s.choices.ChosenID); err != nil {
			return s, nil
		}
		return s, s.afterQuestionEnd()

	default:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}
}

// afterQuestionEnd advances the UI after an end-event was recorded: next
// question with a fresh countdown, or the finish flow.
func (s *QuizScreen) afterQuestionEnd() tea.Cmd {
	if s.engine.State() == eng.StateInProgress {
		q, idx, _ := s.engine.Current()
		s.choices = components.NewChoiceList(q)
		return s.tickCmd(idx)
	}
	return s.finish()
}

// finish runs at the InProgress → Finished boundary. Identity is read
// from the TokenStore now — not at quiz start — so logging in mid-quiz
// still gets the attempt saved.
func (s *QuizScreen) finish() tea.Cmd {
	attempt := s.engine.Attempt()
	s.recordHistory(attempt)

	session, err := s.tokens.Get()
	authenticated := err == nil && session.Authenticated()
	s.wasGuest = !authenticated

	if !s.engine.BeginSubmit(authenticated) {
		return nil
	}
	return s.submitAttempt(attempt)
}

// submitAttempt fires the one allowed submission. It deliberately uses a
// background context: navigating away lets the in-flight call complete,
// but nothing ever retries it.
func (s *QuizScreen) submitAttempt(attempt *eng.Attempt) tea.Cmd {
	topicKey := s.engine.TopicKey()
	sink := s.sink
	attempts := s.attempts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := sink.SubmitAttempt(ctx, topicKey, attempt)
		if err == nil && attempts != nil {
			_ = attempts.MarkSaved(ctx, attempt.ID)
		}
		return submitDoneMsg{Err: err}
	}
}

func (s *QuizScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		_ = s.engine.SubmitFailed(msg.Err)
		return s, nil
	}
	if err := s.engine.SubmitSucceeded(); err != nil {
		return s, nil
	}
	s.saved = true
	return s, nil
}

// recordHistory appends the completed attempt to the local log. The log
// is an audit trail, so failures are ignored rather than surfaced.
func (s *QuizScreen) recordHistory(attempt *eng.Attempt) {
	if s.attempts == nil || attempt == nil {
		return
	}

	records := make([]store.QuestionRecordData, 0, len(attempt.Records))
	for _, rec := range attempt.Records {
		records = append(records, store.QuestionRecordData{
			QuestionID:     rec.QuestionID,
			ChosenChoiceID: rec.ChosenChoiceID,
			TimedOut:       rec.TimedOut,
			ElapsedMs:      rec.ElapsedMs,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.attempts.Append(ctx, store.AttemptRecord{
		ID:          attempt.ID,
		TopicKey:    attempt.TopicKey,
		Questions:   len(attempt.Records),
		Score:       attempt.Score,
		StartedAt:   attempt.StartedAt,
		CompletedAt: attempt.CompletedAt,
		Records:     records,
	})
}
