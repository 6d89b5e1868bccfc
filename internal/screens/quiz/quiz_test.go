package quiz

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/topiq/internal/auth"
	eng "github.com/abhisek/topiq/internal/quiz"
	"github.com/abhisek/topiq/internal/store"
)

// fakeSource implements QuestionSource for testing.
type fakeSource struct {
	questions []eng.Question
	err       error
}

func (f *fakeSource) FetchQuestions(_ context.Context, _ string) ([]eng.Question, error) {
	return f.questions, f.err
}

// fakeSink implements ResultSink for testing.
type fakeSink struct {
	err     error
	submits []*eng.Attempt
}

func (f *fakeSink) SubmitAttempt(_ context.Context, _ string, attempt *eng.Attempt) error {
	f.submits = append(f.submits, attempt)
	return f.err
}

// fakeAttemptRepo implements store.AttemptRepo for testing.
type fakeAttemptRepo struct {
	appended []store.AttemptRecord
	saved    []string
}

func (f *fakeAttemptRepo) Append(_ context.Context, rec store.AttemptRecord) error {
	f.appended = append(f.appended, rec)
	return nil
}

func (f *fakeAttemptRepo) MarkSaved(_ context.Context, id string) error {
	f.saved = append(f.saved, id)
	return nil
}

func (f *fakeAttemptRepo) Recent(_ context.Context, _ int) ([]store.AttemptRecord, error) {
	return f.appended, nil
}

// memKV implements store.KV in memory.
type memKV struct {
	values map[string]string
}

func newMemKV() *memKV { return &memKV{values: map[string]string{}} }

func (m *memKV) Get(key string) (string, error) { return m.values[key], nil }

func (m *memKV) GetMany(keys ...string) ([]string, error) {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = m.values[k]
	}
	return out, nil
}

func (m *memKV) Put(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memKV) PutMany(pairs map[string]string) error {
	for k, v := range pairs {
		m.values[k] = v
	}
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func (m *memKV) DeleteMany(keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func twoQuestions() []eng.Question {
	return []eng.Question{
		{
			ID:     "q1",
			Prompt: "first",
			Choices: []eng.Choice{
				{ID: "a", Text: "A"},
				{ID: "b", Text: "B"},
			},
			CorrectChoiceID: "b",
		},
		{
			ID:     "q2",
			Prompt: "second",
			Choices: []eng.Choice{
				{ID: "a", Text: "A"},
				{ID: "b", Text: "B"},
			},
			CorrectChoiceID: "a",
		},
	}
}

// startQuiz creates a QuizScreen and drives it through Init and the
// question fetch so it is mid-quiz on question 0.
func startQuiz(t *testing.T, source *fakeSource, sink *fakeSink, tokens *auth.TokenStore, repo store.AttemptRepo) *QuizScreen {
	t.Helper()

	s := New(source, sink, tokens, repo, "javascript-closures")
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("Init returned no fetch command")
	}
	s.Update(cmd())

	if got := s.engine.State(); got != eng.StateInProgress {
		t.Fatalf("state after load = %s, want in-progress", got)
	}
	return s
}

func guestTokens() *auth.TokenStore {
	return auth.NewTokenStore(newMemKV())
}

func memberTokens(t *testing.T) *auth.TokenStore {
	t.Helper()
	ts := auth.NewTokenStore(newMemKV())
	err := ts.Set(auth.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &auth.User{ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com"},
	})
	if err != nil {
		t.Fatalf("seed tokens: %v", err)
	}
	return ts
}

func TestLoadFailureShowsRetry(t *testing.T) {
	source := &fakeSource{err: errors.New("timeout")}
	s := New(source, &fakeSink{}, guestTokens(), nil, "t")

	cmd := s.Init()
	s.Update(cmd())

	if got := s.engine.State(); got != eng.StateErrored {
		t.Fatalf("state = %s, want errored", got)
	}

	// R refetches after the source recovers.
	source.err = nil
	source.questions = twoQuestions()
	_, retry := s.Update(keyPress('r'))
	if retry == nil {
		t.Fatal("retry key produced no fetch command")
	}
	s.Update(retry())

	if got := s.engine.State(); got != eng.StateInProgress {
		t.Errorf("state after retry = %s, want in-progress", got)
	}
}

func TestAnswerByNumberAdvances(t *testing.T) {
	s := startQuiz(t, &fakeSource{questions: twoQuestions()}, &fakeSink{}, guestTokens(), nil)

	_, cmd := s.Update(keyPress('2'))
	if cmd == nil {
		t.Fatal("answer produced no countdown command for the next question")
	}

	_, idx, ok := s.engine.Current()
	if !ok || idx != 1 {
		t.Fatalf("current = %d, ok = %v, want question 1", idx, ok)
	}
	if rec := s.engine.Attempt().Records[0]; rec.ChosenChoiceID == nil || *rec.ChosenChoiceID != "b" {
		t.Errorf("record 0 chosen = %v, want b", rec.ChosenChoiceID)
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	s := startQuiz(t, &fakeSource{questions: twoQuestions()}, &fakeSink{}, guestTokens(), nil)

	s.Update(keyPress('1'))

	// The question-0 tick fires after question 0 was answered. It must not
	// time out question 1.
	s.Update(countdownTickMsg{Index: 0})

	if got := len(s.engine.Attempt().Records); got != 1 {
		t.Fatalf("records = %d after stale tick, want 1", got)
	}
	if _, idx, _ := s.engine.Current(); idx != 1 {
		t.Errorf("current = %d, want 1", idx)
	}
}

func TestActiveTickReschedules(t *testing.T) {
	s := startQuiz(t, &fakeSource{questions: twoQuestions()}, &fakeSink{}, guestTokens(), nil)

	_, cmd := s.Update(countdownTickMsg{Index: 0})
	if cmd == nil {
		t.Fatal("active tick did not reschedule")
	}
	if got := len(s.engine.Attempt().Records); got != 0 {
		t.Errorf("records = %d, want 0 (countdown still running)", got)
	}
}

func TestGuestFinishNeverSubmits(t *testing.T) {
	sink := &fakeSink{}
	repo := &fakeAttemptRepo{}
	s := startQuiz(t, &fakeSource{questions: twoQuestions()}, sink, guestTokens(), repo)

	s.Update(keyPress('2'))
	_, cmd := s.Update(keyPress('1'))

	if got := s.engine.State(); got != eng.StateFinished {
		t.Fatalf("state = %s, want finished", got)
	}
	if cmd != nil {
		t.Error("guest finish produced a submit command")
	}
	if len(sink.submits) != 0 {
		t.Errorf("guest submitted %d attempts", len(sink.submits))
	}

	// The local history log still gets the attempt.
	if len(repo.appended) != 1 {
		t.Fatalf("history appended %d records, want 1", len(repo.appended))
	}
	if repo.appended[0].Score != 2 {
		t.Errorf("history score = %d, want 2", repo.appended[0].Score)
	}
}

func TestMemberFinishSubmitsOnce(t *testing.T) {
	sink := &fakeSink{}
	repo := &fakeAttemptRepo{}
	s := startQuiz(t, &fakeSource{questions: twoQuestions()}, sink, memberTokens(t), repo)

	s.Update(keyPress('2'))
	_, cmd := s.Update(keyPress('1'))
	if cmd == nil {
		t.Fatal("member finish produced no submit command")
	}

	msg := cmd()
	done, ok := msg.(submitDoneMsg)
	if !ok {
		t.Fatalf("submit command produced %T, want submitDoneMsg", msg)
	}
	if done.Err != nil {
		t.Fatalf("submit error: %v", done.Err)
	}
	s.Update(done)

	if got := s.engine.State(); got != eng.StateSubmitted {
		t.Errorf("state = %s, want submitted", got)
	}
	if len(sink.submits) != 1 {
		t.Fatalf("submits = %d, want 1", len(sink.submits))
	}
	if len(repo.saved) != 1 || repo.saved[0] != sink.submits[0].ID {
		t.Errorf("MarkSaved calls = %v, want the submitted attempt", repo.saved)
	}
}

func TestSubmitFailureIsTerminal(t *testing.T) {
	sink := &fakeSink{err: errors.New("server down")}
	s := startQuiz(t, &fakeSource{questions: twoQuestions()}, sink, memberTokens(t), &fakeAttemptRepo{})

	s.Update(keyPress('2'))
	_, cmd := s.Update(keyPress('1'))
	if cmd == nil {
		t.Fatal("member finish produced no submit command")
	}
	s.Update(cmd())

	if got := s.engine.State(); got != eng.StateSubmitFailed {
		t.Fatalf("state = %s, want submit-failed", got)
	}
	// The score stays visible; nothing ever retries the submission.
	if got := s.engine.Score(); got != 2 {
		t.Errorf("score = %d, want 2", got)
	}
	if len(sink.submits) != 1 {
		t.Errorf("submits = %d, want exactly 1", len(sink.submits))
	}
}

func TestMidQuizLoginSubmits(t *testing.T) {
	tokens := guestTokens()
	sink := &fakeSink{}
	s := startQuiz(t, &fakeSource{questions: twoQuestions()}, sink, tokens, nil)

	s.Update(keyPress('2'))

	// Identity is read at the finish boundary, not at quiz start: a login
	// performed mid-quiz makes this attempt eligible.
	if err := tokens.Set(auth.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &auth.User{ID: "u1", Email: "ada@example.com"},
	}); err != nil {
		t.Fatalf("mid-quiz login: %v", err)
	}

	_, cmd := s.Update(keyPress('1'))
	if cmd == nil {
		t.Fatal("finish after mid-quiz login produced no submit command")
	}
	s.Update(cmd())

	if len(sink.submits) != 1 {
		t.Errorf("submits = %d, want 1", len(sink.submits))
	}
}

func TestTearDownAbandonsAttempt(t *testing.T) {
	s := startQuiz(t, &fakeSource{questions: twoQuestions()}, &fakeSink{}, guestTokens(), nil)
	s.Update(keyPress('1'))

	s.TearDown()

	if got := s.engine.State(); got != eng.StateIdle {
		t.Errorf("state after teardown = %s, want idle", got)
	}
	if s.engine.Attempt() != nil {
		t.Error("attempt survived teardown")
	}

	// A tick still in flight when the screen was popped is ignored.
	_, cmd := s.Update(countdownTickMsg{Index: 1})
	if cmd != nil {
		t.Error("torn screen rescheduled a countdown")
	}
}

func TestLateLoadAfterTearDown(t *testing.T) {
	source := &fakeSource{questions: twoQuestions()}
	s := New(source, &fakeSink{}, guestTokens(), nil, "t")
	cmd := s.Init()

	s.TearDown()
	s.Update(cmd())

	if got := s.engine.State(); got != eng.StateIdle {
		t.Errorf("state = %s, want idle (load result after teardown)", got)
	}
}
