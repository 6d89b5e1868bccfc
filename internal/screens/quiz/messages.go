package quiz

import (
	"time"

	eng "github.com/abhisek/topiq/internal/quiz"
)

// questionsLoadedMsg is sent when the question fetch completes.
type questionsLoadedMsg struct {
	Questions []eng.Question
	Err       error
}

// countdownTickMsg is sent every second while a question is active. It
// carries the index of the question it was armed for: a tick that arrives
// after its question ended is stale and must be discarded, never applied
// to the next question.
type countdownTickMsg struct {
	Index int
	At    time.Time
}

// submitDoneMsg is sent when the result submission completes.
type submitDoneMsg struct {
	Err error
}
