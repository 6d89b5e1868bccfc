package quiz

import "time"

// QuestionRecord is the end-event of one question within an attempt.
// Exactly one record exists per answered or timed-out question, and a
// record is never overwritten once written.
type QuestionRecord struct {
	QuestionID     string
	ChosenChoiceID *string // nil on timeout
	TimedOut       bool
	ElapsedMs      int
}

// Attempt is one run through a topic's question set in one sitting. It is
// client-local and ephemeral: created when the quiz starts, submitted (if
// eligible) once, then discarded. It is never resumed after a restart.
type Attempt struct {
	ID          string
	TopicKey    string
	StartedAt   time.Time
	Records     []QuestionRecord
	Score       int
	CompletedAt time.Time
}

// scoreRecords counts questions whose chosen choice matches the correct
// one. Timed-out questions never score.
func scoreRecords(questions []Question, records []QuestionRecord) int {
	score := 0
	for i, rec := range records {
		if i >= len(questions) || rec.TimedOut || rec.ChosenChoiceID == nil {
			continue
		}
		if *rec.ChosenChoiceID == questions[i].CorrectChoiceID {
			score++
		}
	}
	return score
}
