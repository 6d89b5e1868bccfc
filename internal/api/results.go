package api

import (
	"context"
	"net/http"
	"time"

	"github.com/abhisek/topiq/internal/quiz"
)

// attemptPayload is the wire form of a completed attempt.
type attemptPayload struct {
	AttemptID   string            `json:"attemptId"`
	TopicKey    string            `json:"topicKey"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt time.Time         `json:"completedAt"`
	Score       int               `json:"score"`
	PerQuestion []questionPayload `json:"perQuestion"`
}

type questionPayload struct {
	QuestionID     string  `json:"questionId"`
	ChosenChoiceID *string `json:"chosenChoiceId"`
	TimedOut       bool    `json:"timedOut"`
	ElapsedMs      int     `json:"elapsedMs"`
}

// SubmitAttempt persists one completed attempt. Requires a bearer token;
// the engine calls this at most once per attempt and never retries — a
// failure leaves the score visible locally, marked unsaved.
func (c *Client) SubmitAttempt(ctx context.Context, topicKey string, attempt *quiz.Attempt) error {
	payload := attemptPayload{
		AttemptID:   attempt.ID,
		TopicKey:    attempt.TopicKey,
		StartedAt:   attempt.StartedAt,
		CompletedAt: attempt.CompletedAt,
		Score:       attempt.Score,
	}
	for _, rec := range attempt.Records {
		payload.PerQuestion = append(payload.PerQuestion, questionPayload{
			QuestionID:     rec.QuestionID,
			ChosenChoiceID: rec.ChosenChoiceID,
			TimedOut:       rec.TimedOut,
			ElapsedMs:      rec.ElapsedMs,
		})
	}

	_, err := c.do(ctx, http.MethodPost, "/topicwise-mcq/"+topicKey+"/results", payload, nil)
	return err
}
