package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// QuestionRecordData is the per-question outcome stored with an attempt.
type QuestionRecordData struct {
	QuestionID     string  `json:"question_id"`
	ChosenChoiceID *string `json:"chosen_choice_id"`
	TimedOut       bool    `json:"timed_out"`
	ElapsedMs      int     `json:"elapsed_ms"`
}

// AttemptRecord is one completed quiz attempt in the local history log.
type AttemptRecord struct {
	ID          string
	TopicKey    string
	Questions   int
	Score       int
	StartedAt   time.Time
	CompletedAt time.Time
	Records     []QuestionRecordData
	Saved       bool // true if the attempt was persisted remotely
}

// AttemptRepo logs completed attempts and serves the history screen.
type AttemptRepo interface {
	Append(ctx context.Context, rec AttemptRecord) error
	MarkSaved(ctx context.Context, id string) error
	Recent(ctx context.Context, limit int) ([]AttemptRecord, error)
}

type attemptRepo struct {
	db *sql.DB
}

func (r *attemptRepo) Append(ctx context.Context, rec AttemptRecord) error {
	records, err := json.Marshal(rec.Records)
	if err != nil {
		return fmt.Errorf("marshal attempt records: %w", err)
	}

	saved := 0
	if rec.Saved {
		saved = 1
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO attempts (id, topic_key, questions, score, started_at, completed_at, records, saved)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.TopicKey,
		rec.Questions,
		rec.Score,
		rec.StartedAt.UTC().Format(time.RFC3339),
		rec.CompletedAt.UTC().Format(time.RFC3339),
		string(records),
		saved,
	)
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) MarkSaved(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE attempts SET saved = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark attempt saved: %w", err)
	}
	return nil
}

func (r *attemptRepo) Recent(ctx context.Context, limit int) ([]AttemptRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, topic_key, questions, score, started_at, completed_at, records, saved
		 FROM attempts ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var recs []AttemptRecord
	for rows.Next() {
		var (
			rec                    AttemptRecord
			startedAt, completedAt string
			records                string
			saved                  int
		)
		if err := rows.Scan(&rec.ID, &rec.TopicKey, &rec.Questions, &rec.Score, &startedAt, &completedAt, &records, &saved); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		rec.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		rec.Saved = saved != 0
		if err := json.Unmarshal([]byte(records), &rec.Records); err != nil {
			return nil, fmt.Errorf("unmarshal attempt records: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
