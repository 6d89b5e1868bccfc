package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "topiq.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestKVGetAbsent(t *testing.T) {
	kv := openTestStore(t).KV()

	v, err := kv.Get("missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "" {
		t.Errorf("Get(missing) = %q, want empty", v)
	}
}

func TestKVPutGetOverwrite(t *testing.T) {
	kv := openTestStore(t).KV()

	if err := kv.Put("theme", "dark"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Put("theme", "light"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	v, err := kv.Get("theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "light" {
		t.Errorf("Get = %q, want light", v)
	}
}

func TestKVPutManyGetMany(t *testing.T) {
	kv := openTestStore(t).KV()

	if err := kv.PutMany(map[string]string{
		"accessToken":  "a",
		"refreshToken": "r",
		"user":         `{"id":"u1"}`,
	}); err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	values, err := kv.GetMany("accessToken", "refreshToken", "user", "absent")
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	want := []string{"a", "r", `{"id":"u1"}`, ""}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("GetMany[%d] = %q, want %q", i, values[i], want[i])
		}
	}
}

func TestKVDeleteMany(t *testing.T) {
	kv := openTestStore(t).KV()

	if err := kv.PutMany(map[string]string{"a": "1", "b": "2", "c": "3"}); err != nil {
		t.Fatalf("PutMany: %v", err)
	}
	if err := kv.DeleteMany("a", "b", "nope"); err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}

	values, err := kv.GetMany("a", "b", "c")
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if values[0] != "" || values[1] != "" || values[2] != "3" {
		t.Errorf("after DeleteMany: %v", values)
	}
}

func TestAttemptAppendAndRecent(t *testing.T) {
	repo := openTestStore(t).Attempts()
	ctx := context.Background()

	chosen := "c2"
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := AttemptRecord{
			ID:          "attempt-" + string(rune('a'+i)),
			TopicKey:    "javascript-closures",
			Questions:   2,
			Score:       i,
			StartedAt:   base.Add(time.Duration(i) * time.Hour),
			CompletedAt: base.Add(time.Duration(i)*time.Hour + 2*time.Minute),
			Records: []QuestionRecordData{
				{QuestionID: "q1", ChosenChoiceID: &chosen, ElapsedMs: 4000},
				{QuestionID: "q2", TimedOut: true, ElapsedMs: 60000},
			},
		}
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	recs, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(recs))
	}

	// Newest first.
	if recs[0].ID != "attempt-c" || recs[2].ID != "attempt-a" {
		t.Errorf("Recent order: %s, %s, %s", recs[0].ID, recs[1].ID, recs[2].ID)
	}

	got := recs[2]
	if got.Score != 0 || got.Questions != 2 || got.TopicKey != "javascript-closures" {
		t.Errorf("record = %+v", got)
	}
	if !got.StartedAt.Equal(base) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, base)
	}
	if len(got.Records) != 2 {
		t.Fatalf("question records = %d, want 2", len(got.Records))
	}
	if got.Records[0].ChosenChoiceID == nil || *got.Records[0].ChosenChoiceID != "c2" {
		t.Errorf("record 0 chosen = %v", got.Records[0].ChosenChoiceID)
	}
	if !got.Records[1].TimedOut {
		t.Error("record 1 not timed out")
	}
}

func TestAttemptRecentLimit(t *testing.T) {
	repo := openTestStore(t).Attempts()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := AttemptRecord{
			ID:          "attempt-" + string(rune('a'+i)),
			TopicKey:    "t",
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
			StartedAt:   base,
		}
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	recs, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("Recent(2) returned %d records", len(recs))
	}
}

func TestAttemptMarkSaved(t *testing.T) {
	repo := openTestStore(t).Attempts()
	ctx := context.Background()

	rec := AttemptRecord{
		ID:          "attempt-a",
		TopicKey:    "t",
		StartedAt:   time.Now(),
		CompletedAt: time.Now(),
	}
	if err := repo.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	recs, err := repo.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if recs[0].Saved {
		t.Error("attempt saved before MarkSaved")
	}

	if err := repo.MarkSaved(ctx, "attempt-a"); err != nil {
		t.Fatalf("MarkSaved: %v", err)
	}
	recs, err = repo.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if !recs[0].Saved {
		t.Error("attempt not saved after MarkSaved")
	}
}
