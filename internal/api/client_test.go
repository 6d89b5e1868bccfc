package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/topiq/internal/quiz"
)

// staticTokens implements TokenReader with a fixed token.
type staticTokens struct {
	token string
}

func (s staticTokens) AccessToken() (string, error) { return s.token, nil }

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var tokens TokenReader
	if token != "" {
		tokens = staticTokens{token: token}
	}
	c, err := New(srv.URL, tokens, 5*time.Second)
	require.NoError(t, err)
	return c, srv
}

func validQuestionSet() map[string]any {
	return map[string]any{
		"questions": []map[string]any{
			{
				"id":     "q1",
				"prompt": "What does a closure capture?",
				"choices": []map[string]any{
					{"id": "c1", "text": "Values"},
					{"id": "c2", "text": "Variables"},
				},
				"correctChoiceId": "c2",
			},
		},
	}
}

func TestFetchQuestions(t *testing.T) {
	var gotPath, gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(validQuestionSet())
	}), "token-123")

	questions, err := c.FetchQuestions(context.Background(), "javascript-closures")
	require.NoError(t, err)

	assert.Equal(t, "/topicwise-mcq/javascript-closures", gotPath)
	assert.Equal(t, "Bearer token-123", gotAuth)
	require.Len(t, questions, 1)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, "c2", questions[0].CorrectChoiceID)
	require.Len(t, questions[0].Choices, 2)
}

func TestFetchQuestionsAnonymous(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(validQuestionSet())
	}), "")

	_, err := c.FetchQuestions(context.Background(), "javascript-closures")
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "anonymous fetch must not send an Authorization header")
}

func TestFetchQuestionsRejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing questions field", `{"items": []}`},
		{"question without prompt", `{"questions": [{"id": "q1", "choices": [{"id":"a","text":"x"},{"id":"b","text":"y"}], "correctChoiceId": "a"}]}`},
		{"single choice", `{"questions": [{"id": "q1", "prompt": "p", "choices": [{"id":"a","text":"x"}], "correctChoiceId": "a"}]}`},
		{"not json", `<html>gateway error</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}), "")

			_, err := c.FetchQuestions(context.Background(), "t")
			assert.Error(t, err)
		})
	}
}

func TestFetchQuestionsEmptySetIsValid(t *testing.T) {
	// An empty array is schema-valid; rejecting it is the engine's call,
	// which moves to its errored state rather than presenting zero questions.
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"questions": []}`))
	}), "")

	questions, err := c.FetchQuestions(context.Background(), "t")
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestUnauthorizedMapsToErrUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), "stale-token")

	err := c.SubmitAttempt(context.Background(), "t", &quiz.Attempt{ID: "a1", TopicKey: "t"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestServerErrorMapsToStatusError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}), "")

	_, err := c.TopicKeys(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestTransportFailureMapsToErrNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(srv.URL, nil, time.Second)
	require.NoError(t, err)

	_, err = c.TopicKeys(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestSubmitAttemptPayload(t *testing.T) {
	chosen := "c2"
	attempt := &quiz.Attempt{
		ID:          "attempt-1",
		TopicKey:    "javascript-closures",
		StartedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 3, 1, 10, 2, 30, 0, time.UTC),
		Score:       1,
		Records: []quiz.QuestionRecord{
			{QuestionID: "q1", ChosenChoiceID: &chosen, ElapsedMs: 4000},
			{QuestionID: "q2", TimedOut: true, ElapsedMs: 60000},
		},
	}

	var gotPath string
	var gotBody attemptPayload
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}), "token-123")

	require.NoError(t, c.SubmitAttempt(context.Background(), "javascript-closures", attempt))

	assert.Equal(t, "/topicwise-mcq/javascript-closures/results", gotPath)
	assert.Equal(t, "attempt-1", gotBody.AttemptID)
	assert.Equal(t, 1, gotBody.Score)
	require.Len(t, gotBody.PerQuestion, 2)
	require.NotNil(t, gotBody.PerQuestion[0].ChosenChoiceID)
	assert.Equal(t, "c2", *gotBody.PerQuestion[0].ChosenChoiceID)
	assert.Nil(t, gotBody.PerQuestion[1].ChosenChoiceID)
	assert.True(t, gotBody.PerQuestion[1].TimedOut)
}

func TestLoginDecodesTriple(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "ada@example.com", creds["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
			"user": map[string]string{
				"id":    "u1",
				"name":  "Ada Lovelace",
				"email": "ada@example.com",
			},
		})
	}), "")

	s, err := c.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "access-1", s.AccessToken)
	assert.Equal(t, "Ada Lovelace", s.User.Name)
}

func TestRevokeSendsRefreshToken(t *testing.T) {
	var gotBody map[string]string
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}), "access-1")

	require.NoError(t, c.Revoke(context.Background(), "refresh-1"))
	assert.Equal(t, "refresh-1", gotBody["refreshToken"])
	assert.Equal(t, "Bearer access-1", gotAuth)
}

func TestTopicKeys(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/topicwise-mcq/keys", r.URL.Path)
		w.Write([]byte(`{"keys": ["css-grid", "go-slices", "javascript-closures"]}`))
	}), "")

	keys, err := c.TopicKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"css-grid", "go-slices", "javascript-closures"}, keys)
}
