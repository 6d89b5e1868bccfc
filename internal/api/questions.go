package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/topiq/internal/quiz"
)

// questionSetSchema validates the question-set payload before it reaches
// the engine. The remote service owns the bank; a malformed payload is a
// load error, not a crash in the middle of a quiz.
var questionSetSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":     map[string]any{"type": "string", "minLength": 1},
					"prompt": map[string]any{"type": "string", "minLength": 1},
					"choices": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":   map[string]any{"type": "string", "minLength": 1},
								"text": map[string]any{"type": "string"},
							},
							"required": []any{"id", "text"},
						},
					},
					"correctChoiceId": map[string]any{"type": "string", "minLength": 1},
				},
				"required": []any{"id", "prompt", "choices", "correctChoiceId"},
			},
		},
	},
	"required": []any{"questions"},
}

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

func questionSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://question-set.json", questionSetSchema); err != nil {
			compileSchemaError = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileSchemaError = c.Compile("schema://question-set.json")
	})
	return compiledSchema, compileSchemaError
}

type questionSetResponse struct {
	Questions []quiz.Question `json:"questions"`
}

// FetchQuestions returns the question set for one topic. It succeeds
// without a token: guests may browse and take quizzes.
func (c *Client) FetchQuestions(ctx context.Context, topicKey string) ([]quiz.Question, error) {
	raw, err := c.do(ctx, http.MethodGet, "/topicwise-mcq/"+topicKey, nil, nil)
	if err != nil {
		return nil, err
	}

	sch, err := questionSchema()
	if err != nil {
		return nil, fmt.Errorf("compile question-set schema: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode question set: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("invalid question set for %q: %w", topicKey, err)
	}

	var resp questionSetResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode question set: %w", err)
	}
	return resp.Questions, nil
}

// TopicKeys returns the ordered list of topic identifiers.
func (c *Client) TopicKeys(ctx context.Context) ([]string, error) {
	var resp struct {
		Keys []string `json:"keys"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/topicwise-mcq/keys", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Keys, nil
}
