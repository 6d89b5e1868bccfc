package quiz

// Choice is one selectable answer of a question.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a read-only snapshot of one question for the duration of a
// single attempt. The remote service owns the question bank; the client
// holds the correct choice only to display the local score.
type Question struct {
	ID              string   `json:"id"`
	Prompt          string   `json:"prompt"`
	Choices         []Choice `json:"choices"`
	CorrectChoiceID string   `json:"correctChoiceId"`
}

// Choice returns the choice with the given ID, if present.
func (q Question) Choice(id string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}
