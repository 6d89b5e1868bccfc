package quiz

import (
	"fmt"

	"charm.land/lipgloss/v2"

	eng "github.com/abhisek/topiq/internal/quiz"
	"github.com/abhisek/topiq/internal/ui/components"
	"github.com/abhisek/topiq/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	switch s.engine.State() {
	case eng.StateIdle, eng.StateLoading:
		return center(width, height, theme.SubtitleStyle().Render("Loading questions..."))
	case eng.StateErrored:
		return s.renderError(width, height)
	case eng.StateInProgress:
		return s.renderQuestion(width, height)
	default:
		return s.renderSummary(width, height)
	}
}

func (s *QuizScreen) renderError(width, height int) string {
	msg := "Could not load this quiz."
	if err := s.engine.Err(); err != nil {
		msg = err.Error()
	}
	body := theme.IncorrectStyle().Render(msg) + "\n\n" +
		theme.HintStyle().Render("Press R to retry, Esc to go back")
	return center(width, height, body)
}

func (s *QuizScreen) renderQuestion(width, height int) string {
	_, idx, ok := s.engine.Current()
	if !ok {
		return ""
	}
	total := len(s.engine.Questions())

	progress := theme.SubtitleStyle().Render(fmt.Sprintf("Question %d of %d", idx+1, total))

	countdown := components.Countdown{
		Remaining: s.engine.Remaining(),
		Total:     eng.QuestionTimeLimit,
		Width:     min(width-8, 60),
	}

	card := theme.CardStyle().Width(min(width-4, 76)).Render(
		progress + "\n\n" + countdown.View() + "\n\n" + s.choices.View(),
	)
	return lipgloss.NewStyle().Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center).Render(card)
}

func (s *QuizScreen) renderSummary(width, height int) string {
	attempt := s.engine.Attempt()
	if attempt == nil {
		return ""
	}
	total := len(attempt.Records)

	timedOut := 0
	for _, rec := range attempt.Records {
		if rec.TimedOut {
			timedOut++
		}
	}

	lines := theme.TitleStyle().Render("Quiz complete!") + "\n\n" +
		theme.BodyStyle().Render(fmt.Sprintf("Score: %d / %d", attempt.Score, total))
	if timedOut > 0 {
		lines += "\n" + theme.SubtitleStyle().Render(fmt.Sprintf("%d timed out", timedOut))
	}
	lines += "\n\n" + s.renderSaveStatus()

	card := theme.CardStyle().Width(min(width-4, 60)).Render(lines)
	return lipgloss.NewStyle().Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center).Render(card)
}

func (s *QuizScreen) renderSaveStatus() string {
	switch s.engine.State() {
	case eng.StateSubmitted:
		return theme.CorrectStyle().Render("✓ Result saved")
	case eng.StateSubmitFailed:
		return theme.IncorrectStyle().Render("✗ Not saved") + "\n" +
			theme.HintStyle().Render("Your score is shown above; saving failed.")
	default:
		if s.wasGuest {
			return theme.HintStyle().Render("Not saved — log in to keep your results.")
		}
		return theme.SubtitleStyle().Render("Saving result...")
	}
}

func center(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
