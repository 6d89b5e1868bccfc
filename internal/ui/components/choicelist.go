package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/topiq/internal/quiz"
	"github.com/abhisek/topiq/internal/ui/theme"
)

// ChoiceList renders one question's choices. Correctness is never shown
// while answering: the correct choice is the remote service's secret until
// the attempt completes.
type ChoiceList struct {
	Prompt   string
	Choices  []quiz.Choice
	Selected int
	Locked   bool
	ChosenID string
}

// NewChoiceList creates a choice list for a question.
func NewChoiceList(q quiz.Question) ChoiceList {
	return ChoiceList{
		Prompt:  q.Prompt,
		Choices: q.Choices,
	}
}

// Update handles keyboard navigation. Number keys select and lock in one
// keystroke; enter locks the highlighted choice. Once locked, further
// input is ignored.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, bool) {
	if c.Locked {
		return c, false
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Choices)-1 {
			c.Selected++
		}
	case "enter":
		return c.lock(c.Selected)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < len(c.Choices) {
			return c.lock(idx)
		}
	}

	return c, false
}

func (c ChoiceList) lock(idx int) (ChoiceList, bool) {
	c.Selected = idx
	c.Locked = true
	c.ChosenID = c.Choices[idx].ID
	return c, true
}

// View renders the prompt and choices.
func (c ChoiceList) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Prompt) + "\n\n"

	for i, choice := range c.Choices {
		prefix := "  "
		if i == c.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, choice.Text)

		switch {
		case c.Locked && i == c.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(line) + "\n"
		case i == c.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}
