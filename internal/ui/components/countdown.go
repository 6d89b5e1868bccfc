package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/topiq/internal/ui/theme"
)

// Countdown displays the remaining time for the active question as a
// draining bar. It is pure view: the quiz screen owns the actual timer.
type Countdown struct {
	Remaining time.Duration
	Total     time.Duration
	Width     int
}

// View renders the countdown bar and the seconds left.
func (c Countdown) View() string {
	secs := int(c.Remaining.Round(time.Second).Seconds())
	label := fmt.Sprintf("%2ds ", secs)

	barWidth := c.Width - lipgloss.Width(label)
	if barWidth < 4 {
		barWidth = 4
	}

	frac := 0.0
	if c.Total > 0 {
		frac = float64(c.Remaining) / float64(c.Total)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(barWidth))

	fillColor := theme.Secondary
	if c.Remaining <= 10*time.Second {
		fillColor = theme.Error
	}

	bar := lipgloss.NewStyle().Background(fillColor).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	labelStyle := lipgloss.NewStyle().Foreground(theme.Text)
	if c.Remaining <= 10*time.Second {
		labelStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}

	return labelStyle.Render(label) + bar
}
