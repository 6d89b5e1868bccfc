// Package history shows the locally logged quiz attempts.
package history

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/topiq/internal/router"
	"github.com/abhisek/topiq/internal/screen"
	"github.com/abhisek/topiq/internal/store"
	"github.com/abhisek/topiq/internal/ui/layout"
	"github.com/abhisek/topiq/internal/ui/theme"
)

type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Err      error
}

// HistoryScreen displays past attempts from the local log.
type HistoryScreen struct {
	attempts store.AttemptRepo
	records  []store.AttemptRecord
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen.
func New(attempts store.AttemptRepo) *HistoryScreen {
	return &HistoryScreen{attempts: attempts}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		records, err := s.attempts.Recent(ctx, 50)
		return historyLoadedMsg{Attempts: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return centered(width, height, theme.IncorrectStyle().Render(s.errMsg))
	}
	if !s.loaded {
		return centered(width, height, theme.SubtitleStyle().Render("Loading history..."))
	}
	if len(s.records) == 0 {
		return centered(width, height, theme.SubtitleStyle().Render("No attempts yet. Take a quiz!"))
	}

	var list string
	for i, rec := range s.records {
		saved := theme.HintStyle().Render("not saved")
		if rec.Saved {
			saved = theme.CorrectStyle().Render("saved")
		}
		line := fmt.Sprintf("%-24s %2d/%-2d  %s  %s",
			rec.TopicKey,
			rec.Score, rec.Questions,
			rec.CompletedAt.Local().Format("2006-01-02 15:04"),
			saved,
		)
		if i == s.selected {
			list += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ "+line) + "\n"
		} else {
			list += lipgloss.NewStyle().Foreground(theme.Text).Render("    "+line) + "\n"
		}
	}
	return centered(width, height, theme.CardStyle().Render(list))
}

func centered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
