// Package topics lists the available topic keys and launches quizzes.
package topics

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/topiq/internal/api"
	"github.com/abhisek/topiq/internal/auth"
	"github.com/abhisek/topiq/internal/router"
	"github.com/abhisek/topiq/internal/screen"
	quizscreen "github.com/abhisek/topiq/internal/screens/quiz"
	"github.com/abhisek/topiq/internal/store"
	"github.com/abhisek/topiq/internal/ui/layout"
	"github.com/abhisek/topiq/internal/ui/theme"
)

type topicsLoadedMsg struct {
	Keys []string
	Err  error
}

// TopicsScreen shows the topic list fetched from the remote API.
type TopicsScreen struct {
	client   *api.Client
	tokens   *auth.TokenStore
	attempts store.AttemptRepo

	keys     []string
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates a TopicsScreen.
func New(client *api.Client, tokens *auth.TokenStore, attempts store.AttemptRepo) *TopicsScreen {
	return &TopicsScreen{client: client, tokens: tokens, attempts: attempts}
}

func (s *TopicsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		keys, err := s.client.TopicKeys(ctx)
		return topicsLoadedMsg{Keys: keys, Err: err}
	}
}

func (s *TopicsScreen) Title() string {
	return "Topics"
}

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start quiz"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.keys = msg.Keys
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
			if s.selected < len(s.keys)-1 {
				s.selected++
			}
		case "enter":
			if s.selected >= 0 && s.selected < len(s.keys) {
				key := s.keys[s.selected]
				return s, func() tea.Msg {
					return router.PushScreenMsg{
						Screen: quizscreen.New(s.client, s.client, s.tokens, s.attempts, key),
					}
				}
			}
		}
	}
	return s, nil
}

func (s *TopicsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return centered(width, height, theme.IncorrectStyle().Render(s.errMsg))
	}
	if !s.loaded {
		return centered(width, height, theme.SubtitleStyle().Render("Loading topics..."))
	}
	if len(s.keys) == 0 {
		return centered(width, height, theme.SubtitleStyle().Render("No topics available."))
	}

	var list string
	for i, key := range s.keys {
		if i == s.selected {
			list += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ "+key) + "\n"
		} else {
			list += lipgloss.NewStyle().Foreground(theme.Text).Render("    "+key) + "\n"
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
