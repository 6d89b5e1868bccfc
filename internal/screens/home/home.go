// Package home is the main menu screen.
package home

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/topiq/internal/api"
	"github.com/abhisek/topiq/internal/auth"
	"github.com/abhisek/topiq/internal/router"
	"github.com/abhisek/topiq/internal/screen"
	"github.com/abhisek/topiq/internal/screens/history"
	"github.com/abhisek/topiq/internal/screens/login"
	"github.com/abhisek/topiq/internal/screens/topics"
	"github.com/abhisek/topiq/internal/store"
	"github.com/abhisek/topiq/internal/ui/components"
	"github.com/abhisek/topiq/internal/ui/layout"
	"github.com/abhisek/topiq/internal/ui/theme"
)

// HomeScreen is the landing screen of the application.
type HomeScreen struct {
	client   *api.Client
	manager  *auth.Manager
	attempts store.AttemptRepo
	kv       store.KV

	identity auth.Identity
	menu     components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(client *api.Client, manager *auth.Manager, attempts store.AttemptRepo, kv store.KV) *HomeScreen {
	s := &HomeScreen{
		client:   client,
		manager:  manager,
		attempts: attempts,
		kv:       kv,
	}
	s.identity, _ = manager.Initialize()
	s.menu = s.buildMenu()
	return s
}

func (s *HomeScreen) buildMenu() components.Menu {
	items := []components.MenuItem{
		{Label: "TAKE A QUIZ", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: topics.New(s.client, s.manager.Tokens(), s.attempts),
				}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(s.attempts)}
			}
		}},
	}

	if s.identity.Kind == auth.KindMember {
		items = append(items, components.MenuItem{Label: "LOG OUT", Action: s.logout})
	} else {
		items = append(items, components.MenuItem{Label: "LOG IN", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: login.New(s.manager)}
			}
		}})
	}

	items = append(items, components.MenuItem{Label: "EXIT", Action: func() tea.Cmd {
		return tea.Quit
	}})

	return components.NewMenu(items)
}

// logout tears down the session. The revoke call inside Logout is
// best-effort; the identity always comes back as guest.
func (s *HomeScreen) logout() tea.Cmd {
	manager := s.manager
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = manager.Logout(ctx)
		identity, _ := manager.Initialize()
		return router.IdentityChangedMsg{Identity: identity}
	}
}

func (s *HomeScreen) Init() tea.Cmd {
	return nil
}

func (s *HomeScreen) Title() string {
	return "Home"
}

func (s *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "T", Description: "Theme"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case router.IdentityChangedMsg:
		s.identity = msg.Identity
		s.menu = s.buildMenu()
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "t" {
			name := theme.Toggle()
			if s.kv != nil {
				_ = s.kv.Put("theme", string(name))
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *HomeScreen) View(width, height int) string {
	greeting := "Practice topic-wise MCQs from your terminal."
	if s.identity.Kind == auth.KindMember {
		greeting = "Welcome back, " + s.identity.Name + "!"
	}

	body := theme.TitleStyle().Render("topiq") + "\n" +
		theme.SubtitleStyle().Render(greeting) + "\n\n" +
		s.menu.View()

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}
