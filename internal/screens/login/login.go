// Package login is the email/password login and registration screen.
package login

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/topiq/internal/auth"
	"github.com/abhisek/topiq/internal/router"
	"github.com/abhisek/topiq/internal/screen"
	"github.com/abhisek/topiq/internal/ui/components"
	"github.com/abhisek/topiq/internal/ui/layout"
	"github.com/abhisek/topiq/internal/ui/theme"
)

type loginDoneMsg struct {
	Identity auth.Identity
	Err      error
}

// LoginScreen collects credentials and performs the login or registration
// flow through the session manager.
type LoginScreen struct {
	manager *auth.Manager

	registering bool
	name        components.TextInput
	email       components.TextInput
	password    components.TextInput
	focused     int
	busy        bool
	errMsg      string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New(manager *auth.Manager) *LoginScreen {
	s := &LoginScreen{
		manager:  manager,
		name:     components.NewTextInput("Name", "Ada Lovelace", false),
		email:    components.NewTextInput("Email", "you@example.com", false),
		password: components.NewTextInput("Password", "", true),
	}
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Focus()
}

func (s *LoginScreen) Title() string {
	if s.registering {
		return "Register"
	}
	return "Log in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+R", Description: "Toggle register"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LoginScreen) fields() []*components.TextInput {
	if s.registering {
		return []*components.TextInput{&s.name, &s.email, &s.password}
	}
	return []*components.TextInput{&s.email, &s.password}
}

func (s *LoginScreen) focusField(idx int) tea.Cmd {
	fields := s.fields()
	if idx < 0 {
		idx = len(fields) - 1
	}
	if idx >= len(fields) {
		idx = 0
	}
	s.focused = idx
	var cmd tea.Cmd
	for i, f := range fields {
		if i == idx {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "down":
			return s, s.focusField(s.focused + 1)
		case "shift+tab", "up":
			return s, s.focusField(s.focused - 1)
		case "ctrl+r":
			s.registering = !s.registering
			s.clearErrors()
			return s, s.focusField(0)
		case "enter":
			return s.submit()
		}

		fields := s.fields()
		var cmd tea.Cmd
		*fields[s.focused], cmd = fields[s.focused].Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *LoginScreen) clearErrors() {
	s.errMsg = ""
	s.name.SetError("")
	s.email.SetError("")
	s.password.SetError("")
}

func (s *LoginScreen) submit() (screen.Screen, tea.Cmd) {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()
	name := strings.TrimSpace(s.name.Value())

	s.clearErrors()
	ok := true
	if s.registering && name == "" {
		s.name.SetError("required")
		ok = false
	}
	if email == "" {
		s.email.SetError("required")
		ok = false
	}
	if password == "" {
		s.password.SetError("required")
		ok = false
	}
	if !ok {
		return s, nil
	}

	s.busy = true
	registering := s.registering
	manager := s.manager
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var identity auth.Identity
		var err error
		if registering {
			identity, err = manager.Register(ctx, name, email, password)
		} else {
			identity, err = manager.Login(ctx, email, password)
		}
		return loginDoneMsg{Identity: identity, Err: err}
	}
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	for _, f := range s.fields() {
		b.WriteString(f.View())
		b.WriteString("\n\n")
	}

	if s.busy {
		b.WriteString(theme.SubtitleStyle().Render("Signing in..."))
	} else if s.errMsg != "" {
		b.WriteString(theme.IncorrectStyle().Render(s.errMsg))
	}

	card := theme.CardStyle().Width(48).Render(b.String())
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}
