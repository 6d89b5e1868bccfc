// Package app wires the root Bubble Tea model: screen router, header with
// the identity affordance, footer key hints.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/topiq/internal/api"
	"github.com/abhisek/topiq/internal/auth"
	"github.com/abhisek/topiq/internal/router"
	"github.com/abhisek/topiq/internal/screen"
	"github.com/abhisek/topiq/internal/screens/home"
	"github.com/abhisek/topiq/internal/screens/quiz"
	"github.com/abhisek/topiq/internal/store"
	"github.com/abhisek/topiq/internal/ui/layout"
)

// Options carries the dependencies of the root model.
type Options struct {
	Client   *api.Client
	Manager  *auth.Manager
	Attempts store.AttemptRepo
	KV       store.KV

	// Topic, when set, opens a quiz for that topic key on startup.
	Topic string
}

// avatarLoadedMsg reports whether the profile picture could be fetched.
// A failed load falls back to the initials badge.
type avatarLoadedMsg struct {
	URL string
	OK  bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	manager *auth.Manager
	badge   layout.Badge
	initCmd tea.Cmd
	width   int
	height  int
}

// newAppModel creates the root model with the home screen and an initial
// identity read.
func newAppModel(opts Options) AppModel {
	m := AppModel{manager: opts.Manager}

	// Identity re-initializes on every navigation boundary: client-side
	// navigation never reloads the app, so the hook is the only place a
	// login performed on another screen becomes visible everywhere.
	onNavigate := func() tea.Cmd {
		manager := opts.Manager
		return func() tea.Msg {
			identity, _ := manager.Initialize()
			return router.IdentityChangedMsg{Identity: identity}
		}
	}

	homeScreen := home.New(opts.Client, opts.Manager, opts.Attempts, opts.KV)
	m.router = router.New(homeScreen, onNavigate)

	if opts.Topic != "" {
		m.initCmd = m.router.Push(quiz.New(opts.Client, opts.Client, opts.Manager.Tokens(), opts.Attempts, opts.Topic))
	}

	identity, _ := opts.Manager.Initialize()
	m.badge = badgeFor(identity, false)
	return m
}

func badgeFor(identity auth.Identity, hasAvatar bool) layout.Badge {
	if identity.Kind != auth.KindMember {
		return layout.Badge{Guest: true}
	}
	return layout.Badge{
		Initials:  identity.Initials,
		Name:      identity.Name,
		HasAvatar: hasAvatar,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.initCmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case router.IdentityChangedMsg:
		// Until the avatar loads, the affordance shows initials.
		m.badge = badgeFor(msg.Identity, false)
		cmds := []tea.Cmd{m.router.Update(msg)}
		if msg.Identity.AvatarURL != "" {
			cmds = append(cmds, m.fetchAvatar(msg.Identity.AvatarURL))
		}
		return m, tea.Batch(cmds...)

	case avatarLoadedMsg:
		if !m.badge.Guest {
			m.badge.HasAvatar = msg.OK
		}
		return m, nil
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) fetchAvatar(url string) tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, err := manager.FetchAvatar(ctx, url)
		return avatarLoadedMsg{URL: url, OK: err == nil}
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.badge, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
