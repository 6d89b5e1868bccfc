// Package router manages the stack of screens and the navigation
// boundary. Client-side navigation never reloads the app, so anything
// that must re-run per navigation (identity initialization) hangs off the
// router's OnNavigate hook.
package router

import (
	"github.com/abhisek/topiq/internal/auth"
	"github.com/abhisek/topiq/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// PushScreenMsg requests the router to push a new screen onto the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the current screen off the stack.
type PopScreenMsg struct{}

// IdentityChangedMsg broadcasts the re-initialized identity affordance
// after a navigation boundary or an explicit login/logout.
type IdentityChangedMsg struct {
	Identity auth.Identity
}

// Router manages a stack of screens.
type Router struct {
	stack []screen.Screen

	// onNavigate runs after every push and pop. It must be idempotent:
	// it re-runs on every navigation boundary for the life of the app.
	onNavigate func() tea.Cmd
}

// New creates a Router with the given initial screen. onNavigate may be
// nil when no per-navigation work is needed.
func New(initial screen.Screen, onNavigate func() tea.Cmd) *Router {
	return &Router{
		stack:      []screen.Screen{initial},
		onNavigate: onNavigate,
	}
}

// Push adds a screen on top of the stack, calls its Init() and fires the
// navigation hook.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return tea.Batch(s.Init(), r.navigate())
}

// Pop removes the top screen, notifying it of teardown so it can cancel
// any live countdown or abandon an attempt. No-op if the stack would
// become empty.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	top := r.stack[len(r.stack)-1]
	if td, ok := top.(screen.TearDowner); ok {
		td.TearDown()
	}
	r.stack = r.stack[:len(r.stack)-1]
	return r.navigate()
}

func (r *Router) navigate() tea.Cmd {
	if r.onNavigate == nil {
		return nil
	}
	return r.onNavigate()
}

// Active returns the top screen on the stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update forwards a message to the active screen and handles navigation
// messages.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}

	active := r.Active()
	if active == nil {
		return nil
	}

	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
