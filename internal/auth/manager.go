package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// API is the slice of the remote API the session manager depends on.
type API interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Register(ctx context.Context, name, email, password string) (Session, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// IdentityKind distinguishes the guest and member affordances.
type IdentityKind int

const (
	KindGuest IdentityKind = iota
	KindMember
)

// Identity is the rendered identity affordance state.
type Identity struct {
	Kind      IdentityKind
	Name      string
	Initials  string
	AvatarURL string
}

// Manager translates TokenStore state into the identity affordance and
// performs the login/logout flows. It is the only writer of the TokenStore.
type Manager struct {
	tokens *TokenStore
	api    API
	http   *http.Client
}

// NewManager creates a Manager. httpClient is used only for avatar fetches
// and may be nil to use http.DefaultClient.
func NewManager(tokens *TokenStore, api API, httpClient *http.Client) *Manager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Manager{tokens: tokens, api: api, http: httpClient}
}

// Tokens exposes the underlying store for read-side collaborators.
func (m *Manager) Tokens() *TokenStore {
	return m.tokens
}

// Initialize reads the TokenStore and derives the identity affordance.
// It is idempotent and safe to re-run on every navigation boundary.
func (m *Manager) Initialize() (Identity, error) {
	s, err := m.tokens.Get()
	if err != nil {
		return Identity{Kind: KindGuest}, err
	}
	if !s.Authenticated() {
		return Identity{Kind: KindGuest}, nil
	}

	name := s.User.Name
	if name == "" {
		name, _, _ = strings.Cut(s.User.Email, "@")
	}
	return Identity{
		Kind:      KindMember,
		Name:      name,
		Initials:  Initials(s.User),
		AvatarURL: s.User.ProfilePicture,
	}, nil
}

// Login authenticates with the remote API and persists the returned triple.
func (m *Manager) Login(ctx context.Context, email, password string) (Identity, error) {
	s, err := m.api.Login(ctx, email, password)
	if err != nil {
		return Identity{Kind: KindGuest}, err
	}
	if err := m.tokens.Set(s); err != nil {
		return Identity{Kind: KindGuest}, fmt.Errorf("persist session: %w", err)
	}
	return m.Initialize()
}

// Register creates an account and persists the returned triple.
func (m *Manager) Register(ctx context.Context, name, email, password string) (Identity, error) {
	s, err := m.api.Register(ctx, name, email, password)
	if err != nil {
		return Identity{Kind: KindGuest}, err
	}
	if err := m.tokens.Set(s); err != nil {
		return Identity{Kind: KindGuest}, fmt.Errorf("persist session: %w", err)
	}
	return m.Initialize()
}

// Logout revokes the refresh token best-effort and always clears the local
// triple. A failing revoke call never blocks local teardown: the user must
// not stay logged in because of a network error.
func (m *Manager) Logout(ctx context.Context) error {
	s, err := m.tokens.Get()
	if err == nil && s.RefreshToken != "" {
		_ = m.api.Revoke(ctx, s.RefreshToken)
	}
	return m.tokens.Clear()
}

// FetchAvatar downloads the profile picture. Any failure means the caller
// falls back to the initials badge; that fallback is a defined affordance
// state, not an error condition for the session itself.
func (m *Manager) FetchAvatar(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("avatar request: %w", err)
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch avatar: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
