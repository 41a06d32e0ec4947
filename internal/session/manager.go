// ABOUTME: Session state manager holding the authenticated user and auth lifecycle
// ABOUTME: Owns login/signup/logout/bootstrap and publishes auth-state transitions

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/2389/solace-client/internal/api"
	"github.com/2389/solace-client/internal/creds"
	"github.com/2389/solace-client/internal/notify"
)

// State is the authentication state of the client.
type State int

const (
	// StateUnknown is the initial state while the bootstrap check runs.
	// The route guard must not redirect while the state is Unknown.
	StateUnknown State = iota
	// StateAuthenticated means a User is held.
	StateAuthenticated
	// StateUnauthenticated means no User is held and bootstrap finished.
	StateUnauthenticated
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Gateway is what the manager needs from the API client.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Signup(ctx context.Context, email, password, fullName string) (*api.StatusResponse, error)
	CurrentUser(ctx context.Context) (*api.User, error)
}

// Watcher observes auth-state transitions. Watchers run synchronously
// after the transition commits and must not call back into the manager.
type Watcher func(State)

// Manager owns the authenticated user identity for a client lifetime.
// The held User is sourced from the backend and only ever replaced
// wholesale; IsAuthenticated is true exactly when a User is held.
type Manager struct {
	gw       Gateway
	creds    creds.Store
	notifier notify.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	user     *api.User
	state    State
	watchers []Watcher
}

// NewManager creates a Manager in the Unknown state. Call Bootstrap to
// resolve it.
func NewManager(gw Gateway, store creds.Store, notifier notify.Notifier, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Manager{
		gw:       gw,
		creds:    store,
		notifier: notifier,
		logger:   logger.With("component", "session"),
		state:    StateUnknown,
	}
}

// Subscribe registers a watcher for auth-state transitions. The chat
// layer uses this to load sessions on login and drop them on logout.
func (m *Manager) Subscribe(w Watcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, w)
}

// State returns the current auth state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the held user, or nil when unauthenticated.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsAuthenticated reports whether a User is currently held.
func (m *Manager) IsAuthenticated() bool {
	return m.User() != nil
}

// Loading reports whether the initial bootstrap check is still pending.
func (m *Manager) Loading() bool {
	return m.State() == StateUnknown
}

// Bootstrap resolves the initial Unknown state. If a persisted access
// token exists it fetches the current user; on any failure it clears
// both tokens and resolves to Unauthenticated. With no stored token it
// resolves to Unauthenticated without any network call.
func (m *Manager) Bootstrap(ctx context.Context) error {
	token, err := m.creds.AccessToken(ctx)
	if err != nil {
		m.logger.Error("reading stored token", "error", err)
		m.setUser(nil)
		return err
	}
	if token == "" {
		m.setUser(nil)
		return nil
	}

	user, err := m.gw.CurrentUser(ctx)
	if err != nil {
		// Token is invalid, remove it
		m.logger.Info("stored token rejected", "error", err)
		if clearErr := m.creds.Clear(ctx); clearErr != nil {
			m.logger.Error("clearing credentials", "error", clearErr)
		}
		m.setUser(nil)
		return nil
	}

	m.logger.Info("restored session", "email", user.Email)
	m.setUser(user)
	return nil
}

// Login authenticates against the backend. On success the token pair is
// persisted and the current user fetched and held. On any failure no
// partial state survives: tokens are cleared, the user stays absent, a
// notification is surfaced, and the error is propagated.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.gw.Login(ctx, email, password)
	if err != nil {
		m.notifier.Error(api.ErrorDetail(err, "Login failed"))
		return err
	}

	if err := m.creds.SetTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		m.notifier.Error("Login failed")
		return err
	}

	user, err := m.gw.CurrentUser(ctx)
	if err != nil {
		// A token pair without an identity is partial state; drop it
		if clearErr := m.creds.Clear(ctx); clearErr != nil {
			m.logger.Error("clearing credentials", "error", clearErr)
		}
		m.notifier.Error(api.ErrorDetail(err, "Login failed"))
		return err
	}

	m.setUser(user)
	m.notifier.Success("Login successful!")
	return nil
}

// Signup registers a new account. No tokens are issued and the caller
// stays unauthenticated; success is a message only.
func (m *Manager) Signup(ctx context.Context, email, password, fullName string) error {
	resp, err := m.gw.Signup(ctx, email, password, fullName)
	if err != nil {
		m.notifier.Error(api.ErrorDetail(err, "Signup failed"))
		return err
	}
	m.notifier.Success(resp.Message)
	return nil
}

// Logout clears the persisted tokens and the held user unconditionally.
// It always succeeds from the caller's point of view; storage errors are
// logged and swallowed.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.creds.Clear(ctx); err != nil {
		m.logger.Error("clearing credentials", "error", err)
	}
	m.setUser(nil)
	m.notifier.Success("Logged out successfully")
}

// HandleAuthExpired is wired to the API client's 401 hook. The client has
// already cleared the stored tokens; this drops the in-memory user so
// the UI falls back to the login view.
func (m *Manager) HandleAuthExpired() {
	m.logger.Info("session expired")
	m.setUser(nil)
	m.notifier.Error("Session expired, please log in again")
}

// setUser commits a user change and publishes the resulting transition.
func (m *Manager) setUser(user *api.User) {
	m.mu.Lock()
	prev := m.state
	m.user = user
	if user != nil {
		m.state = StateAuthenticated
	} else {
		m.state = StateUnauthenticated
	}
	next := m.state
	watchers := append([]Watcher(nil), m.watchers...)
	m.mu.Unlock()

	if prev == next {
		return
	}
	m.logger.Debug("auth state changed", "from", prev, "to", next)
	for _, w := range watchers {
		w(next)
	}
}
