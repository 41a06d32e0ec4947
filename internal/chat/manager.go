// ABOUTME: Conversation state manager holding chat sessions and the active session
// ABOUTME: Implements optimistic message appends with correlation-id rollback

package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389/solace-client/internal/api"
	"github.com/2389/solace-client/internal/notify"
	"github.com/2389/solace-client/internal/session"
)

// Gateway is what the manager needs from the API client.
type Gateway interface {
	SendMessage(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
	ListSessions(ctx context.Context) ([]*api.ChatSession, error)
	GetSession(ctx context.Context, sessionID string) (*api.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID string) (*api.StatusResponse, error)
}

// Manager owns the session collection and the single current session.
// All mutation happens through its methods; the lock is never held
// across a network call, so the UI stays responsive while a send is in
// flight and a failed send rolls back exactly the message it appended.
type Manager struct {
	gw       Gateway
	notifier notify.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	sessions []*api.ChatSession
	current  *api.ChatSession
	// pending maps optimistic-append correlation ids to the session the
	// append landed in. Entries are removed on confirm or rollback.
	pending map[string]string
}

// NewManager creates an empty Manager.
func NewManager(gw Gateway, notifier notify.Notifier, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Manager{
		gw:       gw,
		notifier: notifier,
		logger:   logger.With("component", "chat"),
		pending:  make(map[string]string),
	}
}

// Bind subscribes the manager to auth-state transitions: sessions load
// when authentication is established and are dropped when it goes away.
func (m *Manager) Bind(sessions *session.Manager) {
	sessions.Subscribe(m.HandleAuthState)
}

// HandleAuthState reacts to an auth-state transition.
func (m *Manager) HandleAuthState(st session.State) {
	if st == session.StateAuthenticated {
		// Ignore the load error here: it has already been surfaced as a
		// notification and an empty sidebar is the correct fallback.
		_ = m.LoadSessions(context.Background())
		return
	}
	m.mu.Lock()
	m.sessions = nil
	m.current = nil
	m.pending = make(map[string]string)
	m.mu.Unlock()
}

// Sessions returns the held session collection, newest first.
func (m *Manager) Sessions() []*api.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*api.ChatSession(nil), m.sessions...)
}

// Current returns the active session, or nil when composing a fresh
// conversation.
func (m *Manager) Current() *api.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// LoadSessions fetches the full session list and replaces the held
// collection, deduplicated by id.
func (m *Manager) LoadSessions(ctx context.Context) error {
	sessions, err := m.gw.ListSessions(ctx)
	if err != nil {
		m.logger.Error("loading sessions", "error", err)
		m.notifier.Error("Failed to load chat history")
		return err
	}

	deduped := make([]*api.ChatSession, 0, len(sessions))
	seen := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		deduped = append(deduped, s)
	}

	m.mu.Lock()
	m.sessions = deduped
	m.mu.Unlock()
	m.logger.Debug("sessions loaded", "count", len(deduped))
	return nil
}

// SendMessage sends text to the assistant. An empty sessionID starts a
// new conversation.
//
// If a current session is held, a user-role message tagged with a fresh
// correlation id is appended before the network call. On failure the
// rollback removes that exact message by id, so overlapping sends cannot
// strip each other's input. On success the server-confirmed state
// supersedes the optimistic entry: new conversations are fetched in full
// and inserted at the head of the collection; existing ones get the
// assistant reply appended and their update timestamp refreshed.
func (m *Manager) SendMessage(ctx context.Context, text, sessionID string) error {
	corr := m.appendOptimistic(text)

	resp, err := m.gw.SendMessage(ctx, &api.ChatRequest{Message: text, SessionID: sessionID})
	if err != nil {
		m.logger.Error("sending message", "error", err)
		m.rollback(corr)
		m.notifier.Error("Failed to send message")
		return err
	}

	if sessionID == "" {
		full, err := m.gw.GetSession(ctx, resp.SessionID)
		if err != nil {
			m.logger.Error("fetching new session", "error", err, "session_id", resp.SessionID)
			m.rollback(corr)
			m.notifier.Error("Failed to send message")
			return err
		}
		m.mu.Lock()
		m.confirmLocked(corr)
		m.current = full
		m.insertAtHeadLocked(full)
		m.mu.Unlock()
		return nil
	}

	now := time.Now().UTC()
	m.mu.Lock()
	m.confirmLocked(corr)
	if m.current != nil {
		m.current.Messages = append(m.current.Messages, api.ChatMessage{
			Role:      api.RoleAssistant,
			Content:   resp.Response,
			Timestamp: now,
		})
		m.current.UpdatedAt = now
		for _, s := range m.sessions {
			if s.ID == m.current.ID {
				s.UpdatedAt = now
			}
		}
	}
	m.mu.Unlock()
	return nil
}

// CreateNewSession deselects the current session so the UI presents a
// fresh-conversation state. No backend call is made; the session itself
// is created by the first SendMessage without a session id.
func (m *Manager) CreateNewSession() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// SelectSession fetches the session by id and makes it current.
func (m *Manager) SelectSession(ctx context.Context, sessionID string) error {
	s, err := m.gw.GetSession(ctx, sessionID)
	if err != nil {
		m.logger.Error("loading session", "error", err, "session_id", sessionID)
		m.notifier.Error("Failed to load chat session")
		return err
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return nil
}

// DeleteSession deletes the session server-side, removes it from the
// collection, and clears the current session if it was the one deleted.
// Failure leaves the collection untouched.
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := m.gw.DeleteSession(ctx, sessionID); err != nil {
		m.logger.Error("deleting session", "error", err, "session_id", sessionID)
		m.notifier.Error("Failed to delete chat session")
		return err
	}

	m.mu.Lock()
	kept := m.sessions[:0]
	for _, s := range m.sessions {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	if m.current != nil && m.current.ID == sessionID {
		m.current = nil
	}
	m.mu.Unlock()

	m.notifier.Success("Chat session deleted")
	return nil
}

// appendOptimistic appends a user message to the current session, if one
// is held, and registers it as pending. Returns the correlation id, or
// "" when nothing was appended.
func (m *Manager) appendOptimistic(text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	corr := uuid.New().String()
	m.current.Messages = append(m.current.Messages, api.ChatMessage{
		Role:          api.RoleUser,
		Content:       text,
		Timestamp:     time.Now().UTC(),
		CorrelationID: corr,
	})
	m.pending[corr] = m.current.ID
	return corr
}

// rollback removes the pending message tagged with corr wherever it
// lives. A "" corr means no optimistic append happened.
func (m *Manager) rollback(corr string) {
	if corr == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, corr)
	if m.current != nil {
		m.current.Messages = removeByCorrelation(m.current.Messages, corr)
	}
	for _, s := range m.sessions {
		s.Messages = removeByCorrelation(s.Messages, corr)
	}
}

// confirmLocked marks the pending message tagged with corr as
// server-confirmed by clearing its correlation id. Must be called with
// mu held.
func (m *Manager) confirmLocked(corr string) {
	if corr == "" {
		return
	}
	delete(m.pending, corr)
	if m.current != nil {
		clearCorrelation(m.current.Messages, corr)
	}
	for _, s := range m.sessions {
		clearCorrelation(s.Messages, corr)
	}
}

// insertAtHeadLocked puts s first in the collection, removing any prior
// entry with the same id. Must be called with mu held.
func (m *Manager) insertAtHeadLocked(s *api.ChatSession) {
	kept := make([]*api.ChatSession, 0, len(m.sessions)+1)
	kept = append(kept, s)
	for _, existing := range m.sessions {
		if existing.ID != s.ID {
			kept = append(kept, existing)
		}
	}
	m.sessions = kept
}

func removeByCorrelation(msgs []api.ChatMessage, corr string) []api.ChatMessage {
	for i, msg := range msgs {
		if msg.CorrelationID == corr {
			return append(msgs[:i], msgs[i+1:]...)
		}
	}
	return msgs
}

func clearCorrelation(msgs []api.ChatMessage, corr string) {
	for i := range msgs {
		if msgs[i].CorrelationID == corr {
			msgs[i].CorrelationID = ""
		}
	}
}
