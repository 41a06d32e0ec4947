// ABOUTME: In-memory implementation of the credential Store
// ABOUTME: Used by tests and by ephemeral runs that should not persist tokens

package creds

import (
	"context"
	"sync"
)

// MemStore implements Store without touching disk. Tokens live only for
// the process lifetime.
type MemStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	closed  bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// AccessToken returns the held access token, or "" when unset.
func (s *MemStore) AccessToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrClosed
	}
	return s.access, nil
}

// RefreshToken returns the held refresh token, or "" when unset.
func (s *MemStore) RefreshToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrClosed
	}
	return s.refresh, nil
}

// SetTokens replaces both tokens.
func (s *MemStore) SetTokens(_ context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.access = access
	s.refresh = refresh
	return nil
}

// Clear removes both tokens.
func (s *MemStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.access = ""
	s.refresh = ""
	return nil
}

// Close marks the store closed. Further operations return ErrClosed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
