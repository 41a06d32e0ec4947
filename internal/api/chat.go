// ABOUTME: Chat operations against the /chat endpoints
// ABOUTME: Message sending plus session listing, retrieval, and deletion

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// SendMessage posts a message to the assistant. An empty SessionID in the
// request starts a new conversation; the response names the session the
// message landed in either way.
func (c *Client) SendMessage(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSessions fetches every chat session owned by the authenticated user.
func (c *Client) ListSessions(ctx context.Context) ([]*ChatSession, error) {
	var sessions []*ChatSession
	if err := c.do(ctx, http.MethodGet, "/chat/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession fetches a single session with its full message history.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*ChatSession, error) {
	var session ChatSession
	path := fmt.Sprintf("/chat/sessions/%s", url.PathEscape(sessionID))
	if err := c.do(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session and its messages server-side.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) (*StatusResponse, error) {
	var resp StatusResponse
	path := fmt.Sprintf("/chat/sessions/%s", url.PathEscape(sessionID))
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
