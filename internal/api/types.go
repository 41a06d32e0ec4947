// ABOUTME: Wire types for the Solace backend REST API
// ABOUTME: Mirrors the JSON bodies produced and consumed by the gateway endpoints

package api

import "time"

// Message role constants. The backend only ever emits these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User is the authenticated account as returned by GET /auth/me and the
// admin user listings. It is never mutated client-side except by wholesale
// replacement from a fresh server response.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AuthResponse is the token pair issued by POST /auth/login.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the body for POST /auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// StatusResponse is the generic message envelope returned by the auth
// flows that do not issue tokens (signup, verify, forgot/reset password)
// and by DELETE /chat/sessions/{id}.
type StatusResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ChatMessage is a single message within a chat session.
//
// CorrelationID is client-side only: it tags an optimistic append so a
// failed send can roll back exactly that entry regardless of how calls
// interleave. It is cleared once the server confirms the send and is
// never serialized.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	CorrelationID string `json:"-"`
}

// ChatSession is a titled conversation thread with its ordered messages.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ChatRequest is the body for POST /chat/. An empty SessionID starts a
// new conversation server-side.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the assistant reply from POST /chat/.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// DashboardStats holds the aggregate counters on the admin dashboard.
type DashboardStats struct {
	TotalUsers        int `json:"total_users"`
	VerifiedUsers     int `json:"verified_users"`
	ActiveUsers       int `json:"active_users"`
	TotalChatSessions int `json:"total_chat_sessions"`
}

// DashboardResponse is the body of GET /admin/dashboard.
type DashboardResponse struct {
	Stats       DashboardStats `json:"stats"`
	RecentUsers []User         `json:"recent_users"`
}

// UsersPage is the paginated envelope of GET /admin/users.
type UsersPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}
