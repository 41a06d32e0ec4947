// ABOUTME: Tests for the backend HTTP client
// ABOUTME: Covers bearer injection, error classification, and 401 credential invalidation

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/solace-client/internal/creds"
)

// newTestClient wires a Client against a handler with a fresh in-memory
// credential store.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *creds.MemStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := creds.NewMemStore()
	return New(srv.URL, store, nil), store
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(&User{ID: "u1"})
	}))
	require.NoError(t, store.SetTokens(context.Background(), "tok-123", "ref-456"))

	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_NoTokenProceedsUnauthenticated(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(&StatusResponse{Message: "ok", Success: true})
	}))

	_, err := client.ForgotPassword(context.Background(), "a@b.test")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ErrorDetailFromBackend(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Email already registered"})
	}))

	_, err := client.Signup(context.Background(), "a@b.test", "secret123", "A B")
	require.Error(t, err)

	assert.Equal(t, "Email already registered", ErrorDetail(err, "fallback"))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_ErrorDetailFallback(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListSessions(context.Background())
	require.Error(t, err)
	assert.Equal(t, "fallback", ErrorDetail(err, "fallback"))
}

func TestClient_401WithRefreshTokenClearsCredentials(t *testing.T) {
	expired := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token expired"})
	}))
	t.Cleanup(srv.Close)

	store := creds.NewMemStore()
	require.NoError(t, store.SetTokens(context.Background(), "stale", "refresh"))
	client := New(srv.URL, store, nil, WithAuthExpiredHook(func() { expired = true }))

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, expired, "auth-expired hook should fire")

	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	refresh, err := store.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestClient_401WithoutRefreshTokenLeavesStoreAlone(t *testing.T) {
	// A failed login is also a 401; with no stored refresh token there is
	// nothing to invalidate and the hook must not fire.
	expired := false
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))
	client.OnAuthExpired(func() { expired = true })

	_, err := client.Login(context.Background(), "a@b.test", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, expired)

	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestClient_EndpointRouting(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.RequestURI()})
		switch {
		case r.URL.Path == "/chat/sessions":
			json.NewEncoder(w).Encode([]*ChatSession{})
		default:
			json.NewEncoder(w).Encode(map[string]any{})
		}
	}))
	require.NoError(t, store.SetTokens(context.Background(), "tok", "ref"))

	ctx := context.Background()
	_, err := client.SendMessage(ctx, &ChatRequest{Message: "hi"})
	require.NoError(t, err)
	_, err = client.ListSessions(ctx)
	require.NoError(t, err)
	_, err = client.GetSession(ctx, "s1")
	require.NoError(t, err)
	_, err = client.DeleteSession(ctx, "s1")
	require.NoError(t, err)
	_, err = client.ListUsers(ctx, 10, 25)
	require.NoError(t, err)
	_, err = client.ToggleUserActive(ctx, "u9")
	require.NoError(t, err)

	assert.Equal(t, []call{
		{http.MethodPost, "/chat/"},
		{http.MethodGet, "/chat/sessions"},
		{http.MethodGet, "/chat/sessions/s1"},
		{http.MethodDelete, "/chat/sessions/s1"},
		{http.MethodGet, "/admin/users?skip=10&limit=25"},
		{http.MethodPut, "/admin/users/u9/toggle-active"},
	}, calls)
}

func TestClient_SendMessageBody(t *testing.T) {
	var got ChatRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(&ChatResponse{Response: "hello!", SessionID: "s-new"})
	}))

	resp, err := client.SendMessage(context.Background(), &ChatRequest{Message: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "hello", got.Message)
	assert.Empty(t, got.SessionID)
	assert.Equal(t, "hello!", resp.Response)
	assert.Equal(t, "s-new", resp.SessionID)
}
