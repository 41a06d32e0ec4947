// ABOUTME: Tests for the session state manager
// ABOUTME: Covers login/logout/bootstrap flows and auth-state transitions

package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/solace-client/internal/api"
	"github.com/2389/solace-client/internal/creds"
	"github.com/2389/solace-client/internal/notify"
)

// fakeGateway scripts gateway responses and counts calls.
type fakeGateway struct {
	loginResp *api.AuthResponse
	loginErr  error

	signupResp *api.StatusResponse
	signupErr  error

	user    *api.User
	userErr error

	currentUserCalls int
}

func (f *fakeGateway) Login(_ context.Context, _, _ string) (*api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeGateway) Signup(_ context.Context, _, _, _ string) (*api.StatusResponse, error) {
	return f.signupResp, f.signupErr
}

func (f *fakeGateway) CurrentUser(_ context.Context) (*api.User, error) {
	f.currentUserCalls++
	return f.user, f.userErr
}

func testUser() *api.User {
	return &api.User{ID: "u1", Email: "a@b.test", FullName: "Ada Test"}
}

func newTestManager(gw Gateway) (*Manager, *creds.MemStore, *notify.Recorder) {
	store := creds.NewMemStore()
	rec := notify.NewRecorder()
	return NewManager(gw, store, rec, nil), store, rec
}

func TestManager_InitialStateUnknown(t *testing.T) {
	m, _, _ := newTestManager(&fakeGateway{})

	assert.Equal(t, StateUnknown, m.State())
	assert.True(t, m.Loading())
	assert.False(t, m.IsAuthenticated())
}

func TestBootstrap_NoTokenResolvesWithoutNetworkCall(t *testing.T) {
	gw := &fakeGateway{}
	m, _, _ := newTestManager(gw)

	require.NoError(t, m.Bootstrap(context.Background()))

	assert.Equal(t, StateUnauthenticated, m.State())
	assert.False(t, m.Loading())
	assert.Zero(t, gw.currentUserCalls, "no /auth/me call without a stored token")
}

func TestBootstrap_ValidTokenRestoresSession(t *testing.T) {
	gw := &fakeGateway{user: testUser()}
	m, store, _ := newTestManager(gw)
	require.NoError(t, store.SetTokens(context.Background(), "stored", "refresh"))

	require.NoError(t, m.Bootstrap(context.Background()))

	assert.Equal(t, StateAuthenticated, m.State())
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "a@b.test", m.User().Email)
	assert.Equal(t, 1, gw.currentUserCalls)
}

func TestBootstrap_RejectedTokenClearsCredentials(t *testing.T) {
	gw := &fakeGateway{userErr: &api.APIError{Status: http.StatusUnauthorized, Detail: "Token expired"}}
	m, store, _ := newTestManager(gw)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "stale", "refresh"))

	require.NoError(t, m.Bootstrap(ctx))

	assert.Equal(t, StateUnauthenticated, m.State())
	access, err := store.AccessToken(ctx)
	require.NoError(t, err)
	refresh, err := store.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestLogin_Success(t *testing.T) {
	gw := &fakeGateway{
		loginResp: &api.AuthResponse{AccessToken: "acc", RefreshToken: "ref", TokenType: "bearer"},
		user:      testUser(),
	}
	m, store, rec := newTestManager(gw)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "a@b.test", "secret123"))

	assert.True(t, m.IsAuthenticated())
	access, err := store.AccessToken(ctx)
	require.NoError(t, err)
	refresh, err := store.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc", access)
	assert.Equal(t, "ref", refresh)
	assert.Contains(t, rec.Successes(), "Login successful!")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	gw := &fakeGateway{
		loginErr: &api.APIError{Status: http.StatusUnauthorized, Detail: "Incorrect email or password"},
	}
	m, store, rec := newTestManager(gw)
	ctx := context.Background()

	err := m.Login(ctx, "a@b.test", "wrong")
	require.Error(t, err)

	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.User())
	access, readErr := store.AccessToken(ctx)
	require.NoError(t, readErr)
	assert.Empty(t, access, "no tokens persisted on failed login")
	assert.Contains(t, rec.Errors(), "Incorrect email or password")
}

func TestLogin_UserFetchFailureLeavesNoPartialState(t *testing.T) {
	gw := &fakeGateway{
		loginResp: &api.AuthResponse{AccessToken: "acc", RefreshToken: "ref"},
		userErr:   &api.APIError{Status: http.StatusInternalServerError},
	}
	m, store, _ := newTestManager(gw)
	ctx := context.Background()

	err := m.Login(ctx, "a@b.test", "secret123")
	require.Error(t, err)

	assert.False(t, m.IsAuthenticated())
	access, readErr := store.AccessToken(ctx)
	require.NoError(t, readErr)
	assert.Empty(t, access, "token pair without an identity must not survive")
}

func TestSignup_DoesNotAuthenticate(t *testing.T) {
	gw := &fakeGateway{
		signupResp: &api.StatusResponse{Message: "Account created. Please verify your email.", Success: true},
	}
	m, store, rec := newTestManager(gw)
	ctx := context.Background()

	require.NoError(t, m.Signup(ctx, "a@b.test", "secret123", "Ada Test"))

	assert.False(t, m.IsAuthenticated())
	access, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
	assert.Contains(t, rec.Successes(), "Account created. Please verify your email.")
}

func TestLogout_ClearsEverythingUnconditionally(t *testing.T) {
	gw := &fakeGateway{
		loginResp: &api.AuthResponse{AccessToken: "acc", RefreshToken: "ref"},
		user:      testUser(),
	}
	m, store, _ := newTestManager(gw)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "a@b.test", "secret123"))

	m.Logout(ctx)

	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.User())
	access, err := store.AccessToken(ctx)
	require.NoError(t, err)
	refresh, err := store.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
	assert.Empty(t, refresh)

	// Logging out while already logged out is fine
	m.Logout(ctx)
	assert.False(t, m.IsAuthenticated())
}

func TestSubscribe_SeesTransitions(t *testing.T) {
	gw := &fakeGateway{
		loginResp: &api.AuthResponse{AccessToken: "acc", RefreshToken: "ref"},
		user:      testUser(),
	}
	m, _, _ := newTestManager(gw)
	ctx := context.Background()

	var transitions []State
	m.Subscribe(func(s State) { transitions = append(transitions, s) })

	require.NoError(t, m.Bootstrap(ctx)) // no token: Unknown -> Unauthenticated
	require.NoError(t, m.Login(ctx, "a@b.test", "secret123"))
	m.Logout(ctx)

	assert.Equal(t, []State{StateUnauthenticated, StateAuthenticated, StateUnauthenticated}, transitions)
}

func TestHandleAuthExpired_DropsUser(t *testing.T) {
	gw := &fakeGateway{
		loginResp: &api.AuthResponse{AccessToken: "acc", RefreshToken: "ref"},
		user:      testUser(),
	}
	m, _, rec := newTestManager(gw)
	require.NoError(t, m.Login(context.Background(), "a@b.test", "secret123"))

	m.HandleAuthExpired()

	assert.False(t, m.IsAuthenticated())
	assert.Contains(t, rec.Errors(), "Session expired, please log in again")
}
