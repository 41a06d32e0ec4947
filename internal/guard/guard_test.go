// ABOUTME: Tests for the route guard
// ABOUTME: Covers rule evaluation across all auth states including the pending case

package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/2389/solace-client/internal/api"
	"github.com/2389/solace-client/internal/session"
)

// fakeState stubs the session manager's readable surface.
type fakeState struct {
	state session.State
	user  *api.User
}

func (f *fakeState) State() session.State { return f.state }
func (f *fakeState) User() *api.User      { return f.user }

func TestCheck_UnknownStateIsPendingForProtectedViews(t *testing.T) {
	g := New(&fakeState{state: session.StateUnknown})

	for _, rule := range []Rule{RequireAuth, RequireAdmin, RequireAnon} {
		verdict := g.Check(rule)
		assert.Equal(t, Pending, verdict.Decision, "rule %d must wait for bootstrap", rule)
	}
}

func TestCheck_PublicAlwaysAllowed(t *testing.T) {
	for _, state := range []session.State{session.StateUnknown, session.StateAuthenticated, session.StateUnauthenticated} {
		g := New(&fakeState{state: state})
		assert.Equal(t, Allow, g.Check(Public).Decision)
	}
}

func TestCheck_RequireAuth(t *testing.T) {
	tests := []struct {
		name     string
		state    *fakeState
		decision Decision
		redirect string
	}{
		{"authenticated", &fakeState{state: session.StateAuthenticated, user: &api.User{ID: "u1"}}, Allow, ""},
		{"unauthenticated", &fakeState{state: session.StateUnauthenticated}, Deny, RedirectLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := New(tt.state).Check(RequireAuth)
			assert.Equal(t, tt.decision, verdict.Decision)
			assert.Equal(t, tt.redirect, verdict.Redirect)
		})
	}
}

func TestCheck_RequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		state    *fakeState
		decision Decision
		redirect string
	}{
		{"admin", &fakeState{state: session.StateAuthenticated, user: &api.User{IsAdmin: true}}, Allow, ""},
		{"non-admin", &fakeState{state: session.StateAuthenticated, user: &api.User{}}, Deny, RedirectDashboard},
		{"unauthenticated", &fakeState{state: session.StateUnauthenticated}, Deny, RedirectLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := New(tt.state).Check(RequireAdmin)
			assert.Equal(t, tt.decision, verdict.Decision)
			assert.Equal(t, tt.redirect, verdict.Redirect)
		})
	}
}

func TestCheck_RequireAnon(t *testing.T) {
	authed := New(&fakeState{state: session.StateAuthenticated, user: &api.User{}})
	verdict := authed.Check(RequireAnon)
	assert.Equal(t, Deny, verdict.Decision)
	assert.Equal(t, RedirectDashboard, verdict.Redirect)

	anon := New(&fakeState{state: session.StateUnauthenticated})
	assert.Equal(t, Allow, anon.Check(RequireAnon).Decision)
}
