// ABOUTME: Route guard deciding access to protected views from session state
// ABOUTME: Never redirects while the initial auth check is unresolved

package guard

import (
	"github.com/2389/solace-client/internal/api"
	"github.com/2389/solace-client/internal/session"
)

// Rule states what a view requires of the visitor.
type Rule int

const (
	// Public views are reachable by anyone.
	Public Rule = iota
	// RequireAuth views need an authenticated user.
	RequireAuth
	// RequireAdmin views need an authenticated admin user.
	RequireAdmin
	// RequireAnon views (login, signup) are only for unauthenticated
	// visitors; authenticated ones are sent to their dashboard.
	RequireAnon
)

// Decision is the guard's answer for a navigation attempt.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// Deny blocks it; Verdict.Redirect names where to go instead.
	Deny
	// Pending means the auth state is still Unknown. The caller must
	// wait (show a loading view), not redirect.
	Pending
)

// Redirect targets used in verdicts.
const (
	RedirectLogin     = "/login"
	RedirectDashboard = "/dashboard"
)

// Verdict pairs a Decision with the redirect target for denials.
type Verdict struct {
	Decision Decision
	Redirect string
}

// SessionState is what the guard reads; satisfied by *session.Manager.
type SessionState interface {
	State() session.State
	User() *api.User
}

// Guard evaluates navigation rules against the current session state.
type Guard struct {
	sessions SessionState
}

// New creates a Guard reading from sessions.
func New(sessions SessionState) *Guard {
	return &Guard{sessions: sessions}
}

// Check evaluates rule against the current session state.
func (g *Guard) Check(rule Rule) Verdict {
	state := g.sessions.State()

	if rule == Public {
		return Verdict{Decision: Allow}
	}
	if state == session.StateUnknown {
		return Verdict{Decision: Pending}
	}

	authed := state == session.StateAuthenticated

	switch rule {
	case RequireAnon:
		if authed {
			return Verdict{Decision: Deny, Redirect: RedirectDashboard}
		}
		return Verdict{Decision: Allow}

	case RequireAuth:
		if !authed {
			return Verdict{Decision: Deny, Redirect: RedirectLogin}
		}
		return Verdict{Decision: Allow}

	case RequireAdmin:
		if !authed {
			return Verdict{Decision: Deny, Redirect: RedirectLogin}
		}
		user := g.sessions.User()
		if user == nil || !user.IsAdmin {
			return Verdict{Decision: Deny, Redirect: RedirectDashboard}
		}
		return Verdict{Decision: Allow}
	}

	return Verdict{Decision: Allow}
}
