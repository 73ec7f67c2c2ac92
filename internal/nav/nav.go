// Package nav decides where a session-aware page sends the user. Decisions
// are reactions to session state transitions, never side effects of
// rendering, so re-rendering with an unchanged state cannot redirect again.
package nav

import (
	"context"
	"sync"

	"github.com/bindvalue/bindvalue/internal/session"
)

// Route is an opaque navigation destination.
type Route uint8

const (
	Landing Route = iota + 1
	AuthEntry
	Dashboard
)

func (r Route) String() string {
	switch r {
	case Landing:
		return "landing"
	case AuthEntry:
		return "auth"
	case Dashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// Navigator performs a navigation.
type Navigator interface {
	Navigate(Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

// Navigate calls f(r).
func (f NavigatorFunc) Navigate(r Route) { f(r) }

// View is what a gated page should show for the state it last observed.
type View uint8

const (
	// ViewNone renders nothing; a redirect has been issued or is pending.
	ViewNone View = iota
	// ViewPlaceholder is the non-interactive loading placeholder.
	ViewPlaceholder
	// ViewDashboard is the authenticated dashboard content.
	ViewDashboard
	// ViewForms is the sign-in and sign-up forms.
	ViewForms
)

func (v View) String() string {
	switch v {
	case ViewPlaceholder:
		return "placeholder"
	case ViewDashboard:
		return "dashboard"
	case ViewForms:
		return "forms"
	default:
		return "none"
	}
}

// transitions remembers the last settled status and reports changes.
// Loading observations neither count as a change nor reset what was last
// settled, so Anonymous -> Loading -> Anonymous is not a new transition.
type transitions struct {
	mu      sync.Mutex
	settled session.Status
	state   session.State
}

// observe records st and returns true when it settles on a different status
// than the last settled one.
func (t *transitions) observe(st session.State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = st
	status := st.Status()
	if !status.Settled() || status == t.settled {
		return false
	}
	t.settled = status
	return true
}

func (t *transitions) current() session.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SignOut asks the provider to end the session, then navigates to the
// landing page whether or not the provider reported an error.
func SignOut(ctx context.Context, p session.Provider, n Navigator) error {
	err := p.SignOut(ctx)
	n.Navigate(Landing)
	return err
}
