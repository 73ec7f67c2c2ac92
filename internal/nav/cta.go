package nav

import "github.com/bindvalue/bindvalue/internal/session"

// CallToAction is the navbar's primary button. The destination is chosen
// from the live state when Click runs, not when the button was rendered.
type CallToAction struct {
	src session.Source
	nav Navigator
}

// NewCallToAction returns a call-to-action reading state from src.
func NewCallToAction(src session.Source, n Navigator) *CallToAction {
	return &CallToAction{src: src, nav: n}
}

// Click navigates to the dashboard for a signed-in user and to the auth
// entry otherwise. A click during Loading goes to the auth entry, whose own
// gate forwards an authenticated user on once the check settles.
func (c *CallToAction) Click() Route {
	r := Target(c.src.Current())
	c.nav.Navigate(r)
	return r
}

// Target is the call-to-action destination for st.
func Target(st session.State) Route {
	return session.Match(st,
		func() Route { return AuthEntry },
		func(session.User) Route { return Dashboard },
		func() Route { return AuthEntry },
	)
}
