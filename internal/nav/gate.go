package nav

import "github.com/bindvalue/bindvalue/internal/session"

// DashboardGate guards the dashboard. It redirects to the auth entry once
// per transition to Anonymous and never redirects an authenticated user.
type DashboardGate struct {
	nav Navigator
	t   transitions
}

// NewDashboardGate returns a gate that navigates through n.
func NewDashboardGate(n Navigator) *DashboardGate {
	return &DashboardGate{nav: n}
}

// Observe feeds the gate one state observation.
func (g *DashboardGate) Observe(st session.State) {
	if g.t.observe(st) && st.Is(session.StatusAnonymous) {
		g.nav.Navigate(AuthEntry)
	}
}

// Attach subscribes the gate to s. The returned function detaches it.
func (g *DashboardGate) Attach(s *session.Store) func() {
	return s.Subscribe(g.Observe)
}

// View reports what to render for the last observed state.
func (g *DashboardGate) View() View {
	return session.Match(g.t.current(),
		func() View { return ViewPlaceholder },
		func(session.User) View { return ViewDashboard },
		func() View { return ViewNone },
	)
}

// User returns the signed-in user when the gate shows the dashboard.
func (g *DashboardGate) User() (session.User, bool) {
	return g.t.current().User()
}

// AuthEntryGate guards the sign-in and sign-up page. Once the session
// becomes authenticated, including arriving already signed in, it sends the
// user to the dashboard exactly once.
type AuthEntryGate struct {
	nav Navigator
	t   transitions
}

// NewAuthEntryGate returns a gate that navigates through n.
func NewAuthEntryGate(n Navigator) *AuthEntryGate {
	return &AuthEntryGate{nav: n}
}

// Observe feeds the gate one state observation.
func (g *AuthEntryGate) Observe(st session.State) {
	if g.t.observe(st) && st.Is(session.StatusAuthenticated) {
		g.nav.Navigate(Dashboard)
	}
}

// Attach subscribes the gate to s. The returned function detaches it.
func (g *AuthEntryGate) Attach(s *session.Store) func() {
	return s.Subscribe(g.Observe)
}

// View reports what to render for the last observed state.
func (g *AuthEntryGate) View() View {
	return session.Match(g.t.current(),
		func() View { return ViewPlaceholder },
		func(session.User) View { return ViewNone },
		func() View { return ViewForms },
	)
}
