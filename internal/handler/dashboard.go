package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/bindvalue/bindvalue/internal/auth"
	"github.com/bindvalue/bindvalue/internal/catalog"
	"github.com/bindvalue/bindvalue/internal/nav"
	"github.com/bindvalue/bindvalue/internal/session"
)

// DashboardPage is the template data for the dashboard view.
type DashboardPage struct {
	BasePage
	Account   session.User
	PlanLabel string
	Stats     []catalog.Stat
}

// LoadingPage is the template data for the session-check placeholder.
type LoadingPage struct {
	BasePage
	RetryAfter int // seconds
}

// DashboardHandler serves the authenticated dashboard.
type DashboardHandler struct {
	sessions *scs.SessionManager
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(sm *scs.SessionManager) *DashboardHandler {
	return &DashboardHandler{sessions: sm}
}

// Show serves GET /dashboard. An anonymous visitor is redirected to the
// auth entry; a request whose session check did not finish gets the
// placeholder, which retries on its own.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	gate := nav.NewDashboardGate(newRedirector(w, r, http.StatusFound))
	detach := gate.Attach(auth.StoreFromContext(r.Context()))
	defer detach()

	switch gate.View() {
	case nav.ViewPlaceholder:
		w.Header().Set("Cache-Control", "no-store")
		render(w, "loading.html", LoadingPage{
			BasePage:   newBasePage(r, nil, "Carregando..."),
			RetryAfter: 2,
		})
	case nav.ViewDashboard:
		u, _ := gate.User()
		w.Header().Set("Cache-Control", "no-store")
		render(w, "dashboard.html", DashboardPage{
			BasePage:  newBasePage(r, h.sessions, "Dashboard | BindValue"),
			Account:   u,
			PlanLabel: catalog.DefaultPlanLabel,
			Stats:     catalog.DashboardStats(),
		})
	case nav.ViewNone:
		// redirected by the gate
	}
}
