package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/bindvalue/bindvalue/internal/catalog"
)

// LandingPage is the template data for the public landing page.
type LandingPage struct {
	BasePage
	Features []catalog.Feature
	Plans    []catalog.Plan
}

// LandingHandler serves the public landing page.
type LandingHandler struct {
	sessions *scs.SessionManager
}

// NewLandingHandler creates a new LandingHandler.
func NewLandingHandler(sm *scs.SessionManager) *LandingHandler {
	return &LandingHandler{sessions: sm}
}

// Index serves GET /. Signed-in visitors see the same page with the
// navbar's dashboard and sign-out actions.
func (h *LandingHandler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, "landing.html", LandingPage{
		BasePage: newBasePage(r, h.sessions, "BindValue | Automação para WhatsApp"),
		Features: catalog.Features(),
		Plans:    catalog.Plans(),
	})
}
