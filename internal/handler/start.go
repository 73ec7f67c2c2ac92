package handler

import (
	"net/http"

	"github.com/bindvalue/bindvalue/internal/auth"
	"github.com/bindvalue/bindvalue/internal/nav"
)

// Start serves GET /start, the navbar call-to-action. The destination is
// decided from the session as it is when the click arrives.
func Start(w http.ResponseWriter, r *http.Request) {
	cta := nav.NewCallToAction(auth.StoreFromContext(r.Context()), newRedirector(w, r, http.StatusFound))
	cta.Click()
}
