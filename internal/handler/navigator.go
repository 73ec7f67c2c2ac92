package handler

import (
	"net/http"

	"github.com/bindvalue/bindvalue/internal/metrics"
	"github.com/bindvalue/bindvalue/internal/nav"
)

// routePath maps navigation destinations to URLs.
func routePath(r nav.Route) string {
	switch r {
	case nav.AuthEntry:
		return "/auth"
	case nav.Dashboard:
		return "/dashboard"
	default:
		return "/"
	}
}

// redirector is a nav.Navigator that answers the current request with a
// redirect. Only the first navigation is written; a response can carry
// one Location.
type redirector struct {
	w      http.ResponseWriter
	r      *http.Request
	status int
	route  nav.Route
}

func newRedirector(w http.ResponseWriter, r *http.Request, status int) *redirector {
	return &redirector{w: w, r: r, status: status}
}

func (n *redirector) Navigate(rt nav.Route) {
	if n.route != 0 {
		return
	}
	n.route = rt
	metrics.NavigationsTotal.WithLabelValues(rt.String()).Inc()
	http.Redirect(n.w, n.r, routePath(rt), n.status)
}

// Redirected reports whether a navigation has been written.
func (n *redirector) Redirected() bool { return n.route != 0 }
