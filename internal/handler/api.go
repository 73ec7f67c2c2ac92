package handler

import (
	"net/http"

	chirender "github.com/go-chi/render"

	"github.com/bindvalue/bindvalue/internal/auth"
	"github.com/bindvalue/bindvalue/internal/build"
	"github.com/bindvalue/bindvalue/internal/session"
)

// SessionResponse is the JSON body of GET /api/session.
type SessionResponse struct {
	Status string        `json:"status" example:"authenticated" enums:"loading,authenticated,anonymous"`
	User   *session.User `json:"user,omitempty"`
}

// HealthResponse is the JSON body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"dev"`
}

// SessionInfo serves the current-session query as JSON.
//
// @Summary      Current session
// @Description  Reports whether the caller's session cookie belongs to a signed-in user.
// @Tags         session
// @Produce      json
// @Success      200  {object}  SessionResponse
// @Router       /api/session [get]
func SessionInfo(w http.ResponseWriter, r *http.Request) {
	st := auth.StateFromContext(r.Context())
	resp := SessionResponse{Status: st.Status().String()}
	if u, ok := st.User(); ok {
		resp.User = &u
	}
	w.Header().Set("Cache-Control", "no-store")
	chirender.JSON(w, r, resp)
}

// Health serves GET /healthz.
//
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /healthz [get]
func Health(w http.ResponseWriter, r *http.Request) {
	chirender.JSON(w, r, HealthResponse{Status: "ok", Version: build.Version})
}
