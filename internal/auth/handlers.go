package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bindvalue/bindvalue/internal/logging"
)

const (
	cookieState        = "__sso_state"
	cookieCodeVerifier = "__sso_pkce"
)

// SSOHandlers provides HTTP handlers for the OIDC single sign-on flow.
type SSOHandlers struct {
	oidc    *OIDCProvider
	local   *LocalProvider
	secure  bool
	log     *slog.Logger
	success string
	failure string
}

// NewSSOHandlers creates SSO handlers that bind authenticated identities to
// local sessions. Success redirects to successPath, failures to failurePath.
func NewSSOHandlers(op *OIDCProvider, lp *LocalProvider, secure bool, l *slog.Logger, successPath, failurePath string) *SSOHandlers {
	return &SSOHandlers{oidc: op, local: lp, secure: secure, log: l, success: successPath, failure: failurePath}
}

// Login initiates the OIDC authorization code flow with PKCE.
func (h *SSOHandlers) Login(w http.ResponseWriter, r *http.Request) {
	state, err := GenerateState()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	verifier, challenge, err := GeneratePKCE()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// State and verifier live in short-lived cookies until the callback.
	h.setPreAuthCookie(w, cookieState, state)
	h.setPreAuthCookie(w, cookieCodeVerifier, verifier)

	http.Redirect(w, r, h.oidc.AuthCodeURL(state, challenge), http.StatusFound)
}

// Callback handles the OIDC provider redirect after authentication.
func (h *SSOHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(cookieState)
	if err != nil || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	verifierCookie, err := r.Cookie(cookieCodeVerifier)
	if err != nil {
		http.Error(w, "missing code verifier", http.StatusBadRequest)
		return
	}

	clearCookie(w, cookieState)
	clearCookie(w, cookieCodeVerifier)

	id, err := h.oidc.Exchange(r.Context(), r.URL.Query().Get("code"), verifierCookie.Value)
	if err != nil {
		h.log.WarnContext(r.Context(), "sso exchange", logging.Err(err))
		PutFlash(h.local.sessions, r.Context(), "error", "Não foi possível entrar com SSO.")
		http.Redirect(w, r, h.failure, http.StatusSeeOther)
		return
	}

	if err := h.local.SignInExternal(r.Context(), id.Email, id.Name); err != nil {
		http.Redirect(w, r, h.failure, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, h.success, http.StatusSeeOther)
}

func (h *SSOHandlers) setPreAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   300, // 5 minutes
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}
