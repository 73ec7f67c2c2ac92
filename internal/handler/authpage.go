package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/bindvalue/bindvalue/internal/auth"
	"github.com/bindvalue/bindvalue/internal/authform"
	"github.com/bindvalue/bindvalue/internal/logging"
	"github.com/bindvalue/bindvalue/internal/nav"
	"github.com/bindvalue/bindvalue/internal/session"
)

const (
	tabSignIn = "signin"
	tabSignUp = "signup"

	sessionPrefillEmailKey = "signin_email"
)

// Provider is the session provider plus email confirmation.
type Provider interface {
	session.Provider
	Confirm(ctx context.Context, token string) error
}

// AuthPage is the template data for the sign-in / sign-up page.
type AuthPage struct {
	BasePage
	Tab             string
	SignIn          authform.SignInFields
	SignUp          authform.SignUpFields
	SignInLabel     string
	SignInBusyLabel string
	SignUpLabel     string
	SignUpBusyLabel string
	Error           string
	SSOEnabled      bool
}

// AuthHandler serves the authentication entry point and its forms.
type AuthHandler struct {
	provider   Provider
	sessions   *scs.SessionManager
	ssoEnabled bool
	log        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(p Provider, sm *scs.SessionManager, ssoEnabled bool, l *slog.Logger) *AuthHandler {
	return &AuthHandler{provider: p, sessions: sm, ssoEnabled: ssoEnabled, log: l}
}

// gate runs the auth entry gate for this request. It returns false when
// the visitor was redirected (already signed in) or only the placeholder
// could be shown.
func (h *AuthHandler) gate(w http.ResponseWriter, r *http.Request) bool {
	gate := nav.NewAuthEntryGate(newRedirector(w, r, http.StatusSeeOther))
	detach := gate.Attach(auth.StoreFromContext(r.Context()))
	defer detach()

	switch gate.View() {
	case nav.ViewForms:
		return true
	case nav.ViewPlaceholder:
		w.Header().Set("Cache-Control", "no-store")
		render(w, "loading.html", LoadingPage{
			BasePage:   newBasePage(r, nil, "Carregando..."),
			RetryAfter: 2,
		})
	}
	return false
}

// Show serves GET /auth.
func (h *AuthHandler) Show(w http.ResponseWriter, r *http.Request) {
	if !h.gate(w, r) {
		return
	}
	tab := tabSignIn
	if r.URL.Query().Get("tab") == tabSignUp {
		tab = tabSignUp
	}
	in := authform.SignInFields{Email: h.sessions.PopString(r.Context(), sessionPrefillEmailKey)}
	h.renderPage(w, r, http.StatusOK, tab, in, authform.SignUpFields{}, "")
}

// SignIn serves POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if !h.gate(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	fields := authform.SignInFields{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	form := authform.New(h.provider, newRedirector(w, r, http.StatusSeeOther))
	if err := form.SignIn(r.Context(), fields); err != nil {
		h.logFormError(r, "signin", err)
		h.renderPage(w, r, http.StatusUnprocessableEntity, tabSignIn, fields, authform.SignUpFields{}, authform.Message(err))
	}
}

// SignUp serves POST /auth/signup. Success redirects to the sign-in tab,
// where the provider's notice and the registered email are shown; it never
// signs the user in.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if !h.gate(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	fields := authform.SignUpFields{
		FullName:        r.PostFormValue("full_name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	form := authform.New(h.provider, newRedirector(w, r, http.StatusSeeOther))
	if err := form.SignUp(r.Context(), fields); err != nil {
		h.logFormError(r, "signup", err)
		h.renderPage(w, r, http.StatusUnprocessableEntity, tabSignUp, authform.SignInFields{}, fields, authform.Message(err))
		return
	}
	h.sessions.Put(r.Context(), sessionPrefillEmailKey, fields.Email)
	http.Redirect(w, r, routePath(nav.AuthEntry), http.StatusSeeOther)
}

// SignOut serves POST /auth/signout.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := nav.SignOut(r.Context(), h.provider, newRedirector(w, r, http.StatusSeeOther)); err != nil {
		h.log.ErrorContext(r.Context(), "sign out", logging.Err(err))
	}
}

// Confirm serves GET /auth/confirm?token=...
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.Confirm(r.Context(), r.URL.Query().Get("token")); err != nil {
		h.log.InfoContext(r.Context(), "email confirmation rejected", logging.Err(err))
	}
	http.Redirect(w, r, routePath(nav.AuthEntry), http.StatusSeeOther)
}

func (h *AuthHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, tab string, in authform.SignInFields, up authform.SignUpFields, errMsg string) {
	// Entered values, passwords included, are echoed back into the forms.
	w.Header().Set("Cache-Control", "no-store")
	renderStatus(w, status, "auth.html", AuthPage{
		BasePage:        newBasePage(r, h.sessions, "Entrar | BindValue"),
		Tab:             tab,
		SignIn:          in,
		SignUp:          up,
		SignInLabel:     authform.SignInLabel(false),
		SignInBusyLabel: authform.SignInLabel(true),
		SignUpLabel:     authform.SignUpLabel(false),
		SignUpBusyLabel: authform.SignUpLabel(true),
		Error:           errMsg,
		SSOEnabled:      h.ssoEnabled,
	})
}

func (h *AuthHandler) logFormError(r *http.Request, op string, err error) {
	h.log.InfoContext(r.Context(), "form rejected", slog.String("op", op), logging.Err(err))
}
