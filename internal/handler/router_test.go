package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/bindvalue/bindvalue/internal/auth"
	"github.com/bindvalue/bindvalue/internal/logging"
	"github.com/bindvalue/bindvalue/internal/store"
	"github.com/bindvalue/bindvalue/internal/testutil"
)

type captureMailer struct {
	link string
}

func (m *captureMailer) SendConfirmation(_ context.Context, _, _, link string) error {
	m.link = link
	return nil
}

type routerTestEnv struct {
	srv    *httptest.Server
	client *http.Client
	users  *store.UserStore
	mailer *captureMailer
}

// newRouterTestEnv serves the full router over an in-memory SQLite database
// with email confirmation enabled. The client keeps cookies and does not
// follow redirects.
func newRouterTestEnv(t *testing.T) *routerTestEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	sm := scs.New()
	users := store.NewUserStore(db)
	mailer := &captureMailer{}
	logger := logging.Discard()

	provider := auth.NewLocalProvider(sm, users, auth.ProviderOptions{
		Tokens:  auth.NewConfirmationTokens([]byte("0123456789abcdef0123456789abcdef"), time.Hour),
		Mailer:  mailer,
		BaseURL: "http://bindvalue.test",
		Logger:  logger,
	})

	router := NewRouter(Deps{
		SessionManager: sm,
		Provider:       provider,
		AuthMiddleware: auth.NewMiddleware(provider, logger),
		RateLimiter:    auth.NewRateLimiter(1000, 1000),
		Logger:         logger,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &routerTestEnv{srv: srv, client: client, users: users, mailer: mailer}
}

func (e *routerTestEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (e *routerTestEnv) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func assertRedirect(t *testing.T, resp *http.Response, status int, location string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d", resp.StatusCode, status)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

// signUpConfirmAndSignIn registers a@b.com, follows the emailed link and
// signs in.
func (e *routerTestEnv) signUpConfirmAndSignIn(t *testing.T) {
	t.Helper()
	resp, _ := e.post(t, "/auth/signup", url.Values{
		"full_name":        {"Ana Souza"},
		"email":            {"a@b.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	assertRedirect(t, resp, http.StatusSeeOther, "/auth")

	_, body := e.get(t, "/auth")
	if !strings.Contains(body, "Verifique seu email") {
		t.Errorf("sign-up notice missing")
	}

	link, err := url.Parse(e.mailer.link)
	if err != nil || link.Query().Get("token") == "" {
		t.Fatalf("bad confirmation link %q", e.mailer.link)
	}
	resp, _ = e.get(t, "/auth/confirm?"+link.RawQuery)
	assertRedirect(t, resp, http.StatusSeeOther, "/auth")

	resp, _ = e.post(t, "/auth/signin", url.Values{"email": {"a@b.com"}, "password": {"secret1"}})
	assertRedirect(t, resp, http.StatusSeeOther, "/dashboard")
}

func TestAnonymousDashboardRedirectsToAuth(t *testing.T) {
	e := newRouterTestEnv(t)
	resp, _ := e.get(t, "/dashboard")
	assertRedirect(t, resp, http.StatusFound, "/auth")
}

func TestAnonymousAuthShowsForms(t *testing.T) {
	e := newRouterTestEnv(t)

	resp, body := e.get(t, "/auth")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	for _, want := range []string{
		`action="/auth/signin"`,
		`action="/auth/signup"`,
		`data-busy-label="Entrando..."`,
		`data-busy-label="Cadastrando..."`,
		`data-panel="signin">`,
		`data-panel="signup" hidden>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("auth page missing %s", want)
		}
	}

	_, body = e.get(t, "/auth?tab=signup")
	for _, want := range []string{`data-panel="signin" hidden>`, `data-panel="signup">`} {
		if !strings.Contains(body, want) {
			t.Errorf("signup tab missing %s", want)
		}
	}
}

func TestSignUpRedirectsToSignIn(t *testing.T) {
	e := newRouterTestEnv(t)
	form := url.Values{
		"full_name":        {"Ana Souza"},
		"email":            {"a@b.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	}

	resp, _ := e.post(t, "/auth/signup", form)
	assertRedirect(t, resp, http.StatusSeeOther, "/auth")

	resp, body := e.get(t, "/auth")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Verifique seu email") {
		t.Error("sign-up notice missing")
	}
	if !strings.Contains(body, `value="a@b.com"`) {
		t.Error("registered email not prefilled")
	}

	// Reloading the sign-in page does not repeat the notice or the email.
	_, body = e.get(t, "/auth")
	if strings.Contains(body, "Verifique seu email") || strings.Contains(body, `value="a@b.com"`) {
		t.Error("one-shot sign-up state shown twice")
	}
}

func TestSignUpPasswordMismatchCreatesNoUser(t *testing.T) {
	e := newRouterTestEnv(t)

	resp, body := e.post(t, "/auth/signup", url.Values{
		"full_name":        {"Ana"},
		"email":            {"a@b.com"},
		"password":         {"abc"},
		"confirm_password": {"xyz"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if !strings.Contains(body, "As senhas não coincidem.") {
		t.Error("mismatch message missing")
	}
	if !strings.Contains(body, `value="abc"`) || !strings.Contains(body, `value="xyz"`) {
		t.Error("entered values not kept")
	}

	n, err := e.users.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("users = %d, want 0", n)
	}
	if e.mailer.link != "" {
		t.Error("confirmation mail sent for a rejected sign-up")
	}
}

func TestSignInWrongPassword(t *testing.T) {
	e := newRouterTestEnv(t)
	e.signUpConfirmAndSignIn(t)
	e.post(t, "/auth/signout", nil)

	resp, body := e.post(t, "/auth/signin", url.Values{"email": {"a@b.com"}, "password": {"nope"}})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if !strings.Contains(body, "Email ou senha inválidos.") {
		t.Error("provider error not shown")
	}
	if !strings.Contains(body, `value="a@b.com"`) {
		t.Error("email not kept")
	}
}

func TestSignInFlow(t *testing.T) {
	e := newRouterTestEnv(t)
	e.signUpConfirmAndSignIn(t)

	resp, body := e.get(t, "/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Ana Souza") || !strings.Contains(body, "Plano Free") {
		t.Error("dashboard does not show the account")
	}

	// The auth entry forwards a signed-in user.
	resp, _ = e.get(t, "/auth")
	assertRedirect(t, resp, http.StatusSeeOther, "/dashboard")

	// The landing page stays, with dashboard and sign-out actions.
	resp, body = e.get(t, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("landing status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Sair") || strings.Contains(body, `href="/start"`) {
		t.Error("navbar does not reflect the signed-in state")
	}
}

func TestStartFollowsSessionState(t *testing.T) {
	e := newRouterTestEnv(t)

	resp, _ := e.get(t, "/start")
	assertRedirect(t, resp, http.StatusFound, "/auth")

	e.signUpConfirmAndSignIn(t)
	resp, _ = e.get(t, "/start")
	assertRedirect(t, resp, http.StatusFound, "/dashboard")
}

func TestSignOut(t *testing.T) {
	e := newRouterTestEnv(t)
	e.signUpConfirmAndSignIn(t)

	resp, _ := e.post(t, "/auth/signout", nil)
	assertRedirect(t, resp, http.StatusSeeOther, "/")

	resp, _ = e.get(t, "/dashboard")
	assertRedirect(t, resp, http.StatusFound, "/auth")
}

func TestSessionAPI(t *testing.T) {
	e := newRouterTestEnv(t)

	var got SessionResponse
	resp, body := e.get(t, "/api/session")
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	if got.Status != "anonymous" || got.User != nil {
		t.Errorf("anonymous session = %+v", got)
	}
	if resp.Header.Get("Cache-Control") != "no-store" {
		t.Error("session response is cacheable")
	}

	e.signUpConfirmAndSignIn(t)
	_, body = e.get(t, "/api/session")
	got = SessionResponse{}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	if got.Status != "authenticated" || got.User == nil || got.User.Email != "a@b.com" {
		t.Errorf("authenticated session = %+v", got)
	}
}

func TestLandingPage(t *testing.T) {
	e := newRouterTestEnv(t)
	resp, body := e.get(t, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{`href="/start"`, "Professional", "R$ 149", `id="features"`, `id="pricing"`} {
		if !strings.Contains(body, want) {
			t.Errorf("landing page missing %q", want)
		}
	}
}

func TestHealthAndStatic(t *testing.T) {
	e := newRouterTestEnv(t)

	resp, body := e.get(t, "/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
	resp, _ = e.get(t, "/static/js/app.js")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("static status = %d", resp.StatusCode)
	}
}

func TestAPIDocs(t *testing.T) {
	e := newRouterTestEnv(t)

	resp, body := e.get(t, "/api/docs/doc.json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("doc.json status = %d", resp.StatusCode)
	}
	var doc struct {
		Info  struct{ Title string }
		Paths map[string]json.RawMessage
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("decode doc.json: %v", err)
	}
	if doc.Info.Title != "BindValue API" {
		t.Errorf("title = %q", doc.Info.Title)
	}
	for _, path := range []string{"/api/session", "/healthz"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("doc.json does not describe %s", path)
		}
	}

	resp, _ = e.get(t, "/api/docs/index.html")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("swagger UI status = %d", resp.StatusCode)
	}
}
