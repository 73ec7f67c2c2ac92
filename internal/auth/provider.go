package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/bindvalue/bindvalue/internal/logging"
	"github.com/bindvalue/bindvalue/internal/metrics"
	"github.com/bindvalue/bindvalue/internal/session"
	"github.com/bindvalue/bindvalue/internal/store"
)

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotConfirmed is returned when signing in before confirming the email.
	ErrNotConfirmed = errors.New("email not confirmed")

	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrWeakPassword is returned for passwords bcrypt cannot or should not hash.
	ErrWeakPassword = errors.New("password does not meet requirements")
)

// LocalProvider is a session.Provider backed by local accounts and
// server-side scs sessions. Every method must run inside the session
// manager's LoadAndSave middleware (or on a context from Load).
//
// Failures are reported to the user through a flash message stored in the
// session before the error is returned.
type LocalProvider struct {
	sessions *scs.SessionManager
	users    *store.UserStore
	tokens   *ConfirmationTokens // nil: accounts are confirmed on sign-up
	mailer   Mailer
	baseURL  string
	log      *slog.Logger
}

// ProviderOptions configures a LocalProvider.
type ProviderOptions struct {
	// Tokens enables email confirmation. When nil, new accounts can sign in
	// immediately.
	Tokens *ConfirmationTokens
	Mailer Mailer
	// BaseURL is the externally visible origin used in emailed links.
	BaseURL string
	Logger  *slog.Logger
}

// NewLocalProvider returns a provider storing users in us and sessions in sm.
func NewLocalProvider(sm *scs.SessionManager, us *store.UserStore, opts ProviderOptions) *LocalProvider {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Mailer == nil {
		opts.Mailer = NewLogMailer(opts.Logger)
	}
	return &LocalProvider{
		sessions: sm,
		users:    us,
		tokens:   opts.Tokens,
		mailer:   opts.Mailer,
		baseURL:  opts.BaseURL,
		log:      opts.Logger,
	}
}

var _ session.Provider = (*LocalProvider)(nil)

// Current reports the session state. A session pointing at a deleted user
// is destroyed and reported as Anonymous.
func (p *LocalProvider) Current(ctx context.Context) (session.State, error) {
	userID := p.sessions.GetString(ctx, SessionUserIDKey)
	if userID == "" {
		return session.Anonymous(), nil
	}

	u, err := p.users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		if err := p.sessions.Destroy(ctx); err != nil {
			p.log.WarnContext(ctx, "destroy dangling session", logging.Err(err))
		}
		return session.Anonymous(), nil
	}
	if err != nil {
		return session.Loading(), fmt.Errorf("load session user: %w", err)
	}
	return session.Authenticated(toSessionUser(u)), nil
}

// SignIn checks the credentials and binds the user to a fresh session token.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) error {
	u, err := p.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		burnCompare(password)
		return p.fail(ctx, "signin", ErrInvalidCredentials, "Email ou senha inválidos.")
	case err != nil:
		return p.fail(ctx, "signin", fmt.Errorf("load user: %w", err), "Não foi possível entrar. Tente novamente.")
	}

	// SSO-only accounts have no password to match.
	if u.PasswordHash == "" {
		burnCompare(password)
		return p.fail(ctx, "signin", ErrInvalidCredentials, "Email ou senha inválidos.")
	}
	if err := ComparePassword(u.PasswordHash, password); err != nil {
		return p.fail(ctx, "signin", ErrInvalidCredentials, "Email ou senha inválidos.")
	}
	if p.tokens != nil && !u.Confirmed() {
		return p.fail(ctx, "signin", ErrNotConfirmed, "Confirme seu email antes de entrar.")
	}

	if err := p.establish(ctx, u); err != nil {
		return p.fail(ctx, "signin", err, "Não foi possível entrar. Tente novamente.")
	}
	metrics.SignInsTotal.WithLabelValues("success").Inc()
	p.log.InfoContext(ctx, "signed in", slog.String("user_id", u.ID))
	return nil
}

// SignUp registers a new account. It never creates a session: when email
// confirmation is enabled the user must follow the emailed link first, and
// otherwise signs in through the normal form.
func (p *LocalProvider) SignUp(ctx context.Context, email, password, fullName string) error {
	hash, err := HashPassword(password)
	if err != nil {
		if errors.Is(err, ErrWeakPassword) {
			return p.fail(ctx, "signup", err, fmt.Sprintf("A senha deve ter entre %d e 72 caracteres.", MinPasswordLength))
		}
		return p.fail(ctx, "signup", err, "Não foi possível criar a conta. Tente novamente.")
	}

	u, err := p.users.Create(ctx, email, fullName, hash, p.tokens == nil)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return p.fail(ctx, "signup", ErrEmailTaken, "Este email já está cadastrado.")
	}
	if err != nil {
		return p.fail(ctx, "signup", err, "Não foi possível criar a conta. Tente novamente.")
	}
	metrics.SignUpsTotal.WithLabelValues("success").Inc()
	metrics.UsersTotal.Inc()
	p.log.InfoContext(ctx, "signed up", slog.String("user_id", u.ID))

	if p.tokens == nil {
		PutFlash(p.sessions, ctx, "success", "Conta criada! Você já pode entrar.")
		return nil
	}

	if err := p.sendConfirmation(ctx, u); err != nil {
		// The account exists; a failed email must not look like a failed sign-up.
		p.log.ErrorContext(ctx, "send confirmation", slog.String("user_id", u.ID), logging.Err(err))
	}
	PutFlash(p.sessions, ctx, "success", "Conta criada! Verifique seu email para confirmar o cadastro.")
	return nil
}

// SignOut destroys the server-side session.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	if err := p.sessions.Destroy(ctx); err != nil {
		metrics.SignOutsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("destroy session: %w", err)
	}
	metrics.SignOutsTotal.WithLabelValues("success").Inc()
	return nil
}

// Confirm verifies an emailed confirmation token and marks the account
// confirmed. It does not sign the user in.
func (p *LocalProvider) Confirm(ctx context.Context, token string) error {
	if p.tokens == nil {
		return ErrInvalidToken
	}
	userID, err := p.tokens.Parse(token)
	if err != nil {
		PutFlash(p.sessions, ctx, "error", "Link de confirmação inválido ou expirado.")
		return err
	}
	if err := p.users.Confirm(ctx, userID); err != nil {
		PutFlash(p.sessions, ctx, "error", "Link de confirmação inválido ou expirado.")
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	PutFlash(p.sessions, ctx, "success", "Email confirmado! Você já pode entrar.")
	return nil
}

// SignInExternal binds a user vouched for by an external identity provider
// to the session.
func (p *LocalProvider) SignInExternal(ctx context.Context, email, fullName string) error {
	u, err := p.users.UpsertExternal(ctx, email, fullName)
	if err != nil {
		return p.fail(ctx, "sso", fmt.Errorf("upsert external user: %w", err), "Não foi possível entrar com SSO.")
	}
	if err := p.establish(ctx, u); err != nil {
		return p.fail(ctx, "sso", err, "Não foi possível entrar com SSO.")
	}
	metrics.SignInsTotal.WithLabelValues("sso").Inc()
	return nil
}

func (p *LocalProvider) establish(ctx context.Context, u *store.User) error {
	// New token on privilege change prevents session fixation.
	if err := p.sessions.RenewToken(ctx); err != nil {
		return fmt.Errorf("renew session token: %w", err)
	}
	p.sessions.Put(ctx, SessionUserIDKey, u.ID)
	return nil
}

func (p *LocalProvider) sendConfirmation(ctx context.Context, u *store.User) error {
	token, err := p.tokens.Issue(u.ID)
	if err != nil {
		return err
	}
	link := p.baseURL + "/auth/confirm?token=" + url.QueryEscape(token)
	return p.mailer.SendConfirmation(ctx, u.Email, u.FullName, link)
}

// fail records the failure, flashes msg to the user and returns err.
func (p *LocalProvider) fail(ctx context.Context, op string, err error, msg string) error {
	switch op {
	case "signin", "sso":
		metrics.SignInsTotal.WithLabelValues("failure").Inc()
	case "signup":
		metrics.SignUpsTotal.WithLabelValues("failure").Inc()
	}
	p.log.InfoContext(ctx, "auth request rejected", slog.String("op", op), logging.Err(err))
	PutFlash(p.sessions, ctx, "error", msg)
	return err
}

func toSessionUser(u *store.User) session.User {
	return session.User{ID: u.ID, Email: u.Email, FullName: u.FullName}
}
