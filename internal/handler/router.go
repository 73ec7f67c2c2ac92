package handler

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/bindvalue/bindvalue/docs/swagger"
	"github.com/bindvalue/bindvalue/internal/auth"
	"github.com/bindvalue/bindvalue/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	Provider       Provider
	AuthMiddleware *auth.Middleware
	RateLimiter    *auth.RateLimiter
	SSOHandlers    *auth.SSOHandlers // nil when single sign-on is not configured
	Logger         *slog.Logger
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Static assets (embedded). Use fs.Sub so the file server sees
	// css/app.css and js/app.js directly, not static/css/... paths.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.FS(staticSub))))

	r.Get("/healthz", Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	landing := NewLandingHandler(deps.SessionManager)
	dashboard := NewDashboardHandler(deps.SessionManager)
	authPages := NewAuthHandler(deps.Provider, deps.SessionManager, deps.SSOHandlers != nil, deps.Logger)

	// Everything below reads or changes the session.
	r.Group(func(r chi.Router) {
		r.Use(deps.SessionManager.LoadAndSave)

		// Confirmation and SSO change the session outside the resolved
		// request state, so they run before Resolve.
		r.Get("/auth/confirm", authPages.Confirm)
		if deps.SSOHandlers != nil {
			r.Get("/auth/sso/login", deps.SSOHandlers.Login)
			r.Get("/auth/sso/callback", deps.SSOHandlers.Callback)
		}

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.Resolve)

			r.Get("/", landing.Index)
			r.Get("/start", Start)
			r.Get("/auth", authPages.Show)
			r.Get("/dashboard", dashboard.Show)
			r.Get("/api/session", SessionInfo)

			r.Group(func(r chi.Router) {
				r.Use(deps.RateLimiter.Limit)
				r.Post("/auth/signin", authPages.SignIn)
				r.Post("/auth/signup", authPages.SignUp)
			})
			r.Post("/auth/signout", authPages.SignOut)
		})
	})

	return r
}
