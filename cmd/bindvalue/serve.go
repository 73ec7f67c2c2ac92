package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bindvalue/bindvalue/internal/auth"
	"github.com/bindvalue/bindvalue/internal/config"
	"github.com/bindvalue/bindvalue/internal/db"
	"github.com/bindvalue/bindvalue/internal/handler"
	"github.com/bindvalue/bindvalue/internal/logging"
	"github.com/bindvalue/bindvalue/internal/metrics"
	"github.com/bindvalue/bindvalue/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			database, err := db.New(ctx, cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)
			userStore := store.NewUserStore(database)

			if n, err := userStore.Count(ctx); err == nil {
				metrics.UsersTotal.Set(float64(n))
			} else {
				logger.Warn("count users", logging.Err(err))
			}

			opts := auth.ProviderOptions{
				Mailer:  auth.NewLogMailer(logger),
				BaseURL: cfg.BaseURL,
				Logger:  logger,
			}
			if cfg.Auth.RequireConfirmation {
				opts.Tokens = auth.NewConfirmationTokens([]byte(cfg.Auth.TokenSecret), auth.DefaultConfirmationTTL)
			}
			provider := auth.NewLocalProvider(sessionManager, userStore, opts)

			var sso *auth.SSOHandlers
			if cfg.OIDCEnabled() {
				oidcProvider, err := auth.NewOIDCProvider(ctx, cfg)
				if err != nil {
					return err
				}
				sso = auth.NewSSOHandlers(oidcProvider, provider, !cfg.InsecureCookies, logger, "/dashboard", "/auth")
				logger.Info("single sign-on enabled", "issuer", cfg.OIDC.Issuer)
			}

			router := handler.NewRouter(handler.Deps{
				SessionManager: sessionManager,
				Provider:       provider,
				AuthMiddleware: auth.NewMiddleware(provider, logger),
				RateLimiter:    auth.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst),
				SSOHandlers:    sso,
				Logger:         logger,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.HTTP.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
