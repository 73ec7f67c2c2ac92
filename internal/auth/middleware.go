package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bindvalue/bindvalue/internal/logging"
	"github.com/bindvalue/bindvalue/internal/session"
)

type contextKey string

const sessionStoreKey contextKey = "session_store"

// Middleware resolves the session state of each request.
type Middleware struct {
	provider session.Provider
	log      *slog.Logger
}

// NewMiddleware creates a new auth Middleware.
func NewMiddleware(p session.Provider, l *slog.Logger) *Middleware {
	return &Middleware{provider: p, log: l}
}

// Resolve gives every request its own session.Store, runs the
// current-session query once and publishes the answer before calling next.
// Handlers attach gates to the store with StoreFromContext.
func (m *Middleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := session.NewStore()
		if _, err := session.Resolve(r.Context(), m.provider, st); err != nil {
			m.log.WarnContext(r.Context(), "resolve session", logging.Err(err))
		}
		ctx := context.WithValue(r.Context(), sessionStoreKey, st)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StoreFromContext returns the request's session store. Without Resolve in
// the chain it returns a store that stays Loading.
func StoreFromContext(ctx context.Context) *session.Store {
	if st, ok := ctx.Value(sessionStoreKey).(*session.Store); ok {
		return st
	}
	return session.NewStore()
}

// StateFromContext returns the request's current session state.
func StateFromContext(ctx context.Context) session.State {
	return StoreFromContext(ctx).Current()
}
