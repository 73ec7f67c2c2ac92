package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

const (
	SessionUserIDKey = "user_id"

	sessionFlashKey     = "flash"
	sessionFlashTypeKey = "flash_type"
)

// NewSessionManager creates an SCS session manager backed by the application DB.
// The driver parameter selects the appropriate store: "mysql", "postgres", or
// "sqlite3" (default).
func NewSessionManager(db *sqlx.DB, driver string, lifetime time.Duration, secure bool) *scs.SessionManager {
	sm := scs.New()
	switch driver {
	case "mysql":
		sm.Store = mysqlstore.New(db.DB)
	case "postgres":
		sm.Store = postgresstore.New(db.DB)
	default: // sqlite3
		sm.Store = sqlite3store.New(db.DB)
	}
	sm.Lifetime = lifetime
	sm.Cookie.Name = "bindvalue_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = secure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}

// Flash is a one-time notification carried in the session until shown.
type Flash struct {
	Type    string // "success", "error", "info"
	Message string
}

// PutFlash stores a flash message for the next page render.
func PutFlash(sm *scs.SessionManager, ctx context.Context, typ, msg string) {
	sm.Put(ctx, sessionFlashTypeKey, typ)
	sm.Put(ctx, sessionFlashKey, msg)
}

// PopFlash removes and returns the pending flash message, or nil.
func PopFlash(sm *scs.SessionManager, ctx context.Context) *Flash {
	msg := sm.PopString(ctx, sessionFlashKey)
	typ := sm.PopString(ctx, sessionFlashTypeKey)
	if msg == "" {
		return nil
	}
	if typ == "" {
		typ = "info"
	}
	return &Flash{Type: typ, Message: msg}
}
