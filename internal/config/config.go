package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Auth struct {
		RequireConfirmation bool
		TokenSecret         string
		RateLimit           float64 // requests per second per client IP
		RateBurst           int
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	Log struct {
		Level  string
		Format string
	}
	BaseURL         string
	SessionLifetime time.Duration
	InsecureCookies bool
}

// OIDCEnabled reports whether single sign-on is configured.
func (c *Config) OIDCEnabled() bool {
	return c.OIDC.Issuer != ""
}

// Load reads config from environment (BV_ prefix) and optional bindvalue.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("bindvalue")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "bindvalue.db")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("auth.require_confirmation", true)
	v.SetDefault("auth.rate_limit", 1.0)
	v.SetDefault("auth.rate_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Auth.RequireConfirmation = v.GetBool("auth.require_confirmation")
	cfg.Auth.TokenSecret = v.GetString("auth.token_secret")
	cfg.Auth.RateLimit = v.GetFloat64("auth.rate_limit")
	cfg.Auth.RateBurst = v.GetInt("auth.rate_burst")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.BaseURL = strings.TrimRight(v.GetString("base_url"), "/")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid BV_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	switch cfg.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("BV_DB_DRIVER %q is not supported (sqlite3, mysql, postgres)", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("BV_DB_DSN is required")
	}
	if cfg.Auth.RequireConfirmation && len(cfg.Auth.TokenSecret) < 32 {
		return nil, fmt.Errorf("BV_AUTH_TOKEN_SECRET must be at least 32 bytes when confirmation is required")
	}
	if cfg.Auth.RateLimit <= 0 || cfg.Auth.RateBurst <= 0 {
		return nil, fmt.Errorf("BV_AUTH_RATE_LIMIT and BV_AUTH_RATE_BURST must be positive")
	}

	// SSO is optional, but a partial configuration is a mistake.
	if cfg.OIDCEnabled() {
		if cfg.OIDC.ClientID == "" {
			return nil, fmt.Errorf("BV_OIDC_CLIENT_ID is required when BV_OIDC_ISSUER is set")
		}
		if cfg.OIDC.ClientSecret == "" {
			return nil, fmt.Errorf("BV_OIDC_CLIENT_SECRET is required when BV_OIDC_ISSUER is set")
		}
		if cfg.OIDC.RedirectURL == "" {
			return nil, fmt.Errorf("BV_OIDC_REDIRECT_URL is required when BV_OIDC_ISSUER is set")
		}
	}

	return cfg, nil
}
