package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr string `env:"DASHBOARD_ADDR"`

	// BackendURL is the external execution backend that owns the OAuth2 flow.
	BackendURL string `env:"FLASK_URL"`
	// SelfOrigin is this dashboard's public origin, used for redirects.
	SelfOrigin string `env:"HOST"`
	// APIProxyURL overrides the /api passthrough target (platform API path in production).
	APIProxyURL string `env:"API_PROXY_URL"`

	AppEnv string `env:"APP_ENV" envDefault:"development"`

	SessionStatusPath string        `env:"SESSION_STATUS_PATH" envDefault:"/api/is_authenticated"`
	OracleTimeout     time.Duration `env:"ORACLE_TIMEOUT" envDefault:"0s"`

	ProfileRedirectWhenAuthenticated bool `env:"PROFILE_REDIRECT_WHEN_AUTHENTICATED" envDefault:"true"`

	DatabasePath string `env:"DATABASE_PATH"`
	StaticDir    string `env:"STATIC_DIR"`

	// AuditMaxRows bounds the guard audit table; 0 disables pruning.
	AuditMaxRows int `env:"AUDIT_MAX_ROWS" envDefault:"10000"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// IsDevelopment reports whether the dashboard runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// ProxyTarget is the base URL /api requests are forwarded to.
func (c Config) ProxyTarget() string {
	if c.APIProxyURL != "" {
		return c.APIProxyURL
	}
	return c.BackendURL
}

func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return normalize(cfg, os.Getenv)
}

func normalize(cfg Config, getenv func(string) string) (Config, error) {
	cfg.AppEnv = strings.TrimSpace(cfg.AppEnv)
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	// Earlier deployments exported the self origin under the frontend host's names.
	if strings.TrimSpace(cfg.SelfOrigin) == "" {
		for _, key := range []string{"NEXT_URL", "VERCEL_URL"} {
			if v := strings.TrimSpace(getenv(key)); v != "" {
				cfg.SelfOrigin = v
				break
			}
		}
	}

	if cfg.Addr == "" {
		if port := strings.TrimSpace(getenv("PORT")); port != "" {
			if strings.Contains(port, ":") {
				cfg.Addr = port
			} else {
				cfg.Addr = ":" + port
			}
		}
	}
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}

	var missing []string

	backend, err := normalizeBaseURL(cfg.BackendURL, false)
	if err != nil {
		missing = append(missing, fmt.Sprintf("FLASK_URL (%v)", err))
	}
	cfg.BackendURL = backend

	// VERCEL_URL is published without a scheme.
	origin, err := normalizeBaseURL(cfg.SelfOrigin, true)
	if err != nil {
		missing = append(missing, fmt.Sprintf("HOST (%v)", err))
	}
	cfg.SelfOrigin = origin

	if cfg.APIProxyURL != "" {
		proxyURL, err := normalizeBaseURL(cfg.APIProxyURL, false)
		if err != nil {
			missing = append(missing, fmt.Sprintf("API_PROXY_URL (%v)", err))
		}
		cfg.APIProxyURL = proxyURL
	}

	cfg.SessionStatusPath = strings.TrimSpace(cfg.SessionStatusPath)
	if cfg.SessionStatusPath == "" {
		cfg.SessionStatusPath = "/api/is_authenticated"
	}
	if !strings.HasPrefix(cfg.SessionStatusPath, "/") {
		cfg.SessionStatusPath = "/" + cfg.SessionStatusPath
	}

	if cfg.OracleTimeout < 0 {
		missing = append(missing, "ORACLE_TIMEOUT (must not be negative)")
	}
	if cfg.AuditMaxRows < 0 {
		missing = append(missing, "AUDIT_MAX_ROWS (must not be negative)")
	}

	var origins []string
	for _, o := range cfg.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimRight(o, "/"))
		}
	}
	cfg.CORSAllowedOrigins = origins

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing/invalid env: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func normalizeBaseURL(raw string, defaultHTTPS bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("required")
	}
	if defaultHTTPS && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return "", fmt.Errorf("host required")
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}
