package app

import (
	"net"
	"time"

	assetsapi "portfolio/cmd/internal/assets/api"
	"portfolio/cmd/internal/auth/tokenstore"
	"portfolio/cmd/internal/content"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string
	LogColor  bool

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int

	StaticDir          string
	ContentDir         string
	PublicAssetsDir    string
	ProtectedAssetsDir string

	TextClients []string
	TrustProxy  bool

	// AssetPasswordHash is an Argon2id or bcrypt encoding. Empty disables
	// the password endpoint (503).
	AssetPasswordHash string

	TokenTTL           time.Duration
	TokenSweepInterval time.Duration

	AuthMaxBodyBytes int64
	AuthAttempts     int
	AuthWindow       time.Duration

	MetricsEnabled bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  net.JoinHostPort(EnvString("PORTFOLIO_HTTP_HOST", "0.0.0.0"), EnvString("PORT", "3000")),
		LogLevel:  EnvString("PORTFOLIO_LOG_LEVEL", "info"),
		LogFormat: EnvString("PORTFOLIO_LOG_FORMAT", "json"),
		LogColor:  EnvBool("PORTFOLIO_LOG_COLOR", false),

		ReadHeaderTimeout: EnvDuration("PORTFOLIO_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("PORTFOLIO_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("PORTFOLIO_HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       EnvDuration("PORTFOLIO_HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   EnvDuration("PORTFOLIO_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),

		MaxHeaderBytes: EnvInt("PORTFOLIO_HTTP_MAX_HEADER_BYTES", 1<<20),

		StaticDir:          EnvString("PORTFOLIO_STATIC_DIR", "web"),
		ContentDir:         EnvString("PORTFOLIO_CONTENT_DIR", "content"),
		PublicAssetsDir:    EnvString("PORTFOLIO_PUBLIC_ASSETS_DIR", "web/assets/public"),
		ProtectedAssetsDir: EnvString("PORTFOLIO_PROTECTED_ASSETS_DIR", "web/assets/protected"),

		TextClients: EnvList("PORTFOLIO_TEXT_CLIENTS", content.DefaultTextClients),
		TrustProxy:  EnvBool("PORTFOLIO_TRUST_PROXY", false),

		AssetPasswordHash: EnvString("PORTFOLIO_ASSET_PASSWORD_HASH", ""),

		TokenTTL:           EnvDuration("PORTFOLIO_TOKEN_TTL", tokenstore.DefaultTTL),
		TokenSweepInterval: EnvDuration("PORTFOLIO_TOKEN_SWEEP_INTERVAL", tokenstore.DefaultSweepInterval),

		AuthMaxBodyBytes: EnvInt64("PORTFOLIO_AUTH_MAX_BODY_BYTES", 4<<10),
		AuthAttempts:     EnvNonNegativeInt("PORTFOLIO_AUTH_ATTEMPTS", 10),
		AuthWindow:       EnvDuration("PORTFOLIO_AUTH_WINDOW", time.Minute),

		MetricsEnabled: EnvBool("PORTFOLIO_METRICS_ENABLED", true),
	}
}

func (c Config) assetsAPIConfig() assetsapi.Config {
	return assetsapi.Config{
		PublicDir:    c.PublicAssetsDir,
		TrustProxy:   c.TrustProxy,
		MaxBodyBytes: c.AuthMaxBodyBytes,
		AuthAttempts: c.AuthAttempts,
		AuthWindow:   c.AuthWindow,
	}
}

func (c Config) contentConfig() content.Config {
	return content.Config{
		ContentDir:   c.ContentDir,
		StaticDir:    c.StaticDir,
		ProtectedDir: c.ProtectedAssetsDir,
		TextClients:  c.TextClients,
		TrustProxy:   c.TrustProxy,
	}
}
