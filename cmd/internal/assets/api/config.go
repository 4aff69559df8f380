package assetsapi

import "time"

// Config controls the asset API endpoints.
type Config struct {
	// PublicDir is listed by GET /api/public-assets.
	PublicDir string

	TrustProxy   bool
	MaxBodyBytes int64

	// AuthAttempts per AuthWindow per client IP; zero disables limiting.
	AuthAttempts int
	AuthWindow   time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		PublicDir:    "web/assets/public",
		MaxBodyBytes: 4 << 10,
		AuthAttempts: 10,
		AuthWindow:   time.Minute,
	}
}
