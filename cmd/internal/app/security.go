package app

import (
	"errors"
	"fmt"

	"portfolio/cmd/security/password"
	"portfolio/cmd/security/token"
)

// ValidateSecurityConfig fails fast on settings that would otherwise only
// surface on the first request.
func ValidateSecurityConfig(cfg Config, pw password.Config) error {
	if cfg.AssetPasswordHash != "" {
		if err := pw.CheckEncoding(cfg.AssetPasswordHash); err != nil {
			return fmt.Errorf("security policy: PORTFOLIO_ASSET_PASSWORD_HASH: %w", err)
		}
	}
	if _, err := tokenDigestKey(); err != nil {
		return err
	}
	return nil
}

// tokenDigestKey returns the optional HMAC key for token digests.
// A missing key means plain SHA-256; a short one is an error.
func tokenDigestKey() ([]byte, error) {
	key, err := token.HMACKeyFromEnv(token.MinHMACKeyBytes)
	switch {
	case err == nil:
		return key, nil
	case errors.Is(err, token.ErrHMACKeyMissing):
		return nil, nil
	case errors.Is(err, token.ErrHMACKeyTooShort):
		return nil, fmt.Errorf("security policy: %s is too short (min %d bytes)", token.HMACEnvKey, token.MinHMACKeyBytes)
	default:
		return nil, err
	}
}
