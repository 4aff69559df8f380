package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

const (
	// HMACEnvKey is the env var name for the token digest secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	HMACEnvKey = "PORTFOLIO_TOKEN_HMAC_KEY"

	// DefaultBytes is the entropy of an issued token (64 hex chars).
	DefaultBytes = 32

	// MinHMACKeyBytes is the minimum accepted HMAC key size.
	MinHMACKeyBytes = 32
)

// NewOpaque returns a cryptographically random hex token of 2*nBytes chars.
func NewOpaque(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = DefaultBytes
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return hex.EncodeToString(b), nil
}

// Digester turns a token into the key it is stored under.
type Digester struct {
	key []byte
}

// NewDigester returns a SHA-256 digester when key is empty, HMAC-SHA256 otherwise.
func NewDigester(key []byte) Digester {
	if len(key) == 0 {
		return Digester{}
	}
	return Digester{key: append([]byte(nil), key...)}
}

// HMAC reports whether the digester is keyed.
func (d Digester) HMAC() bool { return len(d.key) > 0 }

// Digest returns the 64-char hex digest of s.
func (d Digester) Digest(s string) string {
	if len(d.key) == 0 {
		return HashSHA256Hex(s)
	}
	return HashHMACSHA256Hex(s, d.key)
}

// HashSHA256Hex returns a SHA-256 hex digest of s.
func HashSHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashHMACSHA256Hex returns an HMAC-SHA256 hex digest of s using key.
func HashHMACSHA256Hex(s string, key []byte) string {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(s))
	return hex.EncodeToString(m.Sum(nil))
}

// HMACKeyFromEnv returns the configured HMAC key bytes (trimmed).
// A blank value yields ErrHMACKeyMissing; fewer than minBytes yields ErrHMACKeyTooShort.
func HMACKeyFromEnv(minBytes int) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(HMACEnvKey))
	if raw == "" {
		return nil, ErrHMACKeyMissing
	}
	b := []byte(raw)
	if minBytes > 0 && len(b) < minBytes {
		return nil, ErrHMACKeyTooShort
	}
	return b, nil
}
