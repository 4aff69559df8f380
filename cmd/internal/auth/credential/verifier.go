// Package credential checks the shared asset password against its stored hash.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"portfolio/cmd/security/password"
)

var (
	// ErrInvalidCredential is returned by Check when the candidate does not match.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrNotConfigured is returned when no password hash was configured.
	ErrNotConfigured = errors.New("credential not configured")
)

// Verifier holds the one stored hash. It is immutable after construction.
type Verifier struct {
	hash string
	cfg  password.Config
	log  *slog.Logger
}

// NewVerifier validates the encoding of hash up front so malformed
// configuration fails at startup instead of on the first request.
// An empty hash yields a Verifier that reports ErrNotConfigured.
func NewVerifier(hash string, cfg password.Config, log *slog.Logger) (*Verifier, error) {
	if log == nil {
		log = slog.Default()
	}
	hash = strings.TrimSpace(hash)
	if hash != "" {
		if err := cfg.CheckEncoding(hash); err != nil {
			return nil, fmt.Errorf("credential: stored hash: %w", err)
		}
	}
	return &Verifier{hash: hash, cfg: cfg, log: log}, nil
}

// Configured reports whether a hash is present.
func (v *Verifier) Configured() bool { return v != nil && v.hash != "" }

// Verify reports whether candidate matches the stored hash. The error is
// non-nil only for internal failures; a mismatch is (false, nil).
// The candidate itself is never logged.
func (v *Verifier) Verify(ctx context.Context, candidate string, origin net.IP) (bool, error) {
	if !v.Configured() {
		return false, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ok, err := v.cfg.Verify(v.hash, candidate)
	if err != nil {
		v.log.Error("credential.verify.fail", "err", err, "ip", ipString(origin))
		return false, fmt.Errorf("credential: verify: %w", err)
	}

	if ok {
		v.log.Info("credential.verify.success", "ip", ipString(origin))
	} else {
		v.log.Warn("credential.verify.mismatch", "ip", ipString(origin))
	}
	return ok, nil
}

// Check is Verify with a mismatch folded into ErrInvalidCredential.
func (v *Verifier) Check(ctx context.Context, candidate string, origin net.IP) error {
	ok, err := v.Verify(ctx, candidate, origin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredential
	}
	return nil
}

func ipString(ip net.IP) string {
	if ip == nil {
		return "unknown"
	}
	return ip.String()
}
