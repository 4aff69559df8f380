package token

import (
	"errors"
	"strings"
	"testing"
)

func TestNewOpaque(t *testing.T) {
	t.Parallel()

	a, err := NewOpaque(0)
	if err != nil {
		t.Fatalf("NewOpaque: %v", err)
	}
	if len(a) != 2*DefaultBytes {
		t.Fatalf("len=%d want=%d", len(a), 2*DefaultBytes)
	}
	if strings.Trim(a, "0123456789abcdef") != "" {
		t.Fatalf("not lower hex: %q", a)
	}

	b, err := NewOpaque(DefaultBytes)
	if err != nil {
		t.Fatalf("NewOpaque: %v", err)
	}
	if a == b {
		t.Fatalf("two tokens collided")
	}
}

func TestDigester(t *testing.T) {
	t.Parallel()

	plain := NewDigester(nil)
	if plain.HMAC() {
		t.Fatalf("expected SHA-256 mode")
	}
	if got := plain.Digest("abc"); got != HashSHA256Hex("abc") || len(got) != 64 {
		t.Fatalf("unexpected digest %q", got)
	}

	keyed := NewDigester([]byte(strings.Repeat("k", 32)))
	if !keyed.HMAC() {
		t.Fatalf("expected HMAC mode")
	}
	if keyed.Digest("abc") == plain.Digest("abc") {
		t.Fatalf("HMAC digest must differ from plain digest")
	}
	if keyed.Digest("abc") != keyed.Digest("abc") {
		t.Fatalf("digest must be deterministic")
	}
}

func TestHMACKeyFromEnv(t *testing.T) {
	t.Setenv(HMACEnvKey, "")
	if _, err := HMACKeyFromEnv(MinHMACKeyBytes); !errors.Is(err, ErrHMACKeyMissing) {
		t.Fatalf("expected ErrHMACKeyMissing, got %v", err)
	}

	t.Setenv(HMACEnvKey, "short")
	if _, err := HMACKeyFromEnv(MinHMACKeyBytes); !errors.Is(err, ErrHMACKeyTooShort) {
		t.Fatalf("expected ErrHMACKeyTooShort, got %v", err)
	}

	t.Setenv(HMACEnvKey, "  "+strings.Repeat("x", 40)+"  ")
	key, err := HMACKeyFromEnv(MinHMACKeyBytes)
	if err != nil {
		t.Fatalf("HMACKeyFromEnv: %v", err)
	}
	if len(key) != 40 {
		t.Fatalf("key not trimmed: %d", len(key))
	}
}
