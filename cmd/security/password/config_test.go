package password

import (
	"os"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORTFOLIO_PASSWORD_MIN_LEN",
		"PORTFOLIO_PASSWORD_MAX_LEN",
		"PORTFOLIO_PASSWORD_REJECT_VERY_WEAK",
		"PORTFOLIO_ARGON2_MEMORY_KIB",
		"PORTFOLIO_ARGON2_ITERATIONS",
		"PORTFOLIO_ARGON2_PARALLELISM",
		"PORTFOLIO_ARGON2_SALT_LEN",
		"PORTFOLIO_ARGON2_KEY_LEN",
		"PORTFOLIO_BCRYPT_COST",
	} {
		_ = os.Unsetenv(k)
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	def := DefaultConfig()
	if cfg.Policy != def.Policy {
		t.Fatalf("policy mismatch: %+v", cfg.Policy)
	}
	if cfg.Params != def.Params {
		t.Fatalf("params mismatch: %+v", cfg.Params)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("bcrypt cost=%d want 10", cfg.BcryptCost)
	}
}

func TestFromEnv_Override(t *testing.T) {
	t.Setenv("PORTFOLIO_PASSWORD_MIN_LEN", "10")
	t.Setenv("PORTFOLIO_PASSWORD_MAX_LEN", "200")
	t.Setenv("PORTFOLIO_PASSWORD_REJECT_VERY_WEAK", "off")
	t.Setenv("PORTFOLIO_ARGON2_MEMORY_KIB", "32768")
	t.Setenv("PORTFOLIO_ARGON2_ITERATIONS", "4")
	t.Setenv("PORTFOLIO_ARGON2_PARALLELISM", "2")
	t.Setenv("PORTFOLIO_ARGON2_SALT_LEN", "24")
	t.Setenv("PORTFOLIO_ARGON2_KEY_LEN", "32")
	t.Setenv("PORTFOLIO_BCRYPT_COST", "12")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	if cfg.Policy.MinLength != 10 || cfg.Policy.MaxLength != 200 || cfg.Policy.RejectVeryWeak {
		t.Fatalf("policy override failed: %+v", cfg.Policy)
	}
	if cfg.Params.MemoryKiB != 32768 || cfg.Params.Iterations != 4 || cfg.Params.Parallelism != 2 {
		t.Fatalf("argon2 override failed: %+v", cfg.Params)
	}
	if cfg.Params.SaltLength != 24 || cfg.Params.KeyLength != 32 {
		t.Fatalf("len override failed: %+v", cfg.Params)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("bcrypt override failed: %d", cfg.BcryptCost)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"PORTFOLIO_ARGON2_ITERATIONS": "zero",
		"PORTFOLIO_BCRYPT_COST":       "99",
		"PORTFOLIO_PASSWORD_MIN_LEN":  "-1",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%s", k, v)
			}
		})
	}
}

func TestFromEnv_InvalidMinMax(t *testing.T) {
	t.Setenv("PORTFOLIO_PASSWORD_MIN_LEN", "20")
	t.Setenv("PORTFOLIO_PASSWORD_MAX_LEN", "10")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error")
	}
}
