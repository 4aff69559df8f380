package tokenstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"portfolio/cmd/security/token"
)

const (
	// DefaultTTL is how long an issued token authorizes fetches.
	DefaultTTL = 30 * time.Minute
	// DefaultSweepInterval is the period of the background eviction pass.
	DefaultSweepInterval = 60 * time.Second
)

// Store maps token digests to expiry instants.
type Store struct {
	mu      sync.Mutex
	entries map[string]time.Time

	ttl      time.Duration
	interval time.Duration
	digest   token.Digester
	now      func() time.Time
	log      *slog.Logger
	onSweep  func(evicted int)
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithSweepInterval overrides DefaultSweepInterval.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithDigester sets how tokens are hashed before being used as map keys.
func WithDigester(d token.Digester) Option {
	return func(s *Store) { s.digest = d }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used by Run.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSweepHook registers a callback invoked after every sweep pass.
func WithSweepHook(fn func(evicted int)) Option {
	return func(s *Store) { s.onSweep = fn }
}

// New constructs an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		entries:  make(map[string]time.Time),
		ttl:      DefaultTTL,
		interval: DefaultSweepInterval,
		digest:   token.NewDigester(nil),
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Issue creates a new token valid for TTL.
func (s *Store) Issue() (string, time.Time, error) {
	tok, err := token.NewOpaque(token.DefaultBytes)
	if err != nil {
		return "", time.Time{}, err
	}
	key := s.digest.Digest(tok)

	s.mu.Lock()
	defer s.mu.Unlock()

	exp := s.now().Add(s.ttl)
	s.entries[key] = exp
	return tok, exp, nil
}

// Validate reports whether tok is present and unexpired.
// An expired entry is removed on the spot.
func (s *Store) Validate(tok string) bool {
	if tok == "" {
		return false
	}
	key := s.digest.Digest(tok)

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.entries[key]
	if !ok {
		return false
	}
	if !s.now().Before(exp) {
		delete(s.entries, key)
		return false
	}
	return true
}

// Sweep evicts every expired entry and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	now := s.now()
	n := 0
	for key, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, key)
			n++
		}
	}
	s.mu.Unlock()

	if s.onSweep != nil {
		s.onSweep(n)
	}
	return n
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run sweeps on every interval tick until ctx is done.
func (s *Store) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.log.Debug("tokenstore.sweeper.start", "interval", s.interval.String(), "ttl", s.ttl.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("tokenstore.sweeper.stop")
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info("tokenstore.sweep", "evicted", n, "remaining", s.Len())
			}
		}
	}
}
