package assetsapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttemptLimiter_Window(t *testing.T) {
	l := newAttemptLimiter(3, time.Minute)
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("1.2.3.4", now.Add(time.Duration(i)*time.Second))
		assert.True(t, ok)
	}

	ok, retry := l.Allow("1.2.3.4", now.Add(10*time.Second))
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, retry)

	ok, _ = l.Allow("5.6.7.8", now.Add(10*time.Second))
	assert.True(t, ok, "keys are independent")

	ok, _ = l.Allow("1.2.3.4", now.Add(61*time.Second))
	assert.True(t, ok, "oldest attempt left the window")
}

func TestAttemptLimiter_Prune(t *testing.T) {
	l := newAttemptLimiter(5, time.Minute)
	now := time.Unix(1_700_000_000, 0)

	l.Allow("a", now)
	l.Allow("b", now.Add(30*time.Second))

	assert.Equal(t, 1, l.Prune(now.Add(70*time.Second)))
	assert.Len(t, l.events, 1)
	assert.Equal(t, 1, l.Prune(now.Add(2*time.Minute)))
	assert.Empty(t, l.events)
}

func TestAttemptLimiter_Disabled(t *testing.T) {
	l := newAttemptLimiter(0, time.Minute)
	assert.Nil(t, l)

	ok, retry := l.Allow("x", time.Now())
	assert.True(t, ok)
	assert.Zero(t, retry)
	assert.Zero(t, l.Prune(time.Now()))
}
