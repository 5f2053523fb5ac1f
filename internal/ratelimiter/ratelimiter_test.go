package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindow(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(2, time.Minute)
	rl.now = func() time.Time { return clock }

	ok, _ := rl.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok)

	clock = clock.Add(20 * time.Second)
	ok, retry := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	ok, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok, "keys are independent")

	clock = clock.Add(40 * time.Second)
	ok, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok, "window reset")
}

func TestPrune(t *testing.T) {
	clock := time.Now()
	rl := NewFixedWindowLimiter(1, time.Second)
	rl.now = func() time.Time { return clock }

	rl.Allow("a")
	clock = clock.Add(500 * time.Millisecond)
	rl.Allow("b")
	clock = clock.Add(600 * time.Millisecond)

	assert.Equal(t, 1, rl.Prune())
	ok, _ := rl.Allow("b")
	assert.False(t, ok)
}
