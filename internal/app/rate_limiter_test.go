package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/core/coretest"
)

func TestClientRateLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewClientRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("A"))
	assert.True(t, rl.Allow("A"))
	assert.False(t, rl.Allow("A"))
	assert.True(t, rl.Allow("B"), "limits are per client")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("A"))
}

func TestClientRateLimiterSweep(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewClientRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("A")
	rl.Sweep()
	assert.Len(t, rl.history, 1)

	now = now.Add(2 * time.Minute)
	rl.Sweep()
	assert.Empty(t, rl.history)
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	rl := NewClientRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("A"))
	}
}

func TestPolicies(t *testing.T) {
	ms, _ := coretest.Member("s1", "A", "trip", "es")

	assert.Equal(t, DropFrame, PolicyFor("drop").OnBackPressure("trip", ms, core.ErrBackpressure))
	assert.Equal(t, DropFrame, PolicyFor("bogus").OnBackPressure("trip", ms, core.ErrBackpressure))

	kick := PolicyFor("kick")
	assert.Equal(t, KickMember, kick.OnBackPressure("trip", ms, core.ErrBackpressure))
	assert.Equal(t, DropFrame, kick.OnBackPressure("trip", ms, core.ErrConnClosed))
}
