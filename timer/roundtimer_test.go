package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundTimer_FiresExactlyOnce(t *testing.T) {
	fired := 0
	rt := New(3*TickInterval, func() { fired++ })

	rt.Start()
	assert.Equal(t, StateCounting, rt.State())

	rt.OnTick()
	rt.OnTick()
	assert.Equal(t, 0, fired)

	rt.OnTick()
	assert.Equal(t, 1, fired)
	assert.Equal(t, StateIdle, rt.State())

	// Idle ticks never re-fire.
	rt.OnTick()
	rt.OnTick()
	assert.Equal(t, 1, fired)
}

func TestRoundTimer_StartWhileCountingIsNoOp(t *testing.T) {
	rt := New(5*TickInterval, nil)
	rt.Start()
	rt.OnTick()
	remaining := rt.Remaining()

	rt.Start()
	assert.Equal(t, remaining, rt.Remaining())
}

func TestRoundTimer_TogglePause(t *testing.T) {
	fired := 0
	rt := New(2*TickInterval, func() { fired++ })

	// Pausing an idle timer does nothing.
	assert.Equal(t, StateIdle, rt.TogglePause())

	rt.Start()
	assert.Equal(t, StatePaused, rt.TogglePause())

	// Paused ticks do not advance the countdown.
	rt.OnTick()
	rt.OnTick()
	rt.OnTick()
	assert.Equal(t, 0, fired)
	assert.Equal(t, 2, rt.Remaining())

	assert.Equal(t, StateCounting, rt.TogglePause())
	rt.OnTick()
	rt.OnTick()
	assert.Equal(t, 1, fired)
}

func TestRoundTimer_SnapshotRestore(t *testing.T) {
	fired := 0
	rt := New(10*TickInterval, func() { fired++ })
	rt.Start()
	rt.OnTick()
	rt.OnTick()

	state, remaining := rt.Snapshot()
	assert.Equal(t, StateCounting, state)
	assert.Equal(t, 8, remaining)

	// A fresh timer picks up where the persisted one left off.
	restored := New(10*TickInterval, func() { fired++ })
	restored.Restore(state, remaining)
	assert.True(t, restored.IsActive())

	for i := 0; i < 8; i++ {
		restored.OnTick()
	}
	assert.Equal(t, 1, fired)
}

func TestRoundTimer_MinimumOneTick(t *testing.T) {
	rt := New(time.Millisecond, nil)
	rt.Start()
	assert.Equal(t, 1, rt.Remaining())
}
