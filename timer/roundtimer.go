package timer

import (
	"time"
)

// TickInterval is the scheduler heartbeat shared by every table.
const TickInterval = 50 * time.Millisecond

// Round timer states.
const (
	StateIdle     = "idle"
	StateCounting = "counting"
	StatePaused   = "paused"
)

// RoundTimer is a pausable countdown games use to insert a delay between
// rounds or races without blocking the tick loop. The timer itself does
// not enforce who may pause it; callers gate that (the host, in practice).
//
// The timer is runtime-only state. Owners persist Snapshot() alongside
// their game fields and call Restore() after rehydration so a countdown
// that was mid-flight continues from its remaining ticks instead of
// restarting.
type RoundTimer struct {
	state          string
	remainingTicks int
	delayTicks     int
	onReady        func()
}

// New creates an idle round timer that fires onReady when a started
// countdown reaches zero.
func New(delay time.Duration, onReady func()) *RoundTimer {
	ticks := int(delay / TickInterval)
	if ticks < 1 {
		ticks = 1
	}
	return &RoundTimer{
		state:      StateIdle,
		delayTicks: ticks,
		onReady:    onReady,
	}
}

// Start begins the countdown. No-op unless the timer is idle.
func (t *RoundTimer) Start() {
	if t.state != StateIdle {
		return
	}
	t.state = StateCounting
	t.remainingTicks = t.delayTicks
}

// OnTick advances the countdown by one scheduler tick. When the countdown
// reaches zero the timer returns to idle and invokes onReady exactly once.
func (t *RoundTimer) OnTick() {
	if t.state != StateCounting {
		return
	}
	t.remainingTicks--
	if t.remainingTicks > 0 {
		return
	}
	t.state = StateIdle
	t.remainingTicks = 0
	if t.onReady != nil {
		t.onReady()
	}
}

// TogglePause flips between counting and paused. Returns the new state,
// or the current state unchanged when the timer is idle.
func (t *RoundTimer) TogglePause() string {
	switch t.state {
	case StateCounting:
		t.state = StatePaused
	case StatePaused:
		t.state = StateCounting
	}
	return t.state
}

// IsActive reports whether a countdown is underway, paused or not.
func (t *RoundTimer) IsActive() bool {
	return t.state == StateCounting || t.state == StatePaused
}

// State returns the current state name.
func (t *RoundTimer) State() string {
	return t.state
}

// Remaining returns the ticks left in the countdown.
func (t *RoundTimer) Remaining() int {
	return t.remainingTicks
}

// Snapshot returns the serializable state and remaining ticks.
func (t *RoundTimer) Snapshot() (state string, remaining int) {
	return t.state, t.remainingTicks
}

// Restore resumes a persisted countdown from its saved state.
func (t *RoundTimer) Restore(state string, remaining int) {
	switch state {
	case StateCounting, StatePaused:
		t.state = state
		t.remainingTicks = remaining
	default:
		t.state = StateIdle
		t.remainingTicks = 0
	}
}
