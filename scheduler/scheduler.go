// Package scheduler provides the single logical thread the whole
// platform mutates state on: one goroutine draining a fixed-rate ticker
// and a command queue. Network readers and RPC handlers never touch
// game state directly; they dispatch closures here.
package scheduler

import (
	"time"

	"github.com/James-Trimble/PlayPalace11/logger"
)

// Scheduler serializes ticks and dispatched commands on one goroutine.
type Scheduler struct {
	interval time.Duration
	onTick   func()

	cmds chan func()
	stop chan struct{}
	done chan struct{}
}

// New creates a scheduler ticking at the given interval. onTick runs on
// the scheduler goroutine, never concurrently with dispatched commands.
func New(interval time.Duration, onTick func()) *Scheduler {
	return &Scheduler{
		interval: interval,
		onTick:   onTick,
		cmds:     make(chan func(), 256),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the scheduler goroutine.
func (s *Scheduler) Start() {
	go s.loop()
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case fn := <-s.cmds:
			fn()
		case <-ticker.C:
			s.onTick()
		}
	}
}

// Dispatch queues fn to run on the scheduler goroutine. Commands
// dispatched after Stop are dropped.
func (s *Scheduler) Dispatch(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.done:
		logger.Log.Warnf("Command dispatched after scheduler stop; dropped")
	}
}

// Call runs fn on the scheduler goroutine and waits for it to finish.
// Used by read-side callers that need a consistent snapshot.
func (s *Scheduler) Call(fn func()) {
	ran := make(chan struct{})
	s.Dispatch(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
	case <-s.done:
	}
}

// Stop halts the loop and waits for any in-flight tick or command to
// finish. Safe to call once.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}
