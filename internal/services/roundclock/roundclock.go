// Package roundclock advances a single round through its timed phases.
package roundclock

import (
	"sync"
	"time"

	"github.com/KirkDiggler/minority/internal/common/clock"
)

// State is the phase of a round clock
type State string

const (
	// StateIdle indicates the clock has not been started
	StateIdle State = "idle"

	// StateScheduled indicates the round exists but has not started
	StateScheduled State = "scheduled"

	// StateActive indicates the round is running
	StateActive State = "active"

	// StateResolved indicates the round deadline passed or was forced
	StateResolved State = "resolved"

	// StateStopped indicates the clock was cancelled
	StateStopped State = "stopped"
)

// Callbacks are invoked without any clock lock held
type Callbacks struct {
	// OnStart runs when the round becomes active
	OnStart func()

	// OnEnd runs exactly once when the round is resolved
	OnEnd func()
}

// RoundClock fires a deadline timer for each phase transition of one round
type RoundClock struct {
	mu        sync.Mutex
	clock     clock.Clock
	startTime time.Time
	endTime   time.Time
	callbacks Callbacks
	state     State
	timer     clock.Timer
}

// New creates an idle clock for a round spanning [startTime, endTime)
func New(c clock.Clock, startTime, endTime time.Time, callbacks Callbacks) *RoundClock {
	return &RoundClock{
		clock:     c,
		startTime: startTime,
		endTime:   endTime,
		callbacks: callbacks,
		state:     StateIdle,
	}
}

// Start arms the first timer. Callbacks never run on the calling goroutine,
// even when a deadline is already in the past.
func (rc *RoundClock) Start() {
	rc.arm(false)
}

// Resume arms a round that was already running before a restart. Inside the
// window it goes straight to active and only OnEnd will fire.
func (rc *RoundClock) Resume() {
	rc.arm(true)
}

func (rc *RoundClock) arm(resume bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.state != StateIdle {
		return
	}

	now := rc.clock.Now()
	if now.Before(rc.startTime) {
		rc.state = StateScheduled
		rc.timer = rc.clock.AfterFunc(rc.startTime.Sub(now), rc.activate)
		return
	}

	if now.Before(rc.endTime) {
		if resume {
			rc.state = StateActive
			rc.timer = rc.clock.AfterFunc(rc.endTime.Sub(now), rc.resolve)
			return
		}
		rc.state = StateScheduled
		rc.timer = rc.clock.AfterFunc(0, rc.activate)
		return
	}

	// A round whose window already passed resolves without starting.
	rc.state = StateActive
	rc.timer = rc.clock.AfterFunc(0, rc.resolve)
}

// Stop cancels any pending transition. A stopped clock never calls back.
func (rc *RoundClock) Stop() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.state == StateResolved || rc.state == StateStopped {
		return
	}
	rc.state = StateStopped
	if rc.timer != nil {
		rc.timer.Stop()
	}
}

// State returns the current phase
func (rc *RoundClock) State() State {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.state
}

// EndTime returns the deadline of the round
func (rc *RoundClock) EndTime() time.Time {
	return rc.endTime
}

func (rc *RoundClock) activate() {
	rc.mu.Lock()
	if rc.state != StateScheduled {
		rc.mu.Unlock()
		return
	}
	rc.state = StateActive
	rc.timer = rc.clock.AfterFunc(rc.endTime.Sub(rc.clock.Now()), rc.resolve)
	rc.mu.Unlock()

	if rc.callbacks.OnStart != nil {
		rc.callbacks.OnStart()
	}
}

func (rc *RoundClock) resolve() {
	rc.mu.Lock()
	if rc.state != StateActive {
		rc.mu.Unlock()
		return
	}
	rc.state = StateResolved
	rc.mu.Unlock()

	if rc.callbacks.OnEnd != nil {
		rc.callbacks.OnEnd()
	}
}
