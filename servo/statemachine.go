package servo

import "time"

// runState is the explicit state the tick orchestrator is in, replacing the
// early-return-sentinel style with named states per cycle (§4.1 steps 6-9,
// design note on explicit states over sentinels).
type runState int8

const (
	stateWaitingForInitial runState = iota
	statePaused
	stateActive
	stateHalting
)

// freshnessTracker holds the halt/pause bookkeeping the orchestrator
// consults every cycle: whether a command has ever arrived, whether the
// last one is stale, and how many consecutive zero-velocity cycles have
// run, which decides when the halt burst is over. haltMsgsRemaining is not
// updated; the burst is decided from zeroVelocityRunCount alone.
type freshnessTracker struct {
	cfg   Config
	clock Clock

	haveInitialCommand bool
	paused             bool

	lastCommandStamp     time.Time
	zeroVelocityRunCount int
	haltMsgsRemaining    int
}

func newFreshnessTracker(cfg Config, clock Clock) *freshnessTracker {
	return &freshnessTracker{cfg: cfg, clock: clock}
}

func (f *freshnessTracker) noteCommandReceived(stamp time.Time) {
	f.haveInitialCommand = true
	f.lastCommandStamp = stamp
}

func (f *freshnessTracker) setPaused(paused bool) {
	f.paused = paused
}

// stale reports whether the most recent command has aged past the
// configured timeout.
func (f *freshnessTracker) stale() bool {
	if !f.haveInitialCommand {
		return true
	}
	return f.clock.Now().Sub(f.lastCommandStamp) >= f.cfg.IncomingCommandTimeout
}

// evaluate records whether this cycle's command was the zero motion (all
// axes zero) or genuine motion, updating the halt-burst run count and
// reporting the state the orchestrator should act in.
func (f *freshnessTracker) evaluate(commandIsZero bool) runState {
	if !f.haveInitialCommand {
		return stateWaitingForInitial
	}
	if f.paused {
		return statePaused
	}
	if f.stale() || commandIsZero {
		f.zeroVelocityRunCount++
		if f.cfg.NumOutgoingHaltMsgsToPublish == 0 || f.zeroVelocityRunCount <= f.cfg.NumOutgoingHaltMsgsToPublish {
			return stateHalting
		}
		// Halt burst already sent; suppress further halt publications
		// until fresh motion arrives.
		return stateWaitingForInitial
	}
	f.zeroVelocityRunCount = 0
	return stateActive
}

// reset clears the zero-velocity run count. evaluate clears the same count
// itself when a fresh, non-zero command makes the tracker active; nothing in
// this package calls reset.
func (f *freshnessTracker) reset() {
	f.zeroVelocityRunCount = 0
}
