package servo

import (
	"context"
	"time"
)

// JointStateFeed is the joint-state collaborator: it publishes the most
// recent measured joint positions and velocities. Latest may return
// ok=false if no snapshot has arrived yet, the only condition under which
// the tick orchestrator blocks (§5, "Suspension points").
type JointStateFeed interface {
	Latest(ctx context.Context) (state JointState, ok bool)
}

// CollisionMonitor is the single-writer/single-reader scalar velocity-scale
// input from an external collision checker. Implementations must make Scale
// safe to read from the control thread while written from an I/O thread,
// e.g. with atomic.
type CollisionMonitor interface {
	Scale() float64
}

// StatusPublisher receives the status code emitted once every cycle,
// published unconditionally regardless of whether anything else is
// published this tick. It is emitted at the end of the cycle, after
// dispatch, not before the cycle's work starts.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, status Status)
}

// WorstCaseStopTimePublisher receives the worst-case joint stop time
// computed each cycle from measured velocity and acceleration limits.
type WorstCaseStopTimePublisher interface {
	PublishWorstCaseStopTime(ctx context.Context, seconds float64)
}

// CommandPublisher receives the outgoing trajectory or array command. A
// cycle calls this at most once.
type CommandPublisher interface {
	PublishCommand(ctx context.Context, cmd OutgoingCommand)
}

// Clock abstracts wall-clock reads so tests can drive the freshness state
// machine deterministically instead of racing real time.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock, backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
