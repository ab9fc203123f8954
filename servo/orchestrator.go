package servo

import (
	"context"
	"time"
)

// tickSnapshot is the mutex-protected state copied out at the start of a
// cycle so the rest of the tick runs lock-free.
type tickSnapshot struct {
	twist          TwistStamped
	twistFresh     bool
	jointJog       JointJog
	jointJogFresh  bool
	planningFrame  string
	commandFrame   string
	controlDims    ControlDimensions
	driftDims      DriftDimensions
	prevVelocity   []float64
}

func (c *Core) snapshot() tickSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return tickSnapshot{
		twist:         c.latestTwist,
		twistFresh:    c.twistFresh,
		jointJog:      c.latestJointJog,
		jointJogFresh: c.jointJogFresh,
		planningFrame: c.latestPlanningFrame,
		commandFrame:  c.latestCommandFrame,
		controlDims:   c.controlDims,
		driftDims:     c.driftDims,
		prevVelocity:  append([]float64(nil), c.prevJointVelocity...),
	}
}

// pollJointState retries Latest until a snapshot arrives or ctx is
// cancelled, the one point in the cycle allowed to block (§5).
func (c *Core) pollJointState(ctx context.Context) (JointState, bool) {
	for {
		if state, ok := c.jointFeed.Latest(ctx); ok {
			return state, true
		}
		select {
		case <-ctx.Done():
			return JointState{}, false
		case <-time.After(time.Millisecond):
		}
	}
}

// tick runs one full cycle: poll joint state,
// snapshot commanded input, resolve the run state, dispatch to the
// Cartesian or joint path (or halt/idle), publish the result plus the
// status and worst-case-stop-time side channels.
func (c *Core) tick(ctx context.Context) {
	jointState, ok := c.pollJointState(ctx)
	if !ok {
		return
	}

	snap := c.snapshot()

	commandIsZero := true
	switch {
	case snap.twistFresh:
		commandIsZero = snap.twist.Twist.IsZero()
	case snap.jointJogFresh:
		commandIsZero = !snap.jointJog.IsNonZero()
	}

	c.mu.Lock()
	state := c.freshness.evaluate(commandIsZero)
	c.mu.Unlock()

	status := StatusNoWarning
	var traj *JointTrajectory

	switch state {
	case stateWaitingForInitial, statePaused:
		// No command to act on; only status and stop-time publish. Re-seed
		// the filter bank so the next committed delta isn't smoothed
		// against stale history.
		c.filters.Reset(jointState.Position)
	case stateHalting:
		traj = c.outgoing.buildHalt(c.model.Names, jointState.Position)
		c.filters.Reset(jointState.Position)
	case stateActive:
		collisionScale := c.collision.Scale()
		var result inverseResult
		var err error
		if snap.jointJogFresh {
			deltaTheta, jStatus, jErr := c.jointPath.compute(snap.jointJog, c.model, snap.prevVelocity, collisionScale)
			result = inverseResult{deltaTheta: deltaTheta, singularityScale: 1, singularityStatus: jStatus}
			err = jErr
		} else {
			result, err = c.cartesian.compute(ctx, snap.twist, c.model, jointState.Position, snap.prevVelocity, snap.controlDims, snap.driftDims, collisionScale, snap.planningFrame)
		}
		if err != nil {
			c.logger.Warnw("dropping cycle: command rejected", "error", err)
			c.filters.Reset(jointState.Position)
			break
		}
		if result.singularityStatus != StatusNoWarning {
			status = result.singularityStatus
		}

		built, buildStatus, err := c.outgoing.build(c.model.Names, jointState.Position, result.deltaTheta, c.model.Limits)
		if err != nil {
			c.logger.Warnw("dropping cycle: outgoing build failed", "error", err)
			c.filters.Reset(jointState.Position)
			break
		}
		if buildStatus != StatusNoWarning {
			status = buildStatus
		}
		traj = built

		dt := c.cfg.PublishPeriod.Seconds()
		committedVelocity := make([]float64, len(result.deltaTheta))
		for i, d := range result.deltaTheta {
			committedVelocity[i] = d / dt
		}
		c.mu.Lock()
		c.prevJointVelocity = committedVelocity
		c.mu.Unlock()
	}

	// A safety status stays set until ResetServoStatus clears it; a quiet
	// cycle does not overwrite it with NoWarning.
	c.mu.Lock()
	if status != StatusNoWarning {
		c.currentStatus = status
	}
	status = c.currentStatus
	c.mu.Unlock()

	if c.statusPub != nil {
		c.statusPub.PublishStatus(ctx, status)
	}
	if c.stopTimePub != nil {
		c.stopTimePub.PublishWorstCaseStopTime(ctx, worstCaseStopTime(jointState.Velocity, c.model.Limits))
	}
	if traj != nil && c.cmdPub != nil {
		c.cmdPub.PublishCommand(ctx, toOutgoing(c.cfg.CommandOutType, traj, c.cfg.PublishJointPositions))
	}
}
