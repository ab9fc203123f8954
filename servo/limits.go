package servo

import (
	"math"

	"go.viam.com/servocalcs/kinematics"
	"go.viam.com/servocalcs/logging"
)

// limitEnforcer implements §4.5: acceleration and velocity clipping by a
// per-joint scalar ratio, and position-bound checking against the outgoing
// command. Each joint is clipped by its own ratio, independent of what any
// other joint needs; a joint already inside its bound is left untouched.
type limitEnforcer struct {
	cfg    Config
	logger logging.Logger
}

func newLimitEnforcer(cfg Config, logger logging.Logger) *limitEnforcer {
	return &limitEnforcer{cfg: cfg, logger: logger.Sublogger("limits")}
}

// clipAcceleration scales each joint's deltaTheta independently by its own
// ratio needed to keep its implied acceleration within bounds, given the
// previous cycle's joint velocity. A joint within its own bound is never
// touched, regardless of what any other joint needs.
func (l *limitEnforcer) clipAcceleration(deltaTheta, prevVelocity []float64, limits []kinematics.JointLimits) []float64 {
	dt := l.cfg.PublishPeriod.Seconds()
	out := append([]float64(nil), deltaTheta...)
	for i, lim := range limits {
		if !lim.AccelerationBounded || i >= len(out) {
			continue
		}
		prevV := 0.0
		if i < len(prevVelocity) {
			prevV = prevVelocity[i]
		}
		velocity := out[i] / dt
		accel := (velocity - prevV) / dt

		var bound float64
		switch {
		case accel < lim.MinAcceleration:
			bound = lim.MinAcceleration
		case accel > lim.MaxAcceleration:
			bound = lim.MaxAcceleration
		default:
			continue
		}
		if bound == 0 || out[i] == 0 {
			continue
		}
		r := ((bound*dt + prevV) * dt) / out[i]
		if r > 0 && r < 1 {
			out[i] *= r
		}
	}
	return out
}

// clipVelocity scales each joint's deltaTheta independently by its own
// ratio needed to keep its implied velocity within bounds.
func (l *limitEnforcer) clipVelocity(deltaTheta []float64, limits []kinematics.JointLimits) []float64 {
	dt := l.cfg.PublishPeriod.Seconds()
	out := append([]float64(nil), deltaTheta...)
	for i, lim := range limits {
		if !lim.VelocityBounded || i >= len(out) {
			continue
		}
		velocity := out[i] / dt

		var bound float64
		switch {
		case velocity < 0:
			bound = lim.MinVelocity
		case velocity > 0:
			bound = lim.MaxVelocity
		default:
			continue
		}
		if bound == 0 {
			continue
		}
		r := bound / velocity
		if r > 0 && r < 1 {
			out[i] *= r
		}
	}
	return out
}

// checkPositionBounds reports whether any joint in internalPosition would
// cross its bound once margin is applied, per §4.5(c). It's invoked from
// the outgoing builder after the low-pass filter, not from the acceleration/
// velocity clip stage.
func (l *limitEnforcer) checkPositionBounds(internalPosition []float64, limits []kinematics.JointLimits) bool {
	margin := l.cfg.JointLimitMargin
	for i, lim := range limits {
		if !lim.PositionBounded || i >= len(internalPosition) {
			continue
		}
		p := internalPosition[i]
		if p <= lim.MinPosition+margin || p >= lim.MaxPosition-margin {
			return true
		}
	}
	return false
}

// worstCaseStopTime returns the longest time any joint would need to reach
// zero velocity under its own acceleration bound, given measured velocity.
func worstCaseStopTime(measuredVelocity []float64, limits []kinematics.JointLimits) float64 {
	worst := 0.0
	for i, lim := range limits {
		if !lim.AccelerationBounded || i >= len(measuredVelocity) {
			continue
		}
		v := measuredVelocity[i]
		var bound float64
		if v < 0 {
			bound = lim.MinAcceleration
		} else if v > 0 {
			bound = lim.MaxAcceleration
		} else {
			continue
		}
		if bound == 0 {
			continue
		}
		t := math.Abs(v / bound)
		if t > worst {
			worst = t
		}
	}
	return worst
}
