package servo

import (
	"time"

	"github.com/pkg/errors"

	"go.viam.com/servocalcs/control"
	"go.viam.com/servocalcs/kinematics"
)

// outgoingBuilder implements §4.6: turns a joint delta into the filtered,
// bound-checked trajectory point that gets published, applying the
// simulator padding step when configured.
type outgoingBuilder struct {
	cfg     Config
	limits  *limitEnforcer
	filters *control.Bank
	clock   Clock
}

func newOutgoingBuilder(cfg Config, limits *limitEnforcer, filters *control.Bank, clock Clock) *outgoingBuilder {
	return &outgoingBuilder{cfg: cfg, limits: limits, filters: filters, clock: clock}
}

// build computes internal_position = original_position + delta_theta, runs
// it through the low-pass filter bank, and checks the filtered result
// against joint position bounds. A bound violation rewrites the point to a
// halt (original_position, zero velocity) and reports JOINT_BOUND; the
// filter bank is reset to original_position in that case so the next cycle
// resumes without a jump.
func (b *outgoingBuilder) build(jointNames []string, originalPosition, deltaTheta []float64, limits []kinematics.JointLimits) (*JointTrajectory, Status, error) {
	if len(originalPosition) != len(deltaTheta) {
		return nil, StatusNoWarning, errors.New("original position and delta theta size mismatch")
	}
	n := len(originalPosition)

	internal := make([]float64, n)
	for i := range internal {
		internal[i] = originalPosition[i] + deltaTheta[i]
	}

	filtered := append([]float64(nil), internal...)
	b.filters.Filter(filtered)

	status := StatusNoWarning
	positions := filtered
	dt := b.cfg.PublishPeriod.Seconds()
	velocities := make([]float64, n)
	for i := range velocities {
		velocities[i] = deltaTheta[i] / dt
	}

	if b.limits.checkPositionBounds(filtered, limits) {
		status = StatusJointBound
		positions = append([]float64(nil), originalPosition...)
		velocities = make([]float64, n)
		b.filters.Reset(originalPosition)
	}

	point := JointTrajectoryPoint{TimeFromStart: b.cfg.PublishPeriod}
	if b.cfg.PublishJointPositions {
		point.Positions = positions
	}
	if b.cfg.PublishJointVelocities {
		point.Velocities = velocities
	}

	points := []JointTrajectoryPoint{point}
	if b.cfg.UseGazebo {
		for i := 1; i < b.cfg.GazeboRedundantMsgCount; i++ {
			pad := point
			pad.TimeFromStart = time.Duration(i) * b.cfg.PublishPeriod
			points = append(points, pad)
		}
	}

	traj := &JointTrajectory{
		Stamp:      b.clock.Now(),
		JointNames: jointNames,
		Points:     points,
	}
	return traj, status, nil
}
