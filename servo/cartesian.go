package servo

import (
	"context"

	"gonum.org/v1/gonum/spatial/r3"

	"go.viam.com/servocalcs/kinematics"
	"go.viam.com/servocalcs/logging"
)

// cartesianPath implements the Cartesian half of §4.1 step 5 plus §4.3: zero
// non-control axes, scale, rotate into the planning frame, then hand off to
// the inverse step and limit enforcer.
type cartesianPath struct {
	scaler   *scaler
	frames   *frameResolver
	inverse  *inverseStep
	limits   *limitEnforcer
	provider kinematics.Provider
	cfg      Config
	logger   logging.Logger
}

func newCartesianPath(scaler *scaler, frames *frameResolver, inverse *inverseStep, limits *limitEnforcer, provider kinematics.Provider, cfg Config, logger logging.Logger) *cartesianPath {
	return &cartesianPath{scaler: scaler, frames: frames, inverse: inverse, limits: limits, provider: provider, cfg: cfg, logger: logger.Sublogger("cartesian")}
}

func (p *cartesianPath) compute(
	ctx context.Context,
	twist TwistStamped,
	model kinematics.JointSetModel,
	jointPositions []float64,
	prevVelocity []float64,
	controlDims ControlDimensions,
	driftDims DriftDimensions,
	collisionScale float64,
	planningFrame string,
) (inverseResult, error) {
	raw := twist.Twist
	for i := range raw {
		if !controlDims[i] {
			raw[i] = 0
		}
	}

	scaled, err := p.scaler.scaleCartesianCommand(raw)
	if err != nil {
		return inverseResult{}, err
	}

	deltaX := rotateTwistToPlanningFrame(ctx, p.frames, planningFrame, twist.Frame, scaled)

	jacobian, err := p.provider.Jacobian(ctx, jointPositions)
	if err != nil {
		return inverseResult{}, err
	}

	reducedJacobian, reducedDeltaX := removeDriftDimensions(jacobian, deltaX, driftDims)

	result, err := p.inverse.compute(ctx, jointPositions, reducedJacobian, reducedDeltaX, p.cfg.LowerSingularityThreshold, p.cfg.HardStopSingularityThreshold)
	if err != nil {
		return inverseResult{}, err
	}

	result.deltaTheta = p.limits.clipAcceleration(result.deltaTheta, prevVelocity, model.Limits)
	result.deltaTheta = p.limits.clipVelocity(result.deltaTheta, model.Limits)

	for i := range result.deltaTheta {
		result.deltaTheta[i] *= result.singularityScale * collisionScale
	}
	if collisionScale <= 0 {
		result.singularityStatus = StatusHaltForCollision
	}

	return result, nil
}

// rotateTwistToPlanningFrame maps a scaled command-frame twist into the
// planning frame using only the frame's rotational component; twists are
// free vectors, not points, so no translation applies.
func rotateTwistToPlanningFrame(ctx context.Context, frames *frameResolver, planningFrame, commandFrame string, scaled Twist) []float64 {
	if commandFrame == "" || commandFrame == planningFrame {
		return scaled[:]
	}
	pose := frames.calculateCommandFrameTransform(ctx, planningFrame, commandFrame)
	lin := pose.RotateVector(r3.Vec{X: scaled[0], Y: scaled[1], Z: scaled[2]})
	ang := pose.RotateVector(r3.Vec{X: scaled[3], Y: scaled[4], Z: scaled[5]})
	return []float64{lin.X, lin.Y, lin.Z, ang.X, ang.Y, ang.Z}
}
