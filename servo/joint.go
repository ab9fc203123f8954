package servo

import (
	"go.viam.com/servocalcs/kinematics"
)

// jointPath implements §4.4: joint-jog commands skip the Jacobian and
// singularity scale entirely (s_sing is fixed at 1) but still go through
// collision scaling and the acceleration/velocity limit enforcer.
type jointPath struct {
	scaler *scaler
	limits *limitEnforcer
}

func newJointPath(scaler *scaler, limits *limitEnforcer) *jointPath {
	return &jointPath{scaler: scaler, limits: limits}
}

func (p *jointPath) compute(jog JointJog, model kinematics.JointSetModel, prevVelocity []float64, collisionScale float64) ([]float64, Status, error) {
	deltaTheta, err := p.scaler.scaleJointCommand(jog, model)
	if err != nil {
		return nil, StatusNoWarning, err
	}

	deltaTheta = p.limits.clipAcceleration(deltaTheta, prevVelocity, model.Limits)
	deltaTheta = p.limits.clipVelocity(deltaTheta, model.Limits)

	status := StatusNoWarning
	if collisionScale <= 0 {
		status = StatusHaltForCollision
	}
	for i := range deltaTheta {
		deltaTheta[i] *= collisionScale
	}

	return deltaTheta, status, nil
}
