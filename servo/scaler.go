package servo

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/servocalcs/kinematics"
	"go.viam.com/servocalcs/logging"
)

// scaler turns raw Cartesian or joint-jog input into the per-cycle delta
// vectors the inverse step and joint path consume, per §4.2.
type scaler struct {
	cfg    Config
	logger logging.Logger
}

func newScaler(cfg Config, logger logging.Logger) *scaler {
	return &scaler{cfg: cfg, logger: logger.Sublogger("scaler")}
}

// scaleCartesianCommand maps a twist to a 6-vector delta-x. Returns an error
// for NaN components or (in unitless mode) components outside [-1, 1]; both
// are input-rejected cycles per §7.
func (s *scaler) scaleCartesianCommand(t Twist) (Twist, error) {
	for _, v := range t {
		if math.IsNaN(v) {
			return Twist{}, errors.New("nan in incoming twist command")
		}
	}

	var out Twist
	switch s.cfg.CommandInType {
	case CommandInUnitless:
		for i, v := range t {
			if math.Abs(v) > 1 {
				return Twist{}, errors.Errorf("twist component %d magnitude %v exceeds unitless range [-1,1]", i, v)
			}
		}
		dt := s.cfg.PublishPeriod.Seconds()
		out[0] = s.cfg.LinearScale * dt * t[0]
		out[1] = s.cfg.LinearScale * dt * t[1]
		out[2] = s.cfg.LinearScale * dt * t[2]
		out[3] = s.cfg.RotationalScale * dt * t[3]
		out[4] = s.cfg.RotationalScale * dt * t[4]
		out[5] = s.cfg.RotationalScale * dt * t[5]
	case CommandInSpeedUnits:
		dt := s.cfg.PublishPeriod.Seconds()
		for i, v := range t {
			out[i] = v * dt
		}
	default:
		s.logger.Errorw("unexpected command_in_type", "type", s.cfg.CommandInType)
		return Twist{}, nil
	}
	return out, nil
}

// scaleJointCommand maps a named joint-jog command to a length-N delta-theta
// vector in the model's internal joint order. Unknown joint names are
// dropped with a warning, matching the moveit_servo behavior of ignoring
// joints outside the active group instead of failing the whole cycle.
func (s *scaler) scaleJointCommand(jog JointJog, model kinematics.JointSetModel) ([]float64, error) {
	for _, p := range jog.Joint {
		if math.IsNaN(p.Velocity) {
			return nil, errors.New("nan in incoming joint jog command")
		}
	}

	out := make([]float64, model.NumJoints())
	dt := s.cfg.PublishPeriod.Seconds()
	for _, p := range jog.Joint {
		idx := model.IndexOf(p.Name)
		if idx < 0 {
			s.logger.Warnw("ignoring joint jog for unknown joint", "joint", p.Name)
			continue
		}
		switch s.cfg.CommandInType {
		case CommandInUnitless:
			out[idx] = p.Velocity * s.cfg.JointScale * dt
		case CommandInSpeedUnits:
			out[idx] = p.Velocity * dt
		default:
			s.logger.Errorw("unexpected command_in_type", "type", s.cfg.CommandInType)
			return make([]float64, model.NumJoints()), nil
		}
	}
	return out, nil
}
