package servo

import "time"

// Twist is a 6-vector (linear velocity; angular velocity) expressed in some
// reference frame: [lin x, lin y, lin z, ang x, ang y, ang z].
type Twist [6]float64

// IsZero reports whether every component of the twist is exactly zero.
func (t Twist) IsZero() bool {
	for _, v := range t {
		if v != 0 {
			return false
		}
	}
	return true
}

// TwistStamped is an incoming Cartesian jog command.
type TwistStamped struct {
	Frame string
	Stamp time.Time
	Twist Twist
}

// JointJogPoint is one (name, velocity) pair inside a JointJog command.
type JointJogPoint struct {
	Name     string
	Velocity float64
}

// JointJog is an incoming per-joint velocity command.
type JointJog struct {
	Stamp time.Time
	Joint []JointJogPoint
}

// IsNonZero reports whether any commanded joint velocity is nonzero.
func (j JointJog) IsNonZero() bool {
	for _, p := range j.Joint {
		if p.Velocity != 0 {
			return true
		}
	}
	return false
}

// JointState is a snapshot of measured joint positions and velocities,
// published by the joint-state feed collaborator.
type JointState struct {
	Name     []string
	Position []float64
	Velocity []float64
}

// ControlDimensions selects which of the six task-space axes are actively
// commanded; axes flagged false are zeroed pre-transform.
type ControlDimensions [6]bool

// DriftDimensions selects which task-space rows are removed from the
// Jacobian to exploit redundancy.
type DriftDimensions [6]bool

// AllTrue returns a dimension mask with every axis enabled, the default for
// ControlDimensions.
func AllTrue() [6]bool {
	return [6]bool{true, true, true, true, true, true}
}
