// Package kinematics describes the kinematic model the servoing core reads
// from its kinematics provider: the active joint group, per-joint limits,
// and the provider interface itself. The provider's actual forward
// kinematics and frame-transform machinery live outside this module; only
// the shapes the servoing core consumes are defined here.
package kinematics

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/servocalcs/spatialmath"
)

// JointLimits describes the bounds available for a single active joint. A
// bound is only enforced when its *Bounded flag is set, matching SRDF's
// "some joints do not have bounds defined."
type JointLimits struct {
	AccelerationBounded bool
	MinAcceleration     float64
	MaxAcceleration     float64

	VelocityBounded bool
	MinVelocity     float64
	MaxVelocity     float64

	PositionBounded bool
	MinPosition     float64
	MaxPosition     float64
}

// JointSetModel is the ordered set of active joints the servoing core
// operates over, as reported by the kinematics provider for the configured
// move group.
type JointSetModel struct {
	Names  []string
	Limits []JointLimits
}

// NumJoints returns N, the number of active joints.
func (m JointSetModel) NumJoints() int { return len(m.Names) }

// IndexOf returns the internal index of a joint name, or -1 if the provider
// doesn't know about it.
func (m JointSetModel) IndexOf(name string) int {
	for i, n := range m.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Provider is the kinematics collaborator the servoing core queries every
// cycle: forward kinematics, the Jacobian of the active joint group, joint
// bound metadata, and frame-transform lookups. It is implemented outside
// this module (a real MoveGroup/URDF-backed solver in production, a fake in
// tests); the core never computes forward kinematics itself.
type Provider interface {
	// JointSetModel returns the active joint group's ordered names and bounds.
	JointSetModel(ctx context.Context) (JointSetModel, error)

	// Jacobian returns the 6xN Jacobian of the active joint group evaluated
	// at jointPositions (radians), rows ordered [lin x,y,z, ang x,y,z].
	Jacobian(ctx context.Context, jointPositions []float64) (*mat.Dense, error)

	// KnowsFrameTransform reports whether the provider's cached kinematic
	// state already has a transform for frame (e.g. it's a link on the
	// model), sparing a TF lookup.
	KnowsFrameTransform(ctx context.Context, frame string) bool

	// FrameTransform returns the transform from the model's root link to
	// frame. Only valid when KnowsFrameTransform(frame) is true.
	FrameTransform(ctx context.Context, frame string) (spatialmath.Pose, error)

	// RootLinkName returns the name of the kinematic model's root link, the
	// common ancestor used to resolve frames the provider doesn't know via
	// an external TF lookup.
	RootLinkName(ctx context.Context) string
}

// TFLookup resolves a frame transform relative to a reference link through
// an external transform tree, for frames the kinematics provider doesn't
// know about directly (e.g. a camera frame published by another node).
type TFLookup interface {
	LookupTransform(ctx context.Context, frame, referenceFrame string) (spatialmath.Pose, error)
}
