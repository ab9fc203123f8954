package servo

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/servocalcs/kinematics"
	"go.viam.com/servocalcs/spatialmath"
)

// fakeProvider is a minimal kinematics.Provider test double: a fixed
// three-joint model with a caller-supplied Jacobian function so tests can
// drive specific condition numbers without a real kinematic chain.
type fakeProvider struct {
	model        kinematics.JointSetModel
	jacobianFunc func(jointPositions []float64) (*mat.Dense, error)
	rootLink     string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		model: kinematics.JointSetModel{
			Names: []string{"joint_1", "joint_2", "joint_3"},
			Limits: []kinematics.JointLimits{
				{AccelerationBounded: true, MinAcceleration: -10, MaxAcceleration: 10,
					VelocityBounded: true, MinVelocity: -2, MaxVelocity: 2,
					PositionBounded: true, MinPosition: -3, MaxPosition: 3},
				{AccelerationBounded: true, MinAcceleration: -10, MaxAcceleration: 10,
					VelocityBounded: true, MinVelocity: -2, MaxVelocity: 2,
					PositionBounded: true, MinPosition: -3, MaxPosition: 3},
				{AccelerationBounded: true, MinAcceleration: -10, MaxAcceleration: 10,
					VelocityBounded: true, MinVelocity: -2, MaxVelocity: 2,
					PositionBounded: true, MinPosition: -3, MaxPosition: 3},
			},
		},
		rootLink: "base_link",
		jacobianFunc: func(jointPositions []float64) (*mat.Dense, error) {
			return mat.NewDense(6, 3, []float64{
				1, 0, 0,
				0, 1, 0,
				0, 0, 1,
				0, 0, 0,
				0, 0, 0,
				0, 0, 0,
			}), nil
		},
	}
}

func (p *fakeProvider) JointSetModel(ctx context.Context) (kinematics.JointSetModel, error) {
	return p.model, nil
}

func (p *fakeProvider) Jacobian(ctx context.Context, jointPositions []float64) (*mat.Dense, error) {
	return p.jacobianFunc(jointPositions)
}

func (p *fakeProvider) KnowsFrameTransform(ctx context.Context, frame string) bool {
	return false
}

func (p *fakeProvider) FrameTransform(ctx context.Context, frame string) (spatialmath.Pose, error) {
	return spatialmath.NewZeroPose(), nil
}

func (p *fakeProvider) RootLinkName(ctx context.Context) string {
	return p.rootLink
}

// fakeTF is a kinematics.TFLookup test double that always resolves to the
// identity transform.
type fakeTF struct{}

func (fakeTF) LookupTransform(ctx context.Context, frame, referenceFrame string) (spatialmath.Pose, error) {
	return spatialmath.NewZeroPose(), nil
}

// fakeJointStateFeed is a JointStateFeed test double returning a fixed
// snapshot.
type fakeJointStateFeed struct {
	state JointState
	ok    bool
}

func (f *fakeJointStateFeed) Latest(ctx context.Context) (JointState, bool) {
	return f.state, f.ok
}

// fakeCollisionMonitor is a CollisionMonitor test double with a settable
// scale.
type fakeCollisionMonitor struct {
	scale float64
}

func (f *fakeCollisionMonitor) Scale() float64 { return f.scale }

// fakeClock is a Clock test double with a settable time.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

// fakeStatusPublisher records every published status.
type fakeStatusPublisher struct {
	statuses []Status
}

func (f *fakeStatusPublisher) PublishStatus(ctx context.Context, status Status) {
	f.statuses = append(f.statuses, status)
}

// fakeStopTimePublisher records every published worst-case stop time.
type fakeStopTimePublisher struct {
	values []float64
}

func (f *fakeStopTimePublisher) PublishWorstCaseStopTime(ctx context.Context, seconds float64) {
	f.values = append(f.values, seconds)
}

// fakeCommandPublisher records every published outgoing command.
type fakeCommandPublisher struct {
	commands []OutgoingCommand
}

func (f *fakeCommandPublisher) PublishCommand(ctx context.Context, cmd OutgoingCommand) {
	f.commands = append(f.commands, cmd)
}
