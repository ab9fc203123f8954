package servo

import (
	"context"
	"sync"
	"time"

	"go.viam.com/utils"

	"go.viam.com/servocalcs/control"
	"go.viam.com/servocalcs/kinematics"
	"go.viam.com/servocalcs/logging"
	"go.viam.com/servocalcs/spatialmath"
)

// Core is the servoing calculation core: given a periodic tick, the latest
// commanded twist or joint jog, measured joint state, and a collision
// velocity scale, it produces the next outgoing trajectory or halt command.
// It owns no transport, parameter loading, or kinematics of its own; those
// are the Provider, JointStateFeed, CollisionMonitor, and publisher
// collaborators passed to NewCore.
type Core struct {
	cfg       Config
	provider  kinematics.Provider
	jointFeed JointStateFeed
	collision CollisionMonitor
	tf        kinematics.TFLookup

	statusPub   StatusPublisher
	stopTimePub WorstCaseStopTimePublisher
	cmdPub      CommandPublisher

	clock  Clock
	logger logging.Logger

	scaler     *scaler
	frames     *frameResolver
	inverse    *inverseStep
	limits     *limitEnforcer
	cartesian  *cartesianPath
	jointPath  *jointPath
	outgoing   *outgoingBuilder
	filters    *control.Bank
	freshness  *freshnessTracker

	model kinematics.JointSetModel

	mu                  sync.Mutex
	latestTwist         TwistStamped
	twistFresh          bool
	latestJointJog      JointJog
	jointJogFresh       bool
	latestPlanningFrame string
	latestCommandFrame  string
	controlDims         ControlDimensions
	driftDims           DriftDimensions
	prevJointVelocity   []float64
	currentStatus       Status

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCore constructs a Core. It queries provider for the active joint set
// once up front to size the filter bank and previous-velocity vector; the
// active joint set is assumed stable for the Core's lifetime, matching a
// fixed move group.
func NewCore(
	ctx context.Context,
	cfg Config,
	provider kinematics.Provider,
	jointFeed JointStateFeed,
	collision CollisionMonitor,
	tf kinematics.TFLookup,
	statusPub StatusPublisher,
	stopTimePub WorstCaseStopTimePublisher,
	cmdPub CommandPublisher,
	logger logging.Logger,
) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := provider.JointSetModel(ctx)
	if err != nil {
		return nil, err
	}

	l := logger.Sublogger("servo")
	s := newScaler(cfg, l)
	frames := newFrameResolver(provider, tf, l)
	inverse := newInverseStep(provider, l)
	limits := newLimitEnforcer(cfg, l)
	filters := control.NewBank(model.NumJoints(), cfg.LowPassFilterCoeff)

	c := &Core{
		cfg:               cfg,
		model:             model,
		provider:          provider,
		jointFeed:         jointFeed,
		collision:         collision,
		tf:                tf,
		statusPub:         statusPub,
		stopTimePub:       stopTimePub,
		cmdPub:            cmdPub,
		clock:             systemClock{},
		logger:            l,
		scaler:            s,
		frames:            frames,
		inverse:           inverse,
		limits:            limits,
		cartesian:         newCartesianPath(s, frames, inverse, limits, provider, cfg, l),
		jointPath:         newJointPath(s, limits),
		filters:           filters,
		freshness:         newFreshnessTracker(cfg, systemClock{}),
		controlDims:       AllTrue(),
		driftDims:         DriftDimensions{},
		prevJointVelocity: make([]float64, model.NumJoints()),
		latestPlanningFrame: cfg.PlanningFrame,
		latestCommandFrame:  cfg.RobotLinkCommandFrame,
	}
	c.outgoing = newOutgoingBuilder(cfg, limits, filters, c.clock)

	return c, nil
}

// SetTwistCommand records the latest Cartesian jog command. Non-blocking;
// consumed on the next tick.
func (c *Core) SetTwistCommand(t TwistStamped) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latestTwist = t
	c.twistFresh = true
	c.jointJogFresh = false
	c.freshness.noteCommandReceived(t.Stamp)
}

// SetJointJogCommand records the latest joint-jog command.
func (c *Core) SetJointJogCommand(j JointJog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latestJointJog = j
	c.jointJogFresh = true
	c.twistFresh = false
	c.freshness.noteCommandReceived(j.Stamp)
}

// SetPlanningFrame updates the frame twists are resolved into.
func (c *Core) SetPlanningFrame(frame string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latestPlanningFrame = frame
}

// SetRobotLinkCommandFrame updates the frame used to answer
// GetCommandFrameTransform.
func (c *Core) SetRobotLinkCommandFrame(frame string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latestCommandFrame = frame
}

// SetPaused pauses or resumes servoing without clearing the last commanded
// frame or status.
func (c *Core) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freshness.setPaused(paused)
}

// ChangeDriftDimensions updates which task-space rows are removed from the
// Jacobian, returning false if provider state makes the change invalid
// (kept for parity with the reference service call's success flag; this
// implementation always succeeds once constructed).
func (c *Core) ChangeDriftDimensions(dims DriftDimensions) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.driftDims = dims
	return true
}

// ChangeControlDimensions updates which task-space axes are actively
// commanded.
func (c *Core) ChangeControlDimensions(dims ControlDimensions) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controlDims = dims
	return true
}

// ResetServoStatus clears the last-reported status without affecting pause
// state or the freshness state machine.
func (c *Core) ResetServoStatus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentStatus = StatusNoWarning
}

// GetCommandFrameTransform returns planning_frame -> robot_link_command_frame
// as currently resolved. The bool is false only when either frame name is
// empty; a frame whose lookup fails resolves to the identity transform and
// the bool is still true.
func (c *Core) GetCommandFrameTransform(ctx context.Context) (spatialmath.Pose, bool) {
	c.mu.Lock()
	planning := c.latestPlanningFrame
	command := c.latestCommandFrame
	c.mu.Unlock()

	if planning == "" || command == "" {
		return spatialmath.NewZeroPose(), false
	}
	pose := c.frames.calculateCommandFrameTransform(ctx, planning, command)
	return pose, true
}

// Start launches the periodic tick goroutine. Stop must be called to release
// it.
func (c *Core) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	utils.ManagedGo(func() {
		c.run(runCtx)
	}, c.wg.Done)
}

// Stop cancels the tick goroutine and waits for it to exit.
func (c *Core) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

func (c *Core) run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.PublishPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}
