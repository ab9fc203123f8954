package servo

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/servocalcs/logging"
)

func newTestCartesianPath(t *testing.T, cfg Config, provider *fakeProvider) *cartesianPath {
	logger := logging.NewTestLogger(t)
	s := newScaler(cfg, logger)
	frames := newFrameResolver(provider, fakeTF{}, logger)
	inverse := newInverseStep(provider, logger)
	le := newLimitEnforcer(cfg, logger)
	return newCartesianPath(s, frames, inverse, le, provider, cfg, logger)
}

func TestCartesianPathUnitlessLinearX(t *testing.T) {
	cfg := testConfig()
	provider := newFakeProvider()
	cp := newTestCartesianPath(t, cfg, provider)

	twist := TwistStamped{Frame: cfg.PlanningFrame, Twist: Twist{1, 0, 0, 0, 0, 0}}
	result, err := cp.compute(context.Background(), twist, provider.model, []float64{0, 0, 0}, make([]float64, 3), AllTrue(), DriftDimensions{}, 1.0, cfg.PlanningFrame)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.deltaTheta[0], test.ShouldBeGreaterThan, 0.0)
	test.That(t, result.singularityStatus, test.ShouldEqual, StatusNoWarning)
}

func TestCartesianPathZeroesNonControlDimensions(t *testing.T) {
	cfg := testConfig()
	provider := newFakeProvider()
	cp := newTestCartesianPath(t, cfg, provider)

	dims := AllTrue()
	dims[0] = false
	twist := TwistStamped{Frame: cfg.PlanningFrame, Twist: Twist{1, 0, 0, 0, 0, 0}}
	result, err := cp.compute(context.Background(), twist, provider.model, []float64{0, 0, 0}, make([]float64, 3), dims, DriftDimensions{}, 1.0, cfg.PlanningFrame)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.deltaTheta[0], test.ShouldAlmostEqual, 0.0)
}

func TestCartesianPathClipsAccelerationBeforeCollisionScale(t *testing.T) {
	cfg := testConfig()
	provider := newFakeProvider()
	cp := newTestCartesianPath(t, cfg, provider)

	// Raw (pre-scale) commanded delta on joint_1 is 0.4*0.02 = 0.008, which
	// implies an acceleration of 20 against a bound of 10 -- the limit
	// enforcer must clip against that raw magnitude, halving it to 0.004,
	// before the 0.3 collision scale is applied: 0.004*0.3 = 0.0012. If
	// collision scaling were applied first, the pre-clip delta would shrink
	// to 0.0024 (implied acceleration 6, within bound) and no clip would
	// fire at all, leaving 0.0024 instead.
	twist := TwistStamped{Frame: cfg.PlanningFrame, Twist: Twist{1, 0, 0, 0, 0, 0}}
	result, err := cp.compute(context.Background(), twist, provider.model, []float64{0, 0, 0}, make([]float64, 3), AllTrue(), DriftDimensions{}, 0.3, cfg.PlanningFrame)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.deltaTheta[0], test.ShouldAlmostEqual, 0.0012)
}

func TestCartesianPathHaltsOnCollisionScaleZero(t *testing.T) {
	cfg := testConfig()
	provider := newFakeProvider()
	cp := newTestCartesianPath(t, cfg, provider)

	twist := TwistStamped{Frame: cfg.PlanningFrame, Twist: Twist{1, 0, 0, 0, 0, 0}}
	result, err := cp.compute(context.Background(), twist, provider.model, []float64{0, 0, 0}, make([]float64, 3), AllTrue(), DriftDimensions{}, 0, cfg.PlanningFrame)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.singularityStatus, test.ShouldEqual, StatusHaltForCollision)
	test.That(t, result.deltaTheta[0], test.ShouldAlmostEqual, 0.0)
}
