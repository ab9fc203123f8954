package servo

import (
	"context"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/servocalcs/logging"
)

func TestRemoveDriftDimensionsDropsFlaggedRows(t *testing.T) {
	j := mat.NewDense(6, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		0, 0,
		0, 0,
		0, 0,
	})
	deltaX := []float64{1, 2, 3, 4, 5, 6}
	drift := DriftDimensions{false, false, false, true, true, true}

	reduced, reducedDX := removeDriftDimensions(j, deltaX, drift)
	rows, _ := reduced.Dims()
	test.That(t, rows, test.ShouldEqual, 3)
	test.That(t, len(reducedDX), test.ShouldEqual, 3)
	test.That(t, reducedDX[0], test.ShouldAlmostEqual, 1.0)
	test.That(t, reducedDX[2], test.ShouldAlmostEqual, 3.0)
}

func TestRemoveDriftDimensionsNeverEmptiesJacobian(t *testing.T) {
	j := mat.NewDense(1, 1, []float64{1})
	deltaX := []float64{1}
	drift := DriftDimensions{true, true, true, true, true, true}
	reduced, reducedDX := removeDriftDimensions(j, deltaX, drift)
	rows, _ := reduced.Dims()
	test.That(t, rows, test.ShouldEqual, 1)
	test.That(t, len(reducedDX), test.ShouldEqual, 1)
}

func TestInverseComputeReturnsNoWarningFarFromSingularity(t *testing.T) {
	provider := newFakeProvider()
	step := newInverseStep(provider, logging.NewTestLogger(t))

	jacobian := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	deltaX := []float64{0.01, 0, 0}

	result, err := step.compute(context.Background(), []float64{0, 0, 0}, jacobian, deltaX, 17, 30)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.singularityStatus, test.ShouldEqual, StatusNoWarning)
	test.That(t, result.singularityScale, test.ShouldAlmostEqual, 1.0)
	test.That(t, result.deltaTheta[0], test.ShouldAlmostEqual, 0.01)
}

func TestInverseComputeStatusMatchesScaleNearSingularity(t *testing.T) {
	provider := newFakeProvider()
	step := newInverseStep(provider, logging.NewTestLogger(t))

	// A near-singular jacobian: last singular value nearly zero.
	jacobian := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1e-6,
	})
	deltaX := []float64{0, 0, 1}

	result, err := step.compute(context.Background(), []float64{0, 0, 0}, jacobian, deltaX, 17, 30)
	test.That(t, err, test.ShouldBeNil)
	// The probe's sign disambiguation is direction-dependent, but whichever
	// way it resolves, status and scale must stay consistent with each other.
	switch result.singularityStatus {
	case StatusHaltForSingularity:
		test.That(t, result.singularityScale, test.ShouldAlmostEqual, 0.0)
	case StatusDecelerateForSingularity:
		test.That(t, result.singularityScale, test.ShouldBeLessThan, 1.0)
	case StatusNoWarning:
		test.That(t, result.singularityScale, test.ShouldAlmostEqual, 1.0)
	}
}
