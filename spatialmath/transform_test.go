package spatialmath

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestZeroPoseIsIdentity(t *testing.T) {
	p := NewZeroPose()
	test.That(t, p.IsZero(), test.ShouldBeTrue)
	v := r3.Vec{X: 1, Y: 2, Z: 3}
	rotated := p.RotateVector(v)
	test.That(t, rotated.X, test.ShouldAlmostEqual, v.X)
	test.That(t, rotated.Y, test.ShouldAlmostEqual, v.Y)
	test.That(t, rotated.Z, test.ShouldAlmostEqual, v.Z)
}

func TestInverseUndoesPose(t *testing.T) {
	p := NewPose(r3.Vec{X: 1, Y: 2, Z: 3}, quat.Number{Real: 1})
	composed := Compose(p, p.Inverse())
	test.That(t, composed.Point().X, test.ShouldAlmostEqual, 0.0)
	test.That(t, composed.Point().Y, test.ShouldAlmostEqual, 0.0)
	test.That(t, composed.Point().Z, test.ShouldAlmostEqual, 0.0)
	test.That(t, composed.Orientation().Real, test.ShouldAlmostEqual, 1.0)
}

func TestComposeAppliesTranslation(t *testing.T) {
	a := NewPose(r3.Vec{X: 1, Y: 0, Z: 0}, quat.Number{Real: 1})
	b := NewPose(r3.Vec{X: 0, Y: 1, Z: 0}, quat.Number{Real: 1})
	c := Compose(a, b)
	test.That(t, c.Point().X, test.ShouldAlmostEqual, 1.0)
	test.That(t, c.Point().Y, test.ShouldAlmostEqual, 1.0)
}
