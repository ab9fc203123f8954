// Package spatialmath provides the small amount of rigid-transform math the
// servoing core needs: rotating twist vectors between the planning frame and
// a command frame, and composing frame transforms.
package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is a rigid transform: a translation plus an orientation, expressed as
// a unit quaternion the way the rest of the ecosystem represents rotations.
type Pose struct {
	point       r3.Vec
	orientation quat.Number
}

// NewZeroPose returns the identity transform.
func NewZeroPose() Pose {
	return Pose{orientation: quat.Number{Real: 1}}
}

// NewPose builds a pose from a translation and a unit quaternion orientation.
func NewPose(point r3.Vec, orientation quat.Number) Pose {
	return Pose{point: point, orientation: normalizeQuat(orientation)}
}

// Point returns the translation component.
func (p Pose) Point() r3.Vec { return p.point }

// Orientation returns the rotation component as a unit quaternion.
func (p Pose) Orientation() quat.Number { return p.orientation }

// IsZero reports whether this is the uninitialized/identity-less zero value,
// used the same way moveit_servo treats an all-zero Eigen::Isometry3d as "no
// transform was ever computed."
func (p Pose) IsZero() bool {
	const tol = 1e-12
	return closeToZero(p.point.X, tol) && closeToZero(p.point.Y, tol) && closeToZero(p.point.Z, tol) &&
		closeToZero(p.orientation.Real, tol) && closeToZero(p.orientation.Imag, tol) &&
		closeToZero(p.orientation.Jmag, tol) && closeToZero(p.orientation.Kmag, tol)
}

// RotationMatrix returns the 3x3 rotation matrix equivalent to the pose's
// orientation, i.e. Eigen's Isometry3d::linear().
func (p Pose) RotationMatrix() [3][3]float64 {
	return quatToRotationMatrix(p.orientation)
}

// RotateVector rotates v by this pose's orientation only (no translation),
// the operation used to carry a twist's linear/angular halves between
// frames: a twist is a free vector, not a point, so translation never
// applies to it.
func (p Pose) RotateVector(v r3.Vec) r3.Vec {
	m := p.RotationMatrix()
	return r3.Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Inverse returns the inverse rigid transform.
func (p Pose) Inverse() Pose {
	invOrientation := quat.Conj(p.orientation)
	invOrientation = normalizeQuat(invOrientation)
	inv := Pose{orientation: invOrientation}
	negPoint := r3.Vec{X: -p.point.X, Y: -p.point.Y, Z: -p.point.Z}
	inv.point = inv.RotateVector(negPoint)
	return inv
}

// Compose returns p * other, i.e. applying other's transform first and then
// p's, matching Eigen::Isometry3d's operator*.
func Compose(p, other Pose) Pose {
	rotated := p.RotateVector(other.point)
	return Pose{
		point:       r3.Vec{X: p.point.X + rotated.X, Y: p.point.Y + rotated.Y, Z: p.point.Z + rotated.Z},
		orientation: normalizeQuat(quat.Mul(p.orientation, other.orientation)),
	}
}

// normalizeQuat scales q to unit length, the operation gonum.org/v1/gonum/num/quat
// exposes as Abs+Scale rather than a single Normalize helper.
func normalizeQuat(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return q
	}
	return quat.Scale(1/n, q)
}

func quatToRotationMatrix(q quat.Number) [3][3]float64 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	n := w*w + x*x + y*y + z*z
	if n < 1e-12 {
		return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}
	s := 2 / n
	return [3][3]float64{
		{1 - s*(y*y+z*z), s * (x*y - z*w), s * (x*z + y*w)},
		{s * (x*y + z*w), 1 - s*(x*x+z*z), s * (y*z - x*w)},
		{s * (x*z - y*w), s * (y*z + x*w), 1 - s*(x*x+y*y)},
	}
}

// closeToZero reports whether f is within tol of zero, used for the
// "transform matrix is all-zero" validity check moveit_servo relies on.
func closeToZero(f, tol float64) bool {
	return math.Abs(f) <= tol
}
