package kinematics

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SVDResult holds a thin SVD factorization of a Jacobian, kept around so
// callers can derive both the pseudoinverse and the condition number/
// singular-direction vector needed for singularity scaling without
// refactorizing.
type SVDResult struct {
	Values []float64 // singular values, descending
	U      *mat.Dense
	V      *mat.Dense
}

// Factorize computes the thin SVD of j (mxn; either m<=n or m>n, e.g. a
// 6xN Jacobian of a group with fewer than six joints).
func Factorize(j *mat.Dense) (*SVDResult, error) {
	var svd mat.SVD
	if ok := svd.Factorize(j, mat.SVDThin); !ok {
		return nil, errors.New("jacobian SVD factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	return &SVDResult{
		Values: svd.Values(nil),
		U:      &u,
		V:      &v,
	}, nil
}

// ConditionNumber returns sigma_max / sigma_min from the factorization.
func (r *SVDResult) ConditionNumber() float64 {
	n := len(r.Values)
	if n == 0 || r.Values[n-1] == 0 {
		return math.Inf(1)
	}
	return r.Values[0] / r.Values[n-1]
}

// LastUColumn returns the column of U paired with the smallest singular
// value, the direction that points along (or against) the nearest
// singularity.
func (r *SVDResult) LastUColumn() []float64 {
	rows, cols := r.U.Dims()
	col := cols - 1
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = r.U.At(i, col)
	}
	return out
}

// Pseudoinverse computes J+ = V * Sigma^-1 * U^T with no damping; numerical
// safety near a singularity is the caller's job (velocity scaling), not
// this function's.
func (r *SVDResult) Pseudoinverse() *mat.Dense {
	k := len(r.Values)
	sInv := mat.NewDense(k, k, nil)
	for i, v := range r.Values {
		if v != 0 {
			sInv.Set(i, i, 1/v)
		}
	}
	var vs mat.Dense
	vs.Mul(r.V, sInv)
	var pinv mat.Dense
	pinv.Mul(&vs, r.U.T())
	return &pinv
}
