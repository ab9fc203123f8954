package servo

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/servocalcs/kinematics"
	"go.viam.com/servocalcs/logging"
)

// inverseStep implements §4.3: reduce the Jacobian by drift dimensions,
// compute its pseudoinverse, and derive both the joint-space delta and a
// singularity proximity scale.
type inverseStep struct {
	provider kinematics.Provider
	logger   logging.Logger
}

func newInverseStep(provider kinematics.Provider, logger logging.Logger) *inverseStep {
	return &inverseStep{provider: provider, logger: logger.Sublogger("inverse")}
}

// removeDriftDimensions drops task-space rows flagged in drift from jacobian
// and deltaX, working from row 5 down to 0 so earlier indices stay valid as
// later rows are removed, and never dropping the last remaining row.
func removeDriftDimensions(jacobian *mat.Dense, deltaX []float64, drift DriftDimensions) (*mat.Dense, []float64) {
	rows, cols := jacobian.Dims()
	rowData := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		rowData[i] = append([]float64(nil), mat.Row(nil, i, jacobian)...)
	}
	dx := append([]float64(nil), deltaX...)

	for d := 5; d >= 0; d-- {
		if d >= len(rowData) {
			continue
		}
		if drift[d] && len(rowData) > 1 {
			rowData = append(rowData[:d], rowData[d+1:]...)
			dx = append(dx[:d], dx[d+1:]...)
		}
	}

	reduced := mat.NewDense(len(rowData), cols, nil)
	for i, row := range rowData {
		reduced.SetRow(i, row)
	}
	return reduced, dx
}

// inverseResult is what the inverse step hands to the limit enforcer.
type inverseResult struct {
	deltaTheta        []float64
	singularityScale  float64
	singularityStatus Status
}

// compute derives joint deltas from a (possibly drift-reduced) Jacobian and
// task-space delta, and the singularity proximity scale for that same
// motion.
func (s *inverseStep) compute(ctx context.Context, jointPositions []float64, jacobian *mat.Dense, deltaX []float64, lowerThresh, hardStopThresh float64) (inverseResult, error) {
	svd, err := kinematics.Factorize(jacobian)
	if err != nil {
		return inverseResult{}, err
	}
	pinv := svd.Pseudoinverse()

	dxVec := mat.NewVecDense(len(deltaX), deltaX)
	var deltaThetaVec mat.VecDense
	deltaThetaVec.MulVec(pinv, dxVec)
	deltaTheta := make([]float64, deltaThetaVec.Len())
	for i := range deltaTheta {
		deltaTheta[i] = deltaThetaVec.AtVec(i)
	}

	scale, status := s.singularityScale(ctx, jointPositions, svd, pinv, deltaX, lowerThresh, hardStopThresh)

	return inverseResult{deltaTheta: deltaTheta, singularityScale: scale, singularityStatus: status}, nil
}

// singularityScale implements the probe-and-vote procedure in §4.3: the
// last column of U points along the Jacobian's most singular direction, but
// its sign is ambiguous, so a small probe step decides which way is
// "toward" the singularity before deciding whether to decelerate or halt.
func (s *inverseStep) singularityScale(ctx context.Context, jointPositions []float64, svd *kinematics.SVDResult, pinv *mat.Dense, deltaX []float64, lowerThresh, hardStopThresh float64) (float64, Status) {
	kappa := svd.ConditionNumber()
	uLast := svd.LastUColumn()

	probeDelta := mat.NewVecDense(len(uLast), nil)
	for i, v := range uLast {
		probeDelta.SetVec(i, v/100)
	}
	var probeStepVec mat.VecDense
	probeStepVec.MulVec(pinv, probeDelta)

	probePositions := make([]float64, len(jointPositions))
	for i := range probePositions {
		step := 0.0
		if i < probeStepVec.Len() {
			step = probeStepVec.AtVec(i)
		}
		probePositions[i] = jointPositions[i] + step
	}

	probeJacobian, err := s.provider.Jacobian(ctx, probePositions)
	if err == nil {
		if probeSVD, ferr := kinematics.Factorize(probeJacobian); ferr == nil {
			kappaProbe := probeSVD.ConditionNumber()
			if kappaProbe > kappa {
				for i := range uLast {
					uLast[i] = -uLast[i]
				}
			}
		} else {
			s.logger.Warnw("probe jacobian SVD failed, skipping sign disambiguation", "error", ferr)
		}
	} else {
		s.logger.Warnw("failed to compute probe jacobian, skipping sign disambiguation", "error", err)
	}

	d := dot(uLast, deltaX)

	if d <= 0 {
		return 1, StatusNoWarning
	}
	switch {
	case kappa > lowerThresh && kappa < hardStopThresh:
		return 1 - (kappa-lowerThresh)/(hardStopThresh-lowerThresh), StatusDecelerateForSingularity
	case kappa >= hardStopThresh:
		return 0, StatusHaltForSingularity
	default:
		return 1, StatusNoWarning
	}
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
