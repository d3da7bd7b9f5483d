package gaze

import (
	"errors"
	"math"
)

// modelTerms is the per-axis coefficient count: 4 feature weights + bias.
const modelTerms = 5

// ridgeFallback stabilizes rank-deficient calibration sets (duplicate
// calibration points) without visibly perturbing well-posed fits.
const ridgeFallback = 1e-8

// pivotEps is the smallest pivot magnitude treated as nonzero.
const pivotEps = 1e-12

// errSingular reports a zero pivot during elimination.
var errSingular = errors.New("gaze: singular normal matrix")

// Model maps iris features to screen coordinates with one linear
// least-squares fit per axis. A fitted model is immutable; refits replace
// it wholesale.
type Model struct {
	coefX [modelTerms]float64
	coefY [modelTerms]float64
}

// FitModel solves two least-squares problems over the entire sample set,
// one against the x targets and one against the y targets. Each design
// row is the feature extended with a constant bias term.
//
// The normal equations are eliminated with partial pivoting. If the
// normal matrix is singular the solve is retried with a small ridge on
// the diagonal, so rank-deficient sets never fail while exactly-solvable
// sets are reproduced to machine precision.
func FitModel(set *SampleSet) (*Model, error) {
	samples := set.Samples()
	if len(samples) == 0 {
		return nil, errors.New("gaze: empty sample set")
	}

	// Normal matrix A = X^T X and right-hand sides b = X^T y per axis.
	var a [modelTerms][modelTerms]float64
	var bx, by [modelTerms]float64
	for _, s := range samples {
		row := designRow(s.Feature)
		for i := 0; i < modelTerms; i++ {
			for j := 0; j < modelTerms; j++ {
				a[i][j] += row[i] * row[j]
			}
			bx[i] += row[i] * s.Target.X
			by[i] += row[i] * s.Target.Y
		}
	}

	coefX, errX := solve(a, bx, 0)
	coefY, errY := solve(a, by, 0)
	if errX != nil || errY != nil {
		var err error
		coefX, err = solve(a, bx, ridgeFallback)
		if err != nil {
			return nil, err
		}
		coefY, err = solve(a, by, ridgeFallback)
		if err != nil {
			return nil, err
		}
	}

	return &Model{coefX: coefX, coefY: coefY}, nil
}

// Predict maps a feature to a screen coordinate, each axis clamped
// independently to [0,1].
func (m *Model) Predict(f Feature) Point {
	row := designRow(f)
	var x, y float64
	for i, v := range row {
		x += m.coefX[i] * v
		y += m.coefY[i] * v
	}
	return Point{X: clamp01(x), Y: clamp01(y)}
}

// designRow extends a feature with the constant bias term.
func designRow(f Feature) [modelTerms]float64 {
	return [modelTerms]float64{f[0], f[1], f[2], f[3], 1.0}
}

// solve solves (A + ridge*I) x = b by Gaussian elimination with partial
// pivoting. Returns errSingular when a pivot vanishes.
func solve(a [modelTerms][modelTerms]float64, b [modelTerms]float64, ridge float64) ([modelTerms]float64, error) {
	var aug [modelTerms][modelTerms + 1]float64
	for i := 0; i < modelTerms; i++ {
		for j := 0; j < modelTerms; j++ {
			aug[i][j] = a[i][j]
		}
		aug[i][i] += ridge
		aug[i][modelTerms] = b[i]
	}

	for col := 0; col < modelTerms; col++ {
		// Partial pivoting
		pivot := col
		maxAbs := math.Abs(aug[col][col])
		for r := col + 1; r < modelTerms; r++ {
			if abs := math.Abs(aug[r][col]); abs > maxAbs {
				maxAbs = abs
				pivot = r
			}
		}
		if maxAbs < pivotEps {
			return [modelTerms]float64{}, errSingular
		}
		if pivot != col {
			aug[col], aug[pivot] = aug[pivot], aug[col]
		}

		for r := col + 1; r < modelTerms; r++ {
			factor := aug[r][col] / aug[col][col]
			if factor == 0 {
				continue
			}
			for j := col; j <= modelTerms; j++ {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	// Back substitution
	var x [modelTerms]float64
	for i := modelTerms - 1; i >= 0; i-- {
		sum := aug[i][modelTerms]
		for j := i + 1; j < modelTerms; j++ {
			sum -= aug[i][j] * x[j]
		}
		x[i] = sum / aug[i][i]
	}
	return x, nil
}

// clamp01 limits v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
