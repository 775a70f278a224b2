package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"StockPulse/internal/domain/models"
)

// rcond is the relative cutoff below which singular values are treated as zero.
// Collinear price columns (open/high/low/close/ma7 on a trend) leave round-off
// sized singular values that must not be inverted.
const rcond = 1e-10

// FitOLS fits y = intercept + X·coef by ordinary least squares.
// Features and target are centred first, and the centred system is solved for
// the minimum-norm coefficients through a thin SVD, so rank-deficient inputs
// still get a unique deterministic answer.
func FitOLS(x [][]float64, y []float64) (*models.FittedModel, error) {
	m := len(x)
	if m == 0 || m != len(y) {
		return nil, fmt.Errorf("ols: %d rows for %d targets: %w", m, len(y), ErrDegenerateFit)
	}
	p := len(x[0])

	col := make([]float64, m)
	xmean := make([]float64, p)
	for j := 0; j < p; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		xmean[j] = stat.Mean(col, nil)
	}
	ymean := stat.Mean(y, nil)

	a := mat.NewDense(m, p, nil)
	b := mat.NewVecDense(m, nil)
	for i := range x {
		if len(x[i]) != p {
			return nil, fmt.Errorf("ols: row %d has %d features, want %d: %w", i, len(x[i]), p, ErrDegenerateFit)
		}
		for j := 0; j < p; j++ {
			a.Set(i, j, x[i][j]-xmean[j])
		}
		b.SetVec(i, y[i]-ymean)
	}

	coef := make([]float64, p)
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, fmt.Errorf("ols: svd did not converge: %w", ErrDegenerateFit)
	}
	if rank := svd.Rank(rcond); rank > 0 {
		var beta mat.VecDense
		svd.SolveVecTo(&beta, b, rank)
		for j := range coef {
			coef[j] = beta.AtVec(j)
		}
	}

	intercept := ymean
	for j := range coef {
		intercept -= coef[j] * xmean[j]
	}

	if !finite(intercept) {
		return nil, fmt.Errorf("ols: non-finite intercept: %w", ErrDegenerateFit)
	}
	for j, c := range coef {
		if !finite(c) {
			return nil, fmt.Errorf("ols: non-finite coefficient %d: %w", j, ErrDegenerateFit)
		}
	}
	return &models.FittedModel{Intercept: intercept, Coefficients: coef}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
