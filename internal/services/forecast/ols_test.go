package forecast

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitOLSRecoversCoefficients(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	coef := []float64{0.5, -2, 3}
	x := make([][]float64, 50)
	y := make([]float64, 50)
	for i := range x {
		x[i] = []float64{r.Float64() * 10, r.Float64() * 100, r.NormFloat64()}
		y[i] = 7
		for j, c := range coef {
			y[i] += c * x[i][j]
		}
	}

	m, err := FitOLS(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 7, m.Intercept, 1e-8)
	assert.InDeltaSlice(t, coef, m.Coefficients, 1e-8)
}

func TestFitOLSRankDeficient(t *testing.T) {
	// second column duplicates the first; min-norm splits the weight evenly
	x := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	y := []float64{3, 5, 7, 9}

	m, err := FitOLS(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1, m.Intercept, 1e-9)
	assert.InDeltaSlice(t, []float64{1, 1}, m.Coefficients, 1e-9)
}

func TestFitOLSConstantFeatures(t *testing.T) {
	x := [][]float64{{5, 1}, {5, 1}, {5, 1}}
	m, err := FitOLS(x, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, m.Coefficients)
	assert.InDelta(t, 2, m.Intercept, 1e-12)
}

func TestFitOLSEmpty(t *testing.T) {
	_, err := FitOLS(nil, nil)
	assert.ErrorIs(t, err, ErrDegenerateFit)

	_, err = FitOLS([][]float64{{1}, {2}}, []float64{1})
	assert.ErrorIs(t, err, ErrDegenerateFit)
}
