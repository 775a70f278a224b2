package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		actual    []float64
		predicted []float64
		rmse      float64
		mape      *float64
		r2        float64
	}{
		{
			name:      "exact",
			actual:    []float64{10, 20, 30},
			predicted: []float64{10, 20, 30},
			rmse:      0,
			mape:      ptr(0),
			r2:        1,
		},
		{
			name:      "off by one",
			actual:    []float64{10, 20},
			predicted: []float64{11, 19},
			rmse:      1,
			mape:      ptr((0.1 + 0.05) / 2),
			r2:        1 - 2.0/50,
		},
		{
			name:      "zero actual",
			actual:    []float64{0, 5},
			predicted: []float64{1, 5},
			rmse:      math.Sqrt(0.5),
			mape:      nil,
			r2:        1 - 1/12.5,
		},
		{
			name:      "constant actual exact",
			actual:    []float64{4, 4},
			predicted: []float64{4, 4},
			mape:      ptr(0),
			r2:        1,
		},
		{
			name:      "constant actual missed",
			actual:    []float64{4, 4},
			predicted: []float64{5, 3},
			rmse:      1,
			mape:      ptr(0.25),
			r2:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Score(tt.actual, tt.predicted)
			assert.InDelta(t, tt.rmse, s.RMSE, 1e-12)
			assert.InDelta(t, tt.r2, s.R2, 1e-12)
			if tt.mape == nil {
				assert.Nil(t, s.MAPE)
				return
			}
			require.NotNil(t, s.MAPE)
			assert.InDelta(t, *tt.mape, *s.MAPE, 1e-12)
		})
	}
}

func ptr(v float64) *float64 { return &v }
