package forecast

import "math"

// Scores are the test-partition error measures.
// MAPE is nil when any actual value is zero.
type Scores struct {
	RMSE float64
	MAPE *float64
	R2   float64
}

// Score computes RMSE, MAPE (as a proportion) and R² of predicted against actual.
func Score(actual, predicted []float64) Scores {
	n := float64(len(actual))
	if n == 0 {
		return Scores{}
	}

	var sse, ape, mean float64
	zero := false
	for i, a := range actual {
		d := a - predicted[i]
		sse += d * d
		mean += a
		if a == 0 {
			zero = true
			continue
		}
		ape += math.Abs(d / a)
	}
	mean /= n

	var sst float64
	for _, a := range actual {
		sst += (a - mean) * (a - mean)
	}

	s := Scores{RMSE: math.Sqrt(sse / n)}
	if !zero {
		m := ape / n
		s.MAPE = &m
	}
	switch {
	case sst != 0:
		s.R2 = 1 - sse/sst
	case sse == 0:
		s.R2 = 1
	default:
		s.R2 = 0
	}
	return s
}
