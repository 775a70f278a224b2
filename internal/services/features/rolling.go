package features

import (
	"gonum.org/v1/gonum/stat"

	"StockPulse/internal/domain/models"
)

// Trailing window sizes.
const (
	ShortWindow = 7
	LongWindow  = 30
)

// Build turns a date-ascending series into feature rows.
// A row exists only where the 30-bar window is full and a next bar supplies the
// target, so a series of n bars yields max(0, n-30) rows.
func Build(bars []models.PriceBar) []models.FeatureRow {
	n := len(bars)
	if n <= LongWindow {
		return nil
	}

	closes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
	}

	rows := make([]models.FeatureRow, 0, n-LongWindow)
	for i := LongWindow - 1; i < n-1; i++ {
		b := bars[i]
		short := closes[i-ShortWindow+1 : i+1]
		rows = append(rows, models.FeatureRow{
			Date:   b.Date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
			MA7:    stat.Mean(short, nil),
			MA30:   stat.Mean(closes[i-LongWindow+1:i+1], nil),
			Std7:   stat.StdDev(short, nil),
			Range:  b.High - b.Low,
			Target: closes[i+1],
		})
	}
	return rows
}
