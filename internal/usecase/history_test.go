package usecase

import (
	"context"
	"testing"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/forecast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historySource() *fakeSource {
	bars := []models.PriceBar{
		{Date: day("2024-03-15"), Close: 4, Volume: 40},
		{Date: day("2024-01-10"), Close: 1, Volume: 10},
		{Date: day("2024-03-08"), Close: 3, Volume: 30},
		{Date: day("2024-02-20"), Close: 2, Volume: 20},
	}
	return &fakeSource{series: map[string]*models.PriceSeries{
		"TSLA.csv": {Source: "TSLA.csv", Bars: bars},
	}}
}

func TestHistoryRanges(t *testing.T) {
	uc := NewHistoryUseCase(testCatalog(), historySource())
	ctx := context.Background()

	cases := []struct {
		rng   string
		dates []string
	}{
		{"1d", []string{"2024-03-15"}},
		{"1w", []string{"2024-03-08", "2024-03-15"}},
		{"1m", []string{"2024-02-20", "2024-03-08", "2024-03-15"}},
		{"all", []string{"2024-01-10", "2024-02-20", "2024-03-08", "2024-03-15"}},
	}
	for _, tc := range cases {
		t.Run(tc.rng, func(t *testing.T) {
			h, err := uc.History(ctx, "tsla", tc.rng)
			require.NoError(t, err)
			assert.Equal(t, "TSLA", h.Symbol)
			assert.Equal(t, "Tesla", h.Company)
			var got []string
			for _, p := range h.Points {
				got = append(got, p.Date)
			}
			assert.Equal(t, tc.dates, got)
		})
	}
}

func TestHistoryErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewHistoryUseCase(testCatalog(), historySource()).History(ctx, "MSFT", "1m")
	assert.ErrorIs(t, err, ErrUnknownCompany)

	_, err = NewHistoryUseCase(testCatalog(), historySource()).History(ctx, "AMZN", "1m")
	assert.ErrorIs(t, err, forecast.ErrDataNotFound)

	_, err = NewHistoryUseCase(testCatalog(), historySource()).History(ctx, "TSLA", "2y")
	assert.Error(t, err)

	src := &fakeSource{err: forecast.NotFoundf("no price file TSLA.csv")}
	_, err = NewHistoryUseCase(testCatalog(), src).History(ctx, "TSLA", "1m")
	assert.ErrorIs(t, err, forecast.ErrDataNotFound)
}
