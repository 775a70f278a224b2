package usecase

import (
	"context"
	"fmt"
	"sort"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/forecast"
	"StockPulse/pkg/util"
)

// HistoryUseCase serves trailing windows of a company's price source.
type HistoryUseCase struct {
	companies domrepo.Companies
	source    domrepo.PriceSource
}

func NewHistoryUseCase(companies domrepo.Companies, src domrepo.PriceSource) *HistoryUseCase {
	return &HistoryUseCase{companies: companies, source: src}
}

// History returns the bars dated within rng of the latest bar, oldest first.
func (u *HistoryUseCase) History(ctx context.Context, symbol, rng string) (*models.History, error) {
	co, ok := u.companies.BySymbol(symbol)
	if !ok {
		return nil, fmt.Errorf("symbol %q: %w", symbol, ErrUnknownCompany)
	}
	series, err := u.source.Load(ctx, co.Source)
	if err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, forecast.NotFoundf("no bars in %s", co.Source)
	}

	bars := make([]models.PriceBar, series.Len())
	copy(bars, series.Bars)
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	start, ok := util.RangeStart(bars[len(bars)-1].Date, rng)
	if !ok {
		return nil, fmt.Errorf("unknown range %q", rng)
	}
	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Date.Before(start) })

	h := &models.History{
		Symbol:  co.Symbol,
		Company: co.Name,
		Range:   rng,
		Points:  make([]models.HistoryPoint, 0, len(bars)-i),
	}
	for _, b := range bars[i:] {
		h.Points = append(h.Points, models.HistoryPoint{
			Date:   util.FormatDate(b.Date),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return h, nil
}
