package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	applogger "StockPulse/pkg/logger"
)

// BarWriter persists daily bars for a ticker.
type BarWriter interface {
	StoreBars(ctx context.Context, symbol string, bars []models.PriceBar) error
}

// ImportUseCase copies a price file into the bar store in fixed-size batches.
type ImportUseCase struct {
	source  domrepo.PriceSource
	store   BarWriter
	metrics domrepo.ForecastMetrics
	batchSz int
	l       *applogger.Logger
}

func NewImportUseCase(src domrepo.PriceSource, store BarWriter, m domrepo.ForecastMetrics, batchSz int, l *applogger.Logger) *ImportUseCase {
	if batchSz <= 0 {
		batchSz = 1000
	}
	if m == nil {
		m = nopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &ImportUseCase{source: src, store: store, metrics: m, batchSz: batchSz, l: l}
}

// Import loads file and stores its bars under symbol, oldest first. It returns the bar count.
func (u *ImportUseCase) Import(ctx context.Context, file, symbol string) (int, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, fmt.Errorf("symbol required")
	}
	start := time.Now()

	series, err := u.source.Load(ctx, file)
	if err != nil {
		u.metrics.RecordError("import_load")
		return 0, fmt.Errorf("import %s: %w", file, err)
	}
	bars := make([]models.PriceBar, series.Len())
	copy(bars, series.Bars)
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	for i := 0; i < len(bars); i += u.batchSz {
		end := i + u.batchSz
		if end > len(bars) {
			end = len(bars)
		}
		if err := u.store.StoreBars(ctx, symbol, bars[i:end]); err != nil {
			u.metrics.RecordError("import_store")
			return i, fmt.Errorf("import %s batch at %d: %w", file, i, err)
		}
	}
	u.metrics.RecordPublished("clickhouse", symbol)

	u.l.Info("price file imported",
		applogger.String("file", file),
		applogger.String("symbol", symbol),
		applogger.Int("bars", len(bars)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return len(bars), nil
}
