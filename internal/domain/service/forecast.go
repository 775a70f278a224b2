package service

import (
	"context"

	"StockPulse/internal/domain/models"
)

// Forecaster runs one isolated evaluation of the next-day close model over a price source.
type Forecaster interface {
	Run(ctx context.Context, source, company string) (*models.ForecastResult, error)
}
