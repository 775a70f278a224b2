package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

// PriceSource loads the full daily history behind a source identifier.
// Implementations return an error wrapping forecast.ErrDataNotFound when the
// source cannot be located or parsed.
type PriceSource interface {
	Load(ctx context.Context, source string) (*models.PriceSeries, error)
}

// Companies resolves catalog entries by menu choice or ticker.
type Companies interface {
	List() []models.Company
	ByChoice(choice int) (models.Company, bool)
	BySymbol(symbol string) (models.Company, bool)
}

// MarketData serves the static quote, prediction, news and market tables.
type MarketData interface {
	Stocks(ctx context.Context) ([]models.Stock, error)
	Predictions(ctx context.Context) ([]models.Prediction, error)
	PredictionDetail(ctx context.Context, symbol string) (*models.Prediction, error)
	News(ctx context.Context) ([]models.NewsItem, error)
	NewsDetail(ctx context.Context, id int) (*models.NewsItem, error)
	Indices(ctx context.Context) ([]models.MarketIndex, error)
	Status(ctx context.Context) (*models.MarketStatus, error)
	Movers(ctx context.Context, kind string) ([]models.Mover, error)
}

type ResultPublisher interface {
	Publish(ctx context.Context, ev *models.ForecastEvent) error
	// Backend names the transport for metrics. An empty name means events are dropped.
	Backend() string
	Close() error
}

type ForecastMetrics interface {
	RecordRun(symbol, trigger, outcome string, seconds float64)
	RecordScores(symbol string, rmse, r2 float64)
	RecordPublished(backend, symbol string)
	RecordError(kind string)
}
