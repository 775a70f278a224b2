//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/pkg/config"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/server"

	"github.com/google/wire"
)

var forecastSet = wire.NewSet(
	ProvideMetrics,
	ProvideClickHouseClient,
	ProvideBarStore,
	ProvideForecaster,
	ProvideCompanies,
	ProvideKafkaProducer,
	ProvideResultPublisher,
	ProvideForecastUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvidePriceSource,
		forecastSet,

		// Read side
		ProvideMarketData,
		ProvideRedisCache,
		ProvideBytesCache,
		ProvideCatalogUseCase,
		ProvideHistoryUseCase,

		// HTTP
		ProvideRateLimiter,
		ProvideHandlers,
		ProvideHTTPServer,

		// Background
		ProvideKafkaConsumer,
		ProvideKafkaForecastHandler,
		ProvideScheduler,

		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeCLI wires the forecasting core for the command line tool.
func InitializeCLI(cfg *config.Config, l *applogger.Logger) (*CLI, error) {
	wire.Build(
		ProvideCLIPriceSource,
		forecastSet,
		ProvideImportUseCase,
		ProvideCLI,
	)
	return &CLI{}, nil
}
