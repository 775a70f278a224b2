package di

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/repository"
	"StockPulse/internal/domain/service"
	"StockPulse/internal/handler/api"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/repository/memory"
	"StockPulse/internal/repository/source"
	"StockPulse/internal/service/cache"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/services/forecast"
	"StockPulse/internal/usecase"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger builds the process logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.ForecastMetrics {
	return metrics.New()
}

// ProvideClickHouseClient returns nil when ClickHouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates the bar table when needed. It returns nil without a client.
func ProvideBarStore(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) (*internalrepo.CHBarStore, error) {
	if ch == nil {
		return nil, nil
	}
	store, err := internalrepo.NewCHBarStore(ch, cfg.ClickHouse.Table)
	if err != nil {
		return nil, err
	}
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ch.InitSchema(ctx, store.Schema()); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvidePriceSource resolves file sources under data_dir and "clickhouse:" sources via store.
func ProvidePriceSource(cfg *config.Config, store *internalrepo.CHBarStore, l *applogger.Logger) repository.PriceSource {
	opts := []source.Option{source.WithLogger(l)}
	if store != nil {
		opts = append(opts, source.WithBarStore(store))
	}
	return source.NewResolver(cfg.Forecast.DataDir, opts...)
}

// ProvideCLIPriceSource is ProvidePriceSource that also accepts absolute --file paths.
func ProvideCLIPriceSource(cfg *config.Config, store *internalrepo.CHBarStore, l *applogger.Logger) repository.PriceSource {
	opts := []source.Option{source.WithLogger(l), source.WithAbsolutePaths()}
	if store != nil {
		opts = append(opts, source.WithBarStore(store))
	}
	return source.NewResolver(cfg.Forecast.DataDir, opts...)
}

func ProvideForecaster(cfg *config.Config, src repository.PriceSource, l *applogger.Logger) service.Forecaster {
	return forecast.NewPipeline(src,
		forecast.WithTrainRatio(cfg.Forecast.TrainRatio),
		forecast.WithLogger(l),
	)
}

func ProvideCompanies(cfg *config.Config) repository.Companies {
	return memory.NewCatalog(cfg.Forecast.Companies)
}

func ProvideMarketData() repository.MarketData {
	return memory.NewMarketData()
}

// ProvideRedisCache returns nil when Redis is disabled.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, nil
	}
	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rc, nil
}

// ProvideBytesCache layers a short local cache over Redis, or uses the local cache alone.
func ProvideBytesCache(cfg *config.Config, rc *cache.RedisCache) cache.BytesCache {
	if rc == nil {
		return cache.NewTTLCache()
	}
	l1 := cfg.Cache.TTL / 3
	if l1 <= 0 {
		l1 = time.Second
	}
	return cache.NewLayered(rc, l1)
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideResultPublisher drops events when there is no producer.
func ProvideResultPublisher(cfg *config.Config, p *pkgkafka.Producer) repository.ResultPublisher {
	if p == nil {
		return internalrepo.NopPublisher{}
	}
	return internalrepo.NewKafkaPublisher(p, cfg.Kafka.ResultsTopic)
}

func ProvideForecastUseCase(
	companies repository.Companies,
	f service.Forecaster,
	pub repository.ResultPublisher,
	m repository.ForecastMetrics,
	l *applogger.Logger,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(companies, f, pub, m, l)
}

func ProvideCatalogUseCase(cfg *config.Config, data repository.MarketData, c cache.BytesCache) *usecase.CatalogUseCase {
	return usecase.NewCatalogUseCase(data, c, cfg.Cache.TTL)
}

func ProvideHistoryUseCase(companies repository.Companies, src repository.PriceSource) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(companies, src)
}

// ProvideImportUseCase returns nil without a bar store.
func ProvideImportUseCase(src repository.PriceSource, store *internalrepo.CHBarStore, m repository.ForecastMetrics, l *applogger.Logger) *usecase.ImportUseCase {
	if store == nil {
		return nil
	}
	return usecase.NewImportUseCase(src, store, m, 1000, l)
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.ForecastBurst, cfg.Server.ForecastPerSecond)
}

// ProvideHandlers builds every HTTP handler.
func ProvideHandlers(
	fc *usecase.ForecastUseCase,
	catalog *usecase.CatalogUseCase,
	history *usecase.HistoryUseCase,
	rl *ratelimit.Limiter,
	l *applogger.Logger,
) []xhttp.Handler {
	stocks := api.NewStocksHandler(fc, catalog, history, rl)
	stocks.SetLogger(l)
	market := api.NewMarketHandler(catalog)
	market.SetLogger(l)
	return []xhttp.Handler{stocks, market}
}

func ProvideHTTPServer(cfg *config.Config, handlers []xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithLogger(l),
	)
}

// ProvideKafkaConsumer returns nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

func ProvideKafkaForecastHandler(cfg *config.Config, uc *usecase.ForecastUseCase, l *applogger.Logger) *usecase.KafkaForecastHandler {
	return usecase.NewKafkaForecastHandler(cfg.Kafka.RequestsTopic, uc, l)
}

// ProvideScheduler returns nil when the scheduler is disabled.
func ProvideScheduler(cfg *config.Config, uc *usecase.ForecastUseCase, l *applogger.Logger) (*usecase.EvaluationScheduler, error) {
	if !cfg.Scheduler.Enabled {
		return nil, nil
	}
	return usecase.NewEvaluationScheduler(uc, cfg.Scheduler.Spec, l)
}

// ProvideApp assembles the server and attaches whichever optional parts are enabled.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaForecastHandler,
	sched *usecase.EvaluationScheduler,
	pub repository.ResultPublisher,
	rc *cache.RedisCache,
	ch *pkgch.Client,
) *server.App {
	app := server.New(cfg, l, srv)
	if consumer != nil {
		app.SetConsumer(consumer, kh)
	}
	if sched != nil {
		app.SetScheduler(sched)
	}
	if ch != nil {
		app.AddCloser("clickhouse", ch)
	}
	if rc != nil {
		app.AddCloser("redis", rc)
	}
	app.AddCloser("publisher", pub)
	return app
}

// CLI holds what the command line tool needs.
type CLI struct {
	Forecasts *usecase.ForecastUseCase
	// Import is nil unless ClickHouse is enabled.
	Import *usecase.ImportUseCase
	closers []func() error
}

// Close releases the CLI's clients.
func (c *CLI) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
}

func ProvideCLI(fc *usecase.ForecastUseCase, imp *usecase.ImportUseCase, pub repository.ResultPublisher, ch *pkgch.Client) *CLI {
	c := &CLI{Forecasts: fc, Import: imp}
	if ch != nil {
		c.closers = append(c.closers, ch.Close)
	}
	c.closers = append(c.closers, pub.Close)
	return c
}
