package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/services/forecast"
	applogger "StockPulse/pkg/logger"

	"github.com/google/uuid"
)

// ErrUnknownCompany means a choice or symbol is not in the catalog.
var ErrUnknownCompany = errors.New("unknown company")

// ForecastUseCase resolves catalog entries, runs the pipeline and reports each run.
type ForecastUseCase struct {
	companies  domrepo.Companies
	forecaster domsvc.Forecaster
	publisher  domrepo.ResultPublisher
	metrics    domrepo.ForecastMetrics
	l          *applogger.Logger
	now        func() time.Time
	newID      func() string
}

func NewForecastUseCase(companies domrepo.Companies, f domsvc.Forecaster, pub domrepo.ResultPublisher, m domrepo.ForecastMetrics, l *applogger.Logger) *ForecastUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	if m == nil {
		m = nopMetrics{}
	}
	return &ForecastUseCase{
		companies:  companies,
		forecaster: f,
		publisher:  pub,
		metrics:    m,
		l:          l,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Companies lists the catalog.
func (u *ForecastUseCase) Companies() []models.Company { return u.companies.List() }

// ByChoice forecasts the company behind a menu choice.
func (u *ForecastUseCase) ByChoice(ctx context.Context, choice int, trigger string) (*models.ForecastResult, error) {
	co, ok := u.companies.ByChoice(choice)
	if !ok {
		return nil, fmt.Errorf("choice %d: %w", choice, ErrUnknownCompany)
	}
	return u.RunCompany(ctx, co, trigger, "")
}

// BySymbol forecasts the company behind a ticker.
func (u *ForecastUseCase) BySymbol(ctx context.Context, symbol, trigger, runID string) (*models.ForecastResult, error) {
	co, ok := u.companies.BySymbol(symbol)
	if !ok {
		return nil, fmt.Errorf("symbol %q: %w", symbol, ErrUnknownCompany)
	}
	return u.RunCompany(ctx, co, trigger, runID)
}

// RunCompany runs one isolated evaluation and publishes its event. An empty runID gets a fresh one.
func (u *ForecastUseCase) RunCompany(ctx context.Context, co models.Company, trigger, runID string) (*models.ForecastResult, error) {
	if runID == "" {
		runID = u.newID()
	}
	start := u.now()
	res, err := u.forecaster.Run(ctx, co.Source, co.Name)
	elapsed := u.now().Sub(start)

	kind := forecast.Kind(err)
	u.metrics.RecordRun(co.Symbol, trigger, kind, elapsed.Seconds())

	ev := &models.ForecastEvent{
		RunID:      runID,
		Symbol:     co.Symbol,
		Company:    co.Name,
		Trigger:    trigger,
		Status:     kind,
		DurationMS: elapsed.Milliseconds(),
		At:         u.now().UTC(),
	}
	if err != nil {
		ev.Error = err.Error()
		ev.ErrorCode = kind
		u.l.Warn("forecast run failed",
			applogger.String("run_id", runID),
			applogger.String("symbol", co.Symbol),
			applogger.String("trigger", trigger),
			applogger.String("kind", kind),
			applogger.Error(err),
		)
	} else {
		u.metrics.RecordScores(co.Symbol, res.RMSE, res.R2)
		ev.Result = res
		ev.Model = res.Model
	}
	u.publish(ctx, ev)
	return res, err
}

// PublishFailure reports a request that never reached the pipeline.
func (u *ForecastUseCase) PublishFailure(ctx context.Context, runID, symbol, trigger string, err error) {
	if runID == "" {
		runID = u.newID()
	}
	u.publish(ctx, &models.ForecastEvent{
		RunID:     runID,
		Symbol:    symbol,
		Trigger:   trigger,
		Status:    forecast.Kind(err),
		Error:     err.Error(),
		ErrorCode: failureCode(err),
		At:        u.now().UTC(),
	})
}

func failureCode(err error) string {
	if errors.Is(err, ErrUnknownCompany) {
		return "unknown_company"
	}
	return forecast.Kind(err)
}

func (u *ForecastUseCase) publish(ctx context.Context, ev *models.ForecastEvent) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, ev); err != nil {
		u.metrics.RecordError("publish")
		u.l.Error("forecast event publish failed",
			applogger.String("run_id", ev.RunID),
			applogger.String("symbol", ev.Symbol),
			applogger.Error(err),
		)
		return
	}
	if b := u.publisher.Backend(); b != "" {
		u.metrics.RecordPublished(b, ev.Symbol)
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordRun(string, string, string, float64) {}
func (nopMetrics) RecordScores(string, float64, float64)     {}
func (nopMetrics) RecordPublished(string, string)            {}
func (nopMetrics) RecordError(string)                        {}
