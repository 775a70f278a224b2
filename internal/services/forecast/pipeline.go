package forecast

import (
	"context"
	"fmt"
	"math"
	"sort"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// DefaultTrainRatio is the chronological share of feature rows used for fitting.
const DefaultTrainRatio = 0.8

// Pipeline evaluates a next-day close regression over one price history.
// Each Run loads its own series; nothing is shared between runs.
type Pipeline struct {
	source     repository.PriceSource
	trainRatio float64
	l          *applogger.Logger
}

type Option func(*Pipeline)

// WithTrainRatio overrides the 0.8 train share.
func WithTrainRatio(r float64) Option {
	return func(p *Pipeline) {
		if r > 0 && r < 1 {
			p.trainRatio = r
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(p *Pipeline) { p.l = l }
}

func NewPipeline(src repository.PriceSource, opts ...Option) *Pipeline {
	p := &Pipeline{source: src, trainRatio: DefaultTrainRatio, l: applogger.Nop()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run loads source, fits on the first rows and scores the rest.
// Failures are *Error values wrapping ErrDataNotFound, ErrInsufficientData,
// ErrDegenerateFit or an unexpected source error.
func (p *Pipeline) Run(ctx context.Context, source, company string) (*models.ForecastResult, error) {
	fail := func(err error) error {
		return &Error{Company: company, Source: source, Err: err}
	}

	series, err := p.source.Load(ctx, source)
	if err != nil {
		return nil, fail(err)
	}
	bars, err := prepare(series.Bars)
	if err != nil {
		return nil, fail(err)
	}
	rows := features.Build(bars)
	if len(rows) == 0 {
		return nil, fail(fmt.Errorf("%d bars leave no feature rows: %w", len(bars), ErrInsufficientData))
	}

	res, err := Evaluate(rows, p.trainRatio)
	if err != nil {
		return nil, fail(err)
	}
	res.Company = company

	p.logModel(company, res)
	return res, nil
}

// Evaluate splits rows chronologically, fits on the head and scores the tail.
func Evaluate(rows []models.FeatureRow, trainRatio float64) (*models.ForecastResult, error) {
	split := int(float64(len(rows)) * trainRatio)
	if split == 0 || split >= len(rows) {
		return nil, fmt.Errorf("%d feature rows leave train=%d test=%d: %w",
			len(rows), split, len(rows)-split, ErrInsufficientData)
	}
	train, test := rows[:split], rows[split:]

	x := make([][]float64, len(train))
	y := make([]float64, len(train))
	for i := range train {
		x[i] = train[i].Features()
		y[i] = train[i].Target
	}
	model, err := FitOLS(x, y)
	if err != nil {
		return nil, err
	}

	res := &models.ForecastResult{
		Dates:           make([]string, len(test)),
		ActualPrices:    make([]float64, len(test)),
		PredictedPrices: make([]float64, len(test)),
		Model:           model,
		TrainSize:       len(train),
		TestSize:        len(test),
		FeatureLen:      len(rows),
	}
	for i := range test {
		res.Dates[i] = util.FormatDate(test[i].Date)
		res.ActualPrices[i] = test[i].Target
		res.PredictedPrices[i] = model.Predict(test[i].Features())
	}

	s := Score(res.ActualPrices, res.PredictedPrices)
	res.RMSE, res.MAPE, res.R2 = s.RMSE, s.MAPE, s.R2
	res.MAPEUndefined = s.MAPE == nil
	return res, nil
}

// prepare sorts a copy of bars by date and rejects duplicate dates and unusable values.
func prepare(in []models.PriceBar) ([]models.PriceBar, error) {
	bars := make([]models.PriceBar, len(in))
	copy(bars, in)
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	for i, b := range bars {
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return nil, NotFoundf("duplicate date %s", util.FormatDate(b.Date))
		}
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, NotFoundf("non-finite price on %s", util.FormatDate(b.Date))
			}
		}
		if b.Volume < 0 {
			return nil, NotFoundf("negative volume on %s", util.FormatDate(b.Date))
		}
	}
	return bars, nil
}

func (p *Pipeline) logModel(company string, res *models.ForecastResult) {
	coef := make(map[string]float64, len(models.FeatureNames))
	for i, name := range models.FeatureNames {
		coef[name] = res.Model.Coefficients[i]
	}
	p.l.Debug("forecast model fitted",
		applogger.String("company", company),
		applogger.Float64("intercept", res.Model.Intercept),
		applogger.Any("coefficients", coef),
	)

	fields := []applogger.Field{
		applogger.String("company", company),
		applogger.Int("rows", res.FeatureLen),
		applogger.Int("train", res.TrainSize),
		applogger.Int("test", res.TestSize),
		applogger.Float64("rmse", res.RMSE),
		applogger.Float64("r2", res.R2),
	}
	if res.MAPE != nil {
		fields = append(fields, applogger.Float64("mape", *res.MAPE))
		p.l.Info("forecast evaluated", fields...)
		return
	}
	p.l.Warn("forecast evaluated with zero actual close, mape undefined", fields...)
}
