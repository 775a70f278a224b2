package usecase

import (
	"context"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/repository/memory"
	"StockPulse/pkg/config"
)

func testCatalog() *memory.Catalog {
	return memory.NewCatalog([]config.Company{
		{Choice: 1, Symbol: "TSLA", Name: "Tesla", Source: "TSLA.csv"},
		{Choice: 2, Symbol: "AMZN", Name: "Amazon", Source: "Amazon.csv"},
	})
}

type fakeForecaster struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error
}

func (f *fakeForecaster) Run(_ context.Context, source, company string) (*models.ForecastResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, source)
	f.mu.Unlock()
	if err := f.errs[source]; err != nil {
		return nil, err
	}
	mape := 1.5
	return &models.ForecastResult{
		Company: company,
		RMSE:    2.0,
		MAPE:    &mape,
		R2:      0.9,
		Model:   &models.FittedModel{Intercept: 1, Coefficients: make([]float64, len(models.FeatureNames))},
	}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.ForecastEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev *models.ForecastEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) Backend() string { return "kafka" }

func (p *fakePublisher) Close() error { return nil }

type run struct{ symbol, trigger, outcome string }

type fakeMetrics struct {
	mu        sync.Mutex
	runs      []run
	scores    map[string]float64
	published int
	errors    []string
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{scores: map[string]float64{}} }

func (m *fakeMetrics) RecordRun(symbol, trigger, outcome string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run{symbol, trigger, outcome})
}

func (m *fakeMetrics) RecordScores(symbol string, rmse, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[symbol] = rmse
}

func (m *fakeMetrics) RecordPublished(string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published++
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

type fakeSource struct {
	series map[string]*models.PriceSeries
	err    error
}

func (s *fakeSource) Load(_ context.Context, source string) (*models.PriceSeries, error) {
	if s.err != nil {
		return nil, s.err
	}
	if ps, ok := s.series[source]; ok {
		return ps, nil
	}
	return &models.PriceSeries{Source: source}, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestUseCase(f *fakeForecaster, p *fakePublisher, m *fakeMetrics) *ForecastUseCase {
	uc := NewForecastUseCase(testCatalog(), f, p, m, nil)
	n := 0
	uc.newID = func() string {
		n++
		return "run-" + string(rune('0'+n))
	}
	return uc
}
