package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/repository/memory"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/services/forecast"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubForecaster struct {
	errs map[string]error
}

func (f stubForecaster) Run(_ context.Context, source, company string) (*models.ForecastResult, error) {
	if err := f.errs[source]; err != nil {
		return nil, &forecast.Error{Company: company, Source: source, Err: err}
	}
	mape := 1.25
	return &models.ForecastResult{
		Company:         company,
		Dates:           []string{"2024-01-02"},
		ActualPrices:    []float64{101},
		PredictedPrices: []float64{100},
		RMSE:            1,
		MAPE:            &mape,
		R2:              0.5,
	}, nil
}

type stubSource struct{}

func (stubSource) Load(_ context.Context, source string) (*models.PriceSeries, error) {
	if source != "TSLA.csv" {
		return nil, forecast.NotFoundf("no price file %s", source)
	}
	return &models.PriceSeries{Source: source, Bars: []models.PriceBar{
		{Date: mustDay("2024-01-02"), Close: 1},
		{Date: mustDay("2024-03-01"), Close: 2},
	}}, nil
}

func newTestServer(t *testing.T, rl *ratelimit.Limiter, errs map[string]error) *xhttp.Server {
	t.Helper()
	return newCatalogServer(t, config.DefaultCompanies(), rl, errs)
}

func newCatalogServer(t *testing.T, cos []config.Company, rl *ratelimit.Limiter, errs map[string]error) *xhttp.Server {
	t.Helper()
	companies := memory.NewCatalog(cos)
	catalog := usecase.NewCatalogUseCase(memory.NewMarketData(), nil, 0)
	fc := usecase.NewForecastUseCase(companies, stubForecaster{errs: errs}, nil, nil, nil)
	hist := usecase.NewHistoryUseCase(companies, stubSource{})

	return xhttp.NewServer([]xhttp.Handler{
		NewStocksHandler(fc, catalog, hist, rl),
		NewMarketHandler(catalog),
	}, xhttp.WithMetrics(false, ""))
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func get(t *testing.T, s *xhttp.Server, path string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, rec.Code, env.Status)
	return rec.Code, env
}

func errorCode(t *testing.T, env envelope) (string, string) {
	t.Helper()
	var errs []xhttp.AppError
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	require.Len(t, errs, 1)
	return errs[0].Code, errs[0].Message
}
