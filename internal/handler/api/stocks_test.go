package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/services/forecast"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDay(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLegacyChoice(t *testing.T) {
	s := newTestServer(t, nil, nil)

	code, env := get(t, s, "/api/stock/?choice=1")
	require.Equal(t, http.StatusOK, code)
	var res models.ForecastResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "Tesla", res.Company)
	require.NotNil(t, res.MAPE)
	assert.Equal(t, 1.25, *res.MAPE)

	code, env = get(t, s, "/api/stock?choice=abc")
	assert.Equal(t, http.StatusBadRequest, code)
	_, msg := errorCode(t, env)
	assert.Equal(t, "Invalid choice parameter", msg)

	for _, q := range []string{"?choice=7", "?choice=0", ""} {
		code, env = get(t, s, "/api/stock"+q)
		assert.Equal(t, http.StatusBadRequest, code, q)
		_, msg = errorCode(t, env)
		assert.Equal(t, "Invalid choice. Please select 1-6", msg, q)
	}
}

func TestLegacyChoiceListsSparseMenu(t *testing.T) {
	s := newCatalogServer(t, []config.Company{
		{Choice: 2, Symbol: "AMZN", Name: "Amazon", Source: "Amazon.csv"},
		{Choice: 5, Symbol: "NFLX", Name: "Netflix", Source: "Netflix.xls"},
		{Choice: 9, Symbol: "TSLA", Name: "Tesla", Source: "TSLA.csv"},
	}, nil, nil)

	code, env := get(t, s, "/api/stock?choice=1")
	assert.Equal(t, http.StatusBadRequest, code)
	_, msg := errorCode(t, env)
	assert.Equal(t, "Invalid choice. Please select one of 2, 5, 9", msg)

	code, _ = get(t, s, "/api/stock?choice=9")
	assert.Equal(t, http.StatusOK, code)
}

func TestForecastErrorMapping(t *testing.T) {
	s := newTestServer(t, nil, map[string]error{
		"Amazon.csv":   forecast.ErrDataNotFound,
		"GOOGL.csv":    forecast.ErrInsufficientData,
		"Facebook.xls": assert.AnError,
	})

	cases := []struct {
		path string
		code int
		err  string
	}{
		{"/api/stocks/AMZN", http.StatusNotFound, xhttp.CodeDataNotFound},
		{"/api/stocks/googl", http.StatusNotFound, xhttp.CodeInsufficientData},
		{"/api/stocks/META", http.StatusInternalServerError, xhttp.CodeInternal},
		{"/api/stocks/MSFT", http.StatusNotFound, xhttp.CodeNotFound},
		{"/api/stock?choice=2", http.StatusNotFound, xhttp.CodeDataNotFound},
	}
	for _, tc := range cases {
		code, env := get(t, s, tc.path)
		assert.Equal(t, tc.code, code, tc.path)
		c, _ := errorCode(t, env)
		assert.Equal(t, tc.err, c, tc.path)
	}

	code, _ := get(t, s, "/api/stocks/tsla")
	assert.Equal(t, http.StatusOK, code)
}

func TestForecastRateLimited(t *testing.T) {
	s := newTestServer(t, ratelimit.New(1, 0.0001), nil)

	code, _ := get(t, s, "/api/stocks/TSLA")
	assert.Equal(t, http.StatusOK, code)

	code, env := get(t, s, "/api/stocks/TSLA")
	assert.Equal(t, http.StatusTooManyRequests, code)
	c, _ := errorCode(t, env)
	assert.Equal(t, xhttp.CodeRateLimited, c)

	// non-forecast endpoints are not limited
	code, _ = get(t, s, "/api/stocks")
	assert.Equal(t, http.StatusOK, code)
}

func TestStocksListAndSearch(t *testing.T) {
	s := newTestServer(t, nil, nil)

	code, env := get(t, s, "/api/stocks")
	require.Equal(t, http.StatusOK, code)
	var rows []models.Stock
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 6)

	code, env = get(t, s, "/api/stocks/search/?q=app")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "AAPL", rows[0].Symbol)
}

func TestHistory(t *testing.T) {
	s := newTestServer(t, nil, nil)

	code, env := get(t, s, "/api/stocks/tsla/history")
	require.Equal(t, http.StatusOK, code)
	var h models.History
	require.NoError(t, json.Unmarshal(env.Data, &h))
	assert.Equal(t, "1m", h.Range)
	require.Len(t, h.Points, 1)
	assert.Equal(t, "2024-03-01", h.Points[0].Date)

	code, env = get(t, s, "/api/stocks/TSLA/history?range=all")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &h))
	assert.Len(t, h.Points, 2)

	code, _ = get(t, s, "/api/stocks/TSLA/history?range=5y")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = get(t, s, "/api/stocks/AMZN/history")
	assert.Equal(t, http.StatusNotFound, code)
	c, _ := errorCode(t, env)
	assert.Equal(t, xhttp.CodeDataNotFound, c)
}
