package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/metrics"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StocksHandler serves the quote table, on-demand forecasts and price history.
type StocksHandler struct {
	forecasts *usecase.ForecastUseCase
	catalog   *usecase.CatalogUseCase
	history   *usecase.HistoryUseCase
	rl        *ratelimit.Limiter
	l         *applogger.Logger
}

// NewStocksHandler accepts a nil limiter, which disables rate limiting.
func NewStocksHandler(f *usecase.ForecastUseCase, c *usecase.CatalogUseCase, h *usecase.HistoryUseCase, rl *ratelimit.Limiter) *StocksHandler {
	metrics.Register()
	return &StocksHandler{forecasts: f, catalog: c, history: h, rl: rl}
}

// SetLogger injects a structured logger.
func (h *StocksHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *StocksHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/stock", h.Legacy)
	g.GET("/stocks", h.List)
	g.GET("/stocks/search", h.List)
	g.GET("/stocks/:symbol", h.Forecast)
	g.GET("/stocks/:symbol/history", h.History)
}

// Legacy runs a forecast for ?choice=N.
func (h *StocksHandler) Legacy(c echo.Context) error {
	const endpoint = "legacy_stock"
	start := time.Now()
	defer observe(endpoint, start)

	req := &models.LegacyStockRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	choice := 0
	if s := strings.TrimSpace(req.Choice); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fail(c, h.l, endpoint, xhttp.BadRequestError("Invalid choice parameter"))
		}
		choice = n
	}
	companies := h.forecasts.Companies()
	if _, ok := findChoice(companies, choice); !ok {
		return fail(c, h.l, endpoint, xhttp.BadRequestErrorf("Invalid choice. Please select %s", choiceHint(companies)))
	}
	if !h.allow(c, endpoint) {
		return fail(c, h.l, endpoint, xhttp.TooManyRequestsError("Too many forecast requests"))
	}

	res, err := h.forecasts.ByChoice(c.Request().Context(), choice, models.TriggerHTTP)
	if err != nil {
		co, _ := findChoice(companies, choice)
		return fail(c, h.l, endpoint, forecastError(co.Name, err))
	}
	return xhttp.SuccessResponse(c, res)
}

// List returns the quote table, filtered by ?q= when present.
func (h *StocksHandler) List(c echo.Context) error {
	const endpoint = "stocks"
	defer observe(endpoint, time.Now())

	req := &models.StockSearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.catalog.Stocks(c.Request().Context(), req.Query)
	if err != nil {
		return fail(c, h.l, endpoint, xhttp.InternalError("Could not list stocks").WithError(err))
	}
	return xhttp.SuccessResponse(c, rows)
}

// Forecast evaluates the model for the catalog company behind :symbol.
func (h *StocksHandler) Forecast(c echo.Context) error {
	const endpoint = "stock_forecast"
	defer observe(endpoint, time.Now())

	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := strings.ToUpper(req.Symbol)
	if !h.allow(c, endpoint) {
		return fail(c, h.l, endpoint, xhttp.TooManyRequestsError("Too many forecast requests"))
	}

	res, err := h.forecasts.BySymbol(c.Request().Context(), symbol, models.TriggerHTTP, "")
	if err != nil {
		return fail(c, h.l, endpoint, forecastError(symbol, err))
	}
	return xhttp.SuccessResponse(c, res)
}

// History returns the trailing bars for ?range= (default 1m).
func (h *StocksHandler) History(c echo.Context) error {
	const endpoint = "stock_history"
	defer observe(endpoint, time.Now())

	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := strings.ToUpper(req.Symbol)

	res, err := h.history.History(c.Request().Context(), symbol, req.Range)
	if err != nil {
		return fail(c, h.l, endpoint, forecastError(symbol, err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksHandler) allow(c echo.Context, endpoint string) bool {
	if h.rl.Allow(fmt.Sprintf("%s:forecast", c.RealIP())) {
		return true
	}
	metrics.RateLimited.WithLabelValues(endpoint).Inc()
	if h.l != nil {
		h.l.Warn("forecast rate limited", applogger.String("remote", c.RealIP()), applogger.String("endpoint", endpoint))
	}
	return false
}

// choiceHint renders "1-N" for a contiguous menu and the explicit list otherwise.
func choiceHint(companies []models.Company) string {
	contiguous := true
	choices := make([]string, len(companies))
	for i, co := range companies {
		choices[i] = strconv.Itoa(co.Choice)
		if co.Choice != i+1 {
			contiguous = false
		}
	}
	if contiguous && len(companies) > 0 {
		return "1-" + strconv.Itoa(len(companies))
	}
	return "one of " + strings.Join(choices, ", ")
}

func findChoice(companies []models.Company, choice int) (models.Company, bool) {
	for _, co := range companies {
		if co.Choice == choice {
			return co, true
		}
	}
	return models.Company{}, false
}
