package api

import (
	"errors"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/metrics"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler serves predictions, news and market overview tables.
type MarketHandler struct {
	catalog *usecase.CatalogUseCase
	l       *applogger.Logger
}

func NewMarketHandler(c *usecase.CatalogUseCase) *MarketHandler {
	metrics.Register()
	return &MarketHandler{catalog: c}
}

// SetLogger injects a structured logger.
func (h *MarketHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/predictions", h.Predictions)
	g.GET("/predictions/top", h.Predictions)
	g.GET("/predictions/:symbol", h.Prediction)
	g.GET("/news", h.News)
	g.GET("/news/:id", h.Article)
	g.GET("/market/indices", h.Indices)
	g.GET("/market/status", h.Status)
	g.GET("/market/movers", h.Movers)
}

// Predictions returns at most ?limit= rows; a missing or bad limit means 5.
func (h *MarketHandler) Predictions(c echo.Context) error {
	const endpoint = "predictions"
	defer observe(endpoint, time.Now())

	limit := xhttp.ParsePositiveIntDefault(c.QueryParam("limit"), usecase.DefaultLimit)
	rows, err := h.catalog.Predictions(c.Request().Context(), limit)
	if err != nil {
		return fail(c, h.l, endpoint, xhttp.InternalError("Could not list predictions").WithError(err))
	}
	return xhttp.SuccessResponse(c, rows)
}

func (h *MarketHandler) Prediction(c echo.Context) error {
	const endpoint = "prediction"
	defer observe(endpoint, time.Now())

	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p, err := h.catalog.Prediction(c.Request().Context(), req.Symbol)
	if errors.Is(err, usecase.ErrNotFound) {
		return fail(c, h.l, endpoint, xhttp.NotFoundError("Prediction not found"))
	}
	if err != nil {
		return fail(c, h.l, endpoint, xhttp.InternalError("Could not load prediction").WithError(err))
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *MarketHandler) News(c echo.Context) error {
	const endpoint = "news"
	defer observe(endpoint, time.Now())

	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.catalog.News(c.Request().Context(), req.Category)
	if err != nil {
		return fail(c, h.l, endpoint, xhttp.InternalError("Could not list news").WithError(err))
	}
	return xhttp.SuccessResponse(c, rows)
}

// Article treats a non-numeric id like an unknown one.
func (h *MarketHandler) Article(c echo.Context) error {
	const endpoint = "news_article"
	defer observe(endpoint, time.Now())

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return fail(c, h.l, endpoint, xhttp.NotFoundError("Article not found"))
	}
	a, err := h.catalog.Article(c.Request().Context(), id)
	if errors.Is(err, usecase.ErrNotFound) {
		return fail(c, h.l, endpoint, xhttp.NotFoundError("Article not found"))
	}
	if err != nil {
		return fail(c, h.l, endpoint, xhttp.InternalError("Could not load article").WithError(err))
	}
	return xhttp.SuccessResponse(c, a)
}

func (h *MarketHandler) Indices(c echo.Context) error {
	const endpoint = "market_indices"
	defer observe(endpoint, time.Now())

	rows, err := h.catalog.Indices(c.Request().Context())
	if err != nil {
		return fail(c, h.l, endpoint, xhttp.InternalError("Could not load indices").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"indices": rows})
}

func (h *MarketHandler) Status(c echo.Context) error {
	const endpoint = "market_status"
	defer observe(endpoint, time.Now())

	st, err := h.catalog.Status(c.Request().Context())
	if err != nil {
		return fail(c, h.l, endpoint, xhttp.InternalError("Could not load market status").WithError(err))
	}
	return xhttp.SuccessResponse(c, st)
}

// Movers returns gainers or losers, at most ?limit= rows.
func (h *MarketHandler) Movers(c echo.Context) error {
	const endpoint = "market_movers"
	defer observe(endpoint, time.Now())

	req := &models.MoversRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	limit := xhttp.ParsePositiveIntDefault(c.QueryParam("limit"), usecase.DefaultLimit)
	res, err := h.catalog.Movers(c.Request().Context(), req.Type, limit)
	if err != nil {
		return fail(c, h.l, endpoint, xhttp.InternalError("Could not load movers").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}
