package api

import (
	"errors"
	"fmt"
	"time"

	"StockPulse/internal/service/metrics"
	"StockPulse/internal/services/forecast"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// forecastError maps a pipeline or lookup failure onto the response contract.
func forecastError(company string, err error) *xhttp.AppError {
	switch {
	case errors.Is(err, usecase.ErrUnknownCompany):
		return xhttp.NotFoundErrorf("Unknown company %s", company).WithError(err)
	case errors.Is(err, forecast.ErrDataNotFound):
		return xhttp.DataNotFoundError(fmt.Sprintf("No usable price data for %s", company)).WithError(err)
	case errors.Is(err, forecast.ErrInsufficientData):
		return xhttp.InsufficientDataError(fmt.Sprintf("Not enough price history to evaluate %s", company)).WithError(err)
	default:
		return xhttp.InternalError(fmt.Sprintf("Could not analyze %s", company)).WithError(err)
	}
}

func observe(endpoint string, start time.Time) {
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// fail counts and logs appErr, then writes it.
func fail(c echo.Context, l *applogger.Logger, endpoint string, appErr *xhttp.AppError) error {
	metrics.APIErrors.WithLabelValues(endpoint, appErr.Code).Inc()
	if l != nil {
		fields := []applogger.Field{
			applogger.String("endpoint", endpoint),
			applogger.String("code", appErr.Code),
			applogger.Int("status", appErr.Status),
		}
		if appErr.Err != nil {
			fields = append(fields, applogger.Error(appErr.Err))
		}
		if appErr.Status >= 500 {
			l.Error("request failed", fields...)
		} else {
			l.Debug("request rejected", fields...)
		}
	}
	return xhttp.AppErrorResponse(c, appErr)
}
