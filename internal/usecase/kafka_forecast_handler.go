package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/forecast"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
)

// KafkaForecastHandler runs forecasts requested on the requests topic.
// Requests that can never succeed are reported on the results topic and
// acknowledged; only unexpected pipeline errors are returned for retry.
type KafkaForecastHandler struct {
	topic string
	uc    *ForecastUseCase
	l     *applogger.Logger
}

func NewKafkaForecastHandler(topic string, uc *ForecastUseCase, l *applogger.Logger) *KafkaForecastHandler {
	if l == nil {
		l = applogger.Nop()
	}
	return &KafkaForecastHandler{topic: topic, uc: uc, l: l}
}

func (h *KafkaForecastHandler) Topic() string { return h.topic }

// incoming message schema: {"run_id": "...", "symbol": "TSLA"}
func (h *KafkaForecastHandler) Handle(ctx context.Context, b []byte) error {
	var req models.ForecastRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.l.Warn("forecast request unreadable", applogger.Error(err))
		h.uc.PublishFailure(ctx, pkgkafka.RunIDFrom(ctx), "", models.TriggerKafka, fmt.Errorf("decode request: %w", err))
		return nil
	}
	if req.RunID == "" {
		req.RunID = pkgkafka.RunIDFrom(ctx)
	}
	if err := xhttp.ValidateStruct(&req); err != nil {
		msg := strings.Join(xhttp.ValidationMessages(err), "; ")
		h.uc.PublishFailure(ctx, req.RunID, req.Symbol, models.TriggerKafka, fmt.Errorf("invalid request: %s", msg))
		return nil
	}

	_, err := h.uc.BySymbol(ctx, req.Symbol, models.TriggerKafka, req.RunID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnknownCompany):
		h.uc.PublishFailure(ctx, req.RunID, strings.ToUpper(req.Symbol), models.TriggerKafka, err)
		return nil
	case retryable(err):
		return err
	default:
		return nil
	}
}

var _ pkgkafka.MessageHandler = (*KafkaForecastHandler)(nil)

// retryable reports whether a failed run may succeed on redelivery.
// Data and fit errors are deterministic for a given source.
func retryable(err error) bool {
	if errors.Is(err, forecast.ErrDegenerateFit) {
		return false
	}
	return forecast.Kind(err) == forecast.KindError
}
