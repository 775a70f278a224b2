package models

import "time"

// FittedModel is an intercept plus one coefficient per entry of FeatureNames.
type FittedModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Predict evaluates the model on a feature vector.
func (m *FittedModel) Predict(x []float64) float64 {
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * x[i]
	}
	return y
}

// ForecastResult is the wire form of an evaluation.
// MAPE is null when an actual test value is zero; MAPEUndefined flags that case.
type ForecastResult struct {
	Company         string    `json:"company"`
	Dates           []string  `json:"dates"`
	ActualPrices    []float64 `json:"actual_prices"`
	PredictedPrices []float64 `json:"predicted_prices"`
	RMSE            float64   `json:"rmse"`
	MAPE            *float64  `json:"mape"`
	MAPEUndefined   bool      `json:"mape_undefined,omitempty"`
	R2              float64   `json:"r2"`

	Model      *FittedModel `json:"-"`
	TrainSize  int          `json:"-"`
	TestSize   int          `json:"-"`
	FeatureLen int          `json:"-"`
}

// ForecastEvent is published to the results topic after each run.
type ForecastEvent struct {
	RunID      string          `json:"run_id"`
	Symbol     string          `json:"symbol"`
	Company    string          `json:"company"`
	Trigger    string          `json:"trigger"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	ErrorCode  string          `json:"error_code,omitempty"`
	Result     *ForecastResult `json:"result,omitempty"`
	Model      *FittedModel    `json:"model,omitempty"`
	DurationMS int64           `json:"duration_ms"`
	At         time.Time       `json:"at"`
}

// Forecast triggers.
const (
	TriggerHTTP      = "http"
	TriggerScheduler = "scheduler"
	TriggerKafka     = "kafka"
	TriggerCLI       = "cli"
)

// ForecastRequest is an async forecast request read from the requests topic.
type ForecastRequest struct {
	RunID  string `json:"run_id"`
	Symbol string `json:"symbol" validate:"required"`
}
