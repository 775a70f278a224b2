package models

import "time"

// PriceBar is one trading day of a price history.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is the ordered history of one company. It is owned by a single pipeline run.
type PriceSeries struct {
	Source string
	Bars   []PriceBar
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// FeatureNames lists the regressors in the order they are fed to the model.
var FeatureNames = []string{"Open", "High", "Low", "Close", "Volume", "MA_7", "MA_30", "Std_7", "Range"}

// FeatureRow is a bar with its engineered features and next-bar target.
type FeatureRow struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	MA7    float64
	MA30   float64
	Std7   float64
	Range  float64
	Target float64
}

// Features returns the regressors in FeatureNames order.
func (r *FeatureRow) Features() []float64 {
	return []float64{r.Open, r.High, r.Low, r.Close, r.Volume, r.MA7, r.MA30, r.Std7, r.Range}
}

// HistoryPoint is a bar as served by the history endpoint.
type HistoryPoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// History is the response of the history endpoint.
type History struct {
	Symbol  string         `json:"symbol"`
	Company string         `json:"company"`
	Range   string         `json:"range"`
	Points  []HistoryPoint `json:"points"`
}
