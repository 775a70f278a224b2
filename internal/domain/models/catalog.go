package models

// Company is a catalog entry that can be forecast.
type Company struct {
	Choice int    `json:"choice"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Source string `json:"-"`
}

// Stock is a row of the quote table. Volume and MarketCap are display strings ("89.4M", "1.86T").
type Stock struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        string  `json:"volume"`
	MarketCap     string  `json:"marketCap"`
}

// Prediction is a precomputed next-price call. CurrentPrice and Trend are only set on detail lookups.
type Prediction struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"currentPrice,omitempty"`
	NextPrice    float64  `json:"nextPrice"`
	Confidence   int      `json:"confidence"`
	Trend        string   `json:"trend,omitempty"`
}

// NewsItem is a news headline. Content is only set on detail lookups.
type NewsItem struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Source   string `json:"source,omitempty"`
	Content  string `json:"content,omitempty"`
}

// MarketIndex is a headline index quote.
type MarketIndex struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

// MarketStatus reports the trading session state.
type MarketStatus struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Timezone string `json:"timezone"`
}

// Mover is a top gainer or loser.
type Mover struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// Movers is the response of the movers endpoint.
type Movers struct {
	Type   string  `json:"type"`
	Movers []Mover `json:"movers"`
}

// Mover kinds.
const (
	MoversGainers = "gainers"
	MoversLosers  = "losers"
)
