package memory

import (
	"context"
	"strings"

	"StockPulse/internal/domain/models"
)

// MarketData serves fixed quote, prediction, news and market tables.
// Every call returns fresh copies so callers may mutate what they get.
type MarketData struct{}

func NewMarketData() *MarketData { return &MarketData{} }

var stocks = []models.Stock{
	{Symbol: "TSLA", Name: "Tesla", Price: 248.50, Change: 5.2, ChangePercent: 2.1, Volume: "89.4M", MarketCap: "790.2B"},
	{Symbol: "AMZN", Name: "Amazon", Price: 180.2, Change: 2.5, ChangePercent: 1.4, Volume: "45.2M", MarketCap: "1.86T"},
	{Symbol: "GOOGL", Name: "Google", Price: 145.8, Change: 3.1, ChangePercent: 2.2, Volume: "24.1M", MarketCap: "1.78T"},
	{Symbol: "META", Name: "Meta", Price: 520.0, Change: 12.5, ChangePercent: 2.4, Volume: "15.3M", MarketCap: "1.23T"},
	{Symbol: "NFLX", Name: "Netflix", Price: 450.3, Change: -8.2, ChangePercent: -1.8, Volume: "2.1M", MarketCap: "188.5B"},
	{Symbol: "AAPL", Name: "Apple", Price: 185.92, Change: 3.45, ChangePercent: 1.89, Volume: "52.3M", MarketCap: "2.89T"},
}

var predictions = []models.Prediction{
	{Symbol: "TSLA", Name: "Tesla", NextPrice: 265.3, Confidence: 85},
	{Symbol: "AMZN", Name: "Amazon", NextPrice: 185.1, Confidence: 78},
	{Symbol: "GOOGL", Name: "Google", NextPrice: 150.2, Confidence: 82},
	{Symbol: "META", Name: "Meta", NextPrice: 535.8, Confidence: 75},
	{Symbol: "NFLX", Name: "Netflix", NextPrice: 440.5, Confidence: 80},
}

type predictionDetail struct {
	name       string
	current    float64
	next       float64
	confidence int
	trend      string
}

var predictionDetails = map[string]predictionDetail{
	"TSLA":  {"Tesla", 248.50, 265.3, 85, "bullish"},
	"AMZN":  {"Amazon", 180.2, 185.1, 78, "neutral"},
	"GOOGL": {"Google", 145.8, 150.2, 82, "bullish"},
	"META":  {"Meta", 520.0, 535.8, 75, "neutral"},
	"NFLX":  {"Netflix", 450.3, 440.5, 80, "bullish"},
	"AAPL":  {"Apple", 185.92, 205.2, 79, "bullish"},
}

var news = []models.NewsItem{
	{ID: 1, Title: "Tesla Stock Surges on New Product Launch", Category: "stocks", Date: "2024-01-15", Source: "Financial Times"},
	{ID: 2, Title: "Amazon Announces Q4 Earnings Beat", Category: "stocks", Date: "2024-01-14", Source: "Reuters"},
	{ID: 3, Title: "Google Cloud Revenue Increases 26%", Category: "technology", Date: "2024-01-13", Source: "TechCrunch"},
	{ID: 4, Title: "Market Volatility Expected in Spring", Category: "market", Date: "2024-01-12", Source: "Bloomberg"},
}

// Only these articles have a full body.
var articleBodies = map[int]string{
	1: "Full article content...",
	2: "Full article content...",
}

var indices = []models.MarketIndex{
	{Symbol: "^GSPC", Name: "S&P 500", Value: 4890.5, Change: 0.8},
	{Symbol: "^IXIC", Name: "NASDAQ", Value: 15320.2, Change: 1.2},
	{Symbol: "^DJI", Name: "Dow Jones", Value: 38500.8, Change: 0.5},
}

var gainers = []models.Mover{
	{Symbol: "TSLA", Price: 250.5, Change: 5.2, ChangePercent: 2.1},
	{Symbol: "META", Price: 520.0, Change: 12.5, ChangePercent: 2.4},
	{Symbol: "NFLX", Price: 450.3, Change: 8.2, ChangePercent: 1.8},
}

var losers = []models.Mover{
	{Symbol: "AMZN", Price: 180.2, Change: -2.1, ChangePercent: -1.2},
	{Symbol: "GOOGL", Price: 145.8, Change: -1.5, ChangePercent: -1.0},
}

func (MarketData) Stocks(context.Context) ([]models.Stock, error) {
	return append([]models.Stock(nil), stocks...), nil
}

func (MarketData) Predictions(context.Context) ([]models.Prediction, error) {
	return append([]models.Prediction(nil), predictions...), nil
}

// PredictionDetail returns nil when symbol has no prediction.
func (MarketData) PredictionDetail(_ context.Context, symbol string) (*models.Prediction, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	d, ok := predictionDetails[sym]
	if !ok {
		return nil, nil
	}
	current := d.current
	return &models.Prediction{
		Symbol:       sym,
		Name:         d.name,
		CurrentPrice: &current,
		NextPrice:    d.next,
		Confidence:   d.confidence,
		Trend:        d.trend,
	}, nil
}

func (MarketData) News(context.Context) ([]models.NewsItem, error) {
	return append([]models.NewsItem(nil), news...), nil
}

// NewsDetail returns nil when the article has no full body.
func (MarketData) NewsDetail(_ context.Context, id int) (*models.NewsItem, error) {
	body, ok := articleBodies[id]
	if !ok {
		return nil, nil
	}
	for _, n := range news {
		if n.ID == id {
			n.Source = ""
			n.Content = body
			return &n, nil
		}
	}
	return nil, nil
}

func (MarketData) Indices(context.Context) ([]models.MarketIndex, error) {
	return append([]models.MarketIndex(nil), indices...), nil
}

func (MarketData) Status(context.Context) (*models.MarketStatus, error) {
	return &models.MarketStatus{Status: "open", Time: "2024-01-15 14:30:00", Timezone: "EST"}, nil
}

// Movers returns gainers for "gainers" (any case) and losers otherwise.
func (MarketData) Movers(_ context.Context, kind string) ([]models.Mover, error) {
	if strings.EqualFold(kind, models.MoversGainers) {
		return append([]models.Mover(nil), gainers...), nil
	}
	return append([]models.Mover(nil), losers...), nil
}
