package memory

import (
	"context"
	"testing"

	"StockPulse/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog([]config.Company{
		{Choice: 2, Symbol: "amzn", Name: "Amazon", Source: "Amazon.csv"},
		{Choice: 1, Symbol: "TSLA", Name: "Tesla", Source: "TSLA.csv"},
	})

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "TSLA", list[0].Symbol)
	assert.Equal(t, "AMZN", list[1].Symbol)

	co, ok := c.BySymbol(" Amzn ")
	require.True(t, ok)
	assert.Equal(t, "Amazon.csv", co.Source)

	co, ok = c.ByChoice(1)
	require.True(t, ok)
	assert.Equal(t, "Tesla", co.Name)

	_, ok = c.ByChoice(7)
	assert.False(t, ok)
	_, ok = c.BySymbol("MSFT")
	assert.False(t, ok)
}

func TestMarketDataTables(t *testing.T) {
	ctx := context.Background()
	m := NewMarketData()

	s, err := m.Stocks(ctx)
	require.NoError(t, err)
	require.Len(t, s, 6)
	assert.Equal(t, "89.4M", s[0].Volume)

	s[0].Symbol = "XXX"
	again, _ := m.Stocks(ctx)
	assert.Equal(t, "TSLA", again[0].Symbol)

	p, err := m.Predictions(ctx)
	require.NoError(t, err)
	assert.Len(t, p, 5)
	assert.Nil(t, p[0].CurrentPrice)
}

func TestPredictionDetail(t *testing.T) {
	m := NewMarketData()

	p, err := m.PredictionDetail(context.Background(), "aapl")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "AAPL", p.Symbol)
	assert.Equal(t, 205.2, p.NextPrice)
	require.NotNil(t, p.CurrentPrice)
	assert.Equal(t, 185.92, *p.CurrentPrice)
	assert.Equal(t, "bullish", p.Trend)

	p, err = m.PredictionDetail(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewsDetail(t *testing.T) {
	m := NewMarketData()

	n, err := m.NewsDetail(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "Amazon Announces Q4 Earnings Beat", n.Title)
	assert.Equal(t, "Full article content...", n.Content)

	n, err = m.NewsDetail(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestMovers(t *testing.T) {
	m := NewMarketData()

	g, _ := m.Movers(context.Background(), "GAINERS")
	assert.Len(t, g, 3)
	l, _ := m.Movers(context.Background(), "losers")
	require.Len(t, l, 2)
	assert.Equal(t, -2.1, l[0].Change)
}
