package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/service/cache"
)

// DefaultLimit applies when a list limit is missing or invalid.
const DefaultLimit = 5

// ErrNotFound means a catalog lookup matched nothing.
var ErrNotFound = errors.New("not found")

// CatalogUseCase serves the quote, prediction, news and market tables through a read cache.
type CatalogUseCase struct {
	data  domrepo.MarketData
	cache cache.BytesCache
	ttl   time.Duration
}

// NewCatalogUseCase accepts a nil cache.
func NewCatalogUseCase(data domrepo.MarketData, c cache.BytesCache, ttl time.Duration) *CatalogUseCase {
	return &CatalogUseCase{data: data, cache: c, ttl: ttl}
}

// Stocks lists quotes whose name contains q (any case) or whose symbol contains q upper-cased.
func (u *CatalogUseCase) Stocks(ctx context.Context, q string) ([]models.Stock, error) {
	all, err := cache.GetOrLoad(ctx, u.cache, cache.Key("stocks"), u.ttl, u.data.Stocks)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return all, nil
	}
	lower, upper := strings.ToLower(q), strings.ToUpper(q)
	out := make([]models.Stock, 0, len(all))
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Name), lower) || strings.Contains(s.Symbol, upper) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (u *CatalogUseCase) Predictions(ctx context.Context, limit int) ([]models.Prediction, error) {
	all, err := cache.GetOrLoad(ctx, u.cache, cache.Key("predictions"), u.ttl, u.data.Predictions)
	if err != nil {
		return nil, err
	}
	return truncate(all, limit), nil
}

func (u *CatalogUseCase) Prediction(ctx context.Context, symbol string) (*models.Prediction, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	p, err := cache.GetOrLoad(ctx, u.cache, cache.Key("prediction", sym), u.ttl,
		func(ctx context.Context) (*models.Prediction, error) { return u.data.PredictionDetail(ctx, sym) })
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// News lists headlines, filtered by category when one is given.
func (u *CatalogUseCase) News(ctx context.Context, category string) ([]models.NewsItem, error) {
	all, err := cache.GetOrLoad(ctx, u.cache, cache.Key("news"), u.ttl, u.data.News)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return all, nil
	}
	out := make([]models.NewsItem, 0, len(all))
	for _, n := range all {
		if strings.EqualFold(n.Category, category) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (u *CatalogUseCase) Article(ctx context.Context, id int) (*models.NewsItem, error) {
	n, err := u.data.NewsDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

func (u *CatalogUseCase) Indices(ctx context.Context) ([]models.MarketIndex, error) {
	return cache.GetOrLoad(ctx, u.cache, cache.Key("indices"), u.ttl, u.data.Indices)
}

func (u *CatalogUseCase) Status(ctx context.Context) (*models.MarketStatus, error) {
	return u.data.Status(ctx)
}

// Movers echoes kind back as given; anything but "gainers" selects losers.
func (u *CatalogUseCase) Movers(ctx context.Context, kind string, limit int) (*models.Movers, error) {
	key := cache.Key("movers", strings.ToLower(kind) == models.MoversGainers)
	all, err := cache.GetOrLoad(ctx, u.cache, key, u.ttl,
		func(ctx context.Context) ([]models.Mover, error) { return u.data.Movers(ctx, kind) })
	if err != nil {
		return nil, err
	}
	return &models.Movers{Type: kind, Movers: truncate(all, limit)}, nil
}

func truncate[T any](xs []T, limit int) []T {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit < len(xs) {
		return xs[:limit]
	}
	return xs
}
