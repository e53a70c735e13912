package service

import (
	"context"
	"log"
	"time"

	"kriptopulse/internal/cache"
	"kriptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// MarketProvider is the upstream surface MarketService depends on.
type MarketProvider interface {
	FetchCoinList(ctx context.Context) ([]domain.CoinSummary, error)
	FetchCandles(ctx context.Context, assetID string) ([]domain.CandlePoint, error)
}

// MarketService serves market data through the freshness cache: cache hit
// returns the stored payload, miss triggers a single upstream fetch whose
// result refills the cache. A failed fetch leaves the cache untouched.
type MarketService struct {
	tracer      trace.Tracer
	provider    MarketProvider
	cache       *cache.Cache
	coinsWindow time.Duration
	chartWindow time.Duration
}

func NewMarketService(
	tracer trace.Tracer,
	provider MarketProvider,
	c *cache.Cache,
	coinsWindow, chartWindow time.Duration,
) *MarketService {
	return &MarketService{
		tracer:      tracer,
		provider:    provider,
		cache:       c,
		coinsWindow: coinsWindow,
		chartWindow: chartWindow,
	}
}

// coinsCacheKey covers every parameter of the fixed markets query.
var coinsCacheKey = cache.DeriveKey("coins", "vs=usd", "order=market_cap_desc", "per_page=20")

func chartCacheKey(assetID string) string {
	return cache.DeriveKey("chart", "asset="+assetID, "vs=usd", "days=90")
}

// GetCoins returns the market listing, served from cache while fresh.
func (s *MarketService) GetCoins(ctx context.Context) ([]domain.CoinSummary, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.get-coins")
	defer span.End()

	if payload, ok := s.cache.Get(coinsCacheKey, s.coinsWindow); ok {
		return payload.([]domain.CoinSummary), nil
	}

	coins, err := s.provider.FetchCoinList(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Put(coinsCacheKey, coins)
	log.Printf("refreshed coin list (%d coins)", len(coins))
	return coins, nil
}

// GetChart returns OHLC points for assetID, served from cache while fresh.
func (s *MarketService) GetChart(ctx context.Context, assetID string) ([]domain.CandlePoint, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.get-chart")
	defer span.End()

	key := chartCacheKey(assetID)
	if payload, ok := s.cache.Get(key, s.chartWindow); ok {
		return payload.([]domain.CandlePoint), nil
	}

	candles, err := s.provider.FetchCandles(ctx, assetID)
	if err != nil {
		return nil, err
	}

	s.cache.Put(key, candles)
	log.Printf("refreshed chart for %s (%d points)", assetID, len(candles))
	return candles, nil
}
