package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"kriptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	coingeckoBaseURL = "https://api.coingecko.com/api/v3"

	// Query parameters fixed by the portal's catalog view.
	vsCurrency     = "usd"
	marketsPerPage = 20
	ohlcDays       = 90
)

const userAgent = "kriptopulse/1.0"

const upstreamTimeout = 10 * time.Second

// CoinGeckoProvider fetches market listings and OHLC data from the
// CoinGecko free API. Single attempt per call; the caller decides what to
// do on failure.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a provider with built-in rate limiting.
// Rate limited to 8 requests per minute (one token every 7.5 seconds) to
// stay inside the free-tier allowance.
func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: upstreamTimeout},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// coinMarketRow mirrors the subset of the /coins/markets response shape
// the portal serves. CoinGecko is an unversioned contract; every field is
// treated as optional.
type coinMarketRow struct {
	ID                    string  `json:"id"`
	Symbol                string  `json:"symbol"`
	Name                  string  `json:"name"`
	Image                 string  `json:"image"`
	CurrentPrice          float64 `json:"current_price"`
	MarketCap             float64 `json:"market_cap"`
	TotalVolume           float64 `json:"total_volume"`
	PriceChangePercent24h float64 `json:"price_change_percentage_24h"`
}

// FetchCoinList fetches the market listing: top assets by market cap in
// the fixed currency, provider ordering preserved.
func (p *CoinGeckoProvider) FetchCoinList(ctx context.Context) ([]domain.CoinSummary, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-coin-list")
	defer span.End()

	url := fmt.Sprintf("%s/coins/markets?vs_currency=%s&order=market_cap_desc&per_page=%d&page=1&sparkline=false",
		p.baseURL, vsCurrency, marketsPerPage)

	body, err := p.doRequest(ctx, "market-data", "", url)
	if err != nil {
		return nil, err
	}

	var rows []coinMarketRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parse coin list: %w", err)
	}

	coins := make([]domain.CoinSummary, 0, len(rows))
	for _, row := range rows {
		coins = append(coins, domain.CoinSummary{
			ID:                    row.ID,
			Symbol:                row.Symbol,
			Name:                  row.Name,
			Image:                 row.Image,
			CurrentPrice:          row.CurrentPrice,
			PriceChangePercent24h: row.PriceChangePercent24h,
			MarketCap:             row.MarketCap,
			Volume24h:             row.TotalVolume,
		})
	}

	return coins, nil
}

// FetchCandles fetches OHLC buckets for assetID over the fixed range.
// Upstream rows are [timestampMs, open, high, low, close]; timestamps are
// converted to whole seconds and OHLC values passed through unrounded.
func (p *CoinGeckoProvider) FetchCandles(ctx context.Context, assetID string) ([]domain.CandlePoint, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-candles")
	defer span.End()

	url := fmt.Sprintf("%s/coins/%s/ohlc?vs_currency=%s&days=%d",
		p.baseURL, assetID, vsCurrency, ohlcDays)

	body, err := p.doRequest(ctx, "candles", assetID, url)
	if err != nil {
		return nil, err
	}

	var rows [][]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parse ohlc for %s: %w", assetID, err)
	}

	return normalizeCandles(rows), nil
}

// normalizeCandles converts raw OHLC rows into CandlePoints, keeping the
// upstream ordering. Short rows are skipped; numeric values arriving as
// strings are coerced.
func normalizeCandles(rows [][]any) []domain.CandlePoint {
	candles := make([]domain.CandlePoint, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		ts, err := coerceFloat(row[0])
		if err != nil {
			continue
		}
		vals := make([]float64, 4)
		ok := true
		for i := 0; i < 4; i++ {
			v, err := coerceFloat(row[i+1])
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		candles = append(candles, domain.CandlePoint{
			Time:  int64(ts) / 1000,
			Open:  vals[0],
			High:  vals[1],
			Low:   vals[2],
			Close: vals[3],
		})
	}
	return candles
}

func coerceFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(n, 64)
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, kind, assetID, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Kind: kind, AssetID: assetID, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{Kind: kind, AssetID: assetID, Status: resp.StatusCode, Message: string(body)}
	}

	return io.ReadAll(resp.Body)
}
