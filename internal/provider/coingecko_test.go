package provider

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestCoinGecko(fn roundTripFunc) *CoinGeckoProvider {
	p := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{Transport: fn}
	p.limiter = NewRateLimiter(100, time.Millisecond)
	return p
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func TestFetchCoinList(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/coins/markets") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("vs_currency") != "usd" || q.Get("order") != "market_cap_desc" || q.Get("per_page") != "20" {
			t.Fatalf("unexpected query: %s", req.URL.RawQuery)
		}
		if req.Header.Get("User-Agent") != userAgent {
			t.Fatalf("missing client identifier header")
		}
		return jsonResponse(http.StatusOK, `[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png",
			 "current_price":97000.5,"market_cap":1900000000000,"total_volume":45000000000,
			 "price_change_percentage_24h":2.34},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3500}
		]`), nil
	})

	coins, err := p.FetchCoinList(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("expected 2 coins, got %d", len(coins))
	}
	btc := coins[0]
	if btc.ID != "bitcoin" || btc.CurrentPrice != 97000.5 || btc.PriceChangePercent24h != 2.34 {
		t.Fatalf("unexpected first coin: %+v", btc)
	}
	// Provider ordering must be preserved.
	if coins[1].ID != "ethereum" {
		t.Fatalf("expected ethereum second, got %s", coins[1].ID)
	}
	// Absent fields stay at zero, never fabricated.
	if coins[1].Image != "" || coins[1].MarketCap != 0 {
		t.Fatalf("unexpected defaults: %+v", coins[1])
	}
}

func TestFetchCoinListUpstreamError(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"error":"throttled"}`), nil
	})

	_, err := p.FetchCoinList(context.Background())
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Kind != "market-data" || ue.Status != http.StatusTooManyRequests {
		t.Fatalf("unexpected error fields: %+v", ue)
	}
}

func TestFetchCoinListTransportError(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := p.FetchCoinList(context.Background())
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Status != 0 {
		t.Fatalf("transport failure should carry no HTTP status, got %d", ue.Status)
	}
}

func TestFetchCandles(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/coins/bitcoin/ohlc") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `[
			[1700000000000, 100, 110, 90, 105],
			[1700001800000, 105, 108, 101, 102.75]
		]`), nil
	})

	candles, err := p.FetchCandles(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	first := candles[0]
	if first.Time != 1700000000 {
		t.Fatalf("expected ms to s conversion, got %d", first.Time)
	}
	if first.Open != 100 || first.High != 110 || first.Low != 90 || first.Close != 105 {
		t.Fatalf("unexpected first candle: %+v", first)
	}
	if candles[1].Close != 102.75 {
		t.Fatalf("OHLC values must pass through unrounded, got %v", candles[1].Close)
	}
}

func TestFetchCandlesErrorNamesAsset(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"error":"coin not found"}`), nil
	})

	_, err := p.FetchCandles(context.Background(), "dogecoin")
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Kind != "candles" || ue.AssetID != "dogecoin" || ue.Status != http.StatusNotFound {
		t.Fatalf("unexpected error fields: %+v", ue)
	}
}

func TestNormalizeCandlesCoercion(t *testing.T) {
	t.Parallel()

	rows := [][]any{
		{float64(1700000000000), "100", "110", "90", "105"},
		{float64(1700001800000), 50.0},             // short row skipped
		{"not-a-number", 1.0, 2.0, 3.0, 4.0},       // bad timestamp skipped
		{float64(1700003600000), 1.0, 2.0, 0.5, 1.5},
	}

	candles := normalizeCandles(rows)
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	first := candles[0]
	if first.Time != 1700000000 || first.Open != 100 || first.High != 110 || first.Low != 90 || first.Close != 105 {
		t.Fatalf("string OHLC values must coerce: %+v", first)
	}
	// Upstream ordering mirrored, duplicates and gaps untouched.
	if candles[1].Time != 1700003600 {
		t.Fatalf("unexpected second candle time: %d", candles[1].Time)
	}
}
