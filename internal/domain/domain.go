package domain

// CoinSummary is the normalized market listing entry served to the portal.
// Fields the provider omits stay at their zero value and are dropped from
// the JSON output rather than fabricated.
type CoinSummary struct {
	ID                    string  `json:"id"`
	Symbol                string  `json:"symbol"`
	Name                  string  `json:"name"`
	Image                 string  `json:"image,omitempty"`
	CurrentPrice          float64 `json:"currentPrice"`
	PriceChangePercent24h float64 `json:"priceChangePercent24h"`
	MarketCap             float64 `json:"marketCap,omitempty"`
	Volume24h             float64 `json:"volume24h,omitempty"`
}

// CandlePoint is one OHLC bucket with its open time in whole epoch seconds.
type CandlePoint struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Article is a normalized news item.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl,omitempty"`
	SourceName  string `json:"sourceName"`
	PublishedAt string `json:"publishedAt"`
}

// ChatMessage is the shape chat clients exchange. The relay treats frames
// as opaque bytes; this type exists for the system frames the server itself
// emits and for consumers that choose to parse.
type ChatMessage struct {
	Type      string `json:"type"`
	User      string `json:"user,omitempty"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

const (
	MessageTypeSystem = "system"
	MessageTypeChat   = "chat"
)

// SupportedAssets lists the CoinGecko identifiers the portal serves charts
// for. The cache key space is bounded by this catalog.
var SupportedAssets = []string{
	"bitcoin", "ethereum", "tether", "binancecoin", "solana",
	"ripple", "usd-coin", "cardano", "dogecoin", "tron",
	"avalanche-2", "chainlink", "polkadot", "matic-network", "litecoin",
	"shiba-inu", "uniswap", "stellar", "monero", "okb",
}

// IsSupportedAsset reports whether the given CoinGecko id is in the catalog.
func IsSupportedAsset(id string) bool {
	for _, a := range SupportedAssets {
		if a == id {
			return true
		}
	}
	return false
}
