package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kriptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

const newsPageSize = 40

// NewsProvider fetches articles from NewsAPI. Results come back
// most-recent first (sortBy=publishedAt) and are returned unfiltered;
// dropping incomplete articles is the gateway's call.
type NewsProvider struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	keywords []string
	tracer   trace.Tracer
}

func NewNewsProvider(tracer trace.Tracer, apiKey string, keywords []string) *NewsProvider {
	return &NewsProvider{
		client:   &http.Client{Timeout: upstreamTimeout},
		baseURL:  newsAPIBaseURL,
		apiKey:   apiKey,
		keywords: keywords,
		tracer:   tracer,
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// FetchNews fetches the latest articles matching the configured keywords.
// Fails fast with ErrMissingAPIKey when no credential is configured — no
// network attempt is made.
func (p *NewsProvider) FetchNews(ctx context.Context) ([]domain.Article, error) {
	ctx, span := p.tracer.Start(ctx, "newsapi.fetch-news")
	defer span.End()

	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	query := strings.Join(p.keywords, " OR ")
	reqURL := fmt.Sprintf("%s/everything?q=%s&language=en&sortBy=publishedAt&pageSize=%d",
		p.baseURL, url.QueryEscape(query), newsPageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Kind: "news", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{Kind: "news", Status: resp.StatusCode, Message: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse news response: %w", err)
	}

	articles := make([]domain.Article, 0, len(parsed.Articles))
	for _, row := range parsed.Articles {
		publishedAt := row.PublishedAt
		if publishedAt == "" {
			publishedAt = time.Now().UTC().Format(time.RFC3339)
		}
		articles = append(articles, domain.Article{
			Title:       row.Title,
			URL:         row.URL,
			ImageURL:    row.URLToImage,
			SourceName:  row.Source.Name,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}
