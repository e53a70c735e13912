package service

import (
	"context"
	"log"
	"strings"
	"time"

	"kriptopulse/internal/cache"
	"kriptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type NewsFetcher interface {
	FetchNews(ctx context.Context) ([]domain.Article, error)
}

// NewsService serves the news feed through the freshness cache. Articles
// are cached and returned exactly as the provider delivered them; the
// gateway decides whether to drop incomplete entries.
type NewsService struct {
	tracer   trace.Tracer
	provider NewsFetcher
	cache    *cache.Cache
	window   time.Duration
	cacheKey string
}

func NewNewsService(
	tracer trace.Tracer,
	provider NewsFetcher,
	c *cache.Cache,
	window time.Duration,
	keywords []string,
) *NewsService {
	return &NewsService{
		tracer:   tracer,
		provider: provider,
		cache:    c,
		window:   window,
		cacheKey: cache.DeriveKey("news", "q="+strings.Join(keywords, " OR ")),
	}
}

// GetNews returns the latest articles, served from cache while fresh.
func (s *NewsService) GetNews(ctx context.Context) ([]domain.Article, error) {
	ctx, span := s.tracer.Start(ctx, "news-service.get-news")
	defer span.End()

	if payload, ok := s.cache.Get(s.cacheKey, s.window); ok {
		return payload.([]domain.Article), nil
	}

	articles, err := s.provider.FetchNews(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Put(s.cacheKey, articles)
	log.Printf("refreshed news feed (%d articles)", len(articles))
	return articles, nil
}
