package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kriptopulse/internal/cache"
	"kriptopulse/internal/config"
	"kriptopulse/internal/handler"
	"kriptopulse/internal/provider"
	"kriptopulse/internal/relay"
	"kriptopulse/internal/service"
	"kriptopulse/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "kriptopulse/docs"
)

var (
	loadEnvFunc              = godotenv.Load
	loadConfigFunc           = config.Load
	initTracerFunc           = tracing.InitTracer
	newCoinGeckoProviderFunc = func(tracer trace.Tracer) service.MarketProvider {
		return provider.NewCoinGeckoProvider(tracer)
	}
	newNewsProviderFunc = func(tracer trace.Tracer, apiKey string, keywords []string) service.NewsFetcher {
		return provider.NewNewsProvider(tracer, apiKey, keywords)
	}
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Kriptopulse API
// @version         1.0
// @description     Relay server for the crypto information portal.

// @host      localhost:3001
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// One shared freshness cache for all data kinds; windows differ per
	// endpoint.
	store := cache.New()

	cgProvider := newCoinGeckoProviderFunc(tracer)
	newsProvider := newNewsProviderFunc(tracer, cfg.NewsAPIKey, cfg.NewsKeywords)

	marketService := service.NewMarketService(tracer, cgProvider, store,
		time.Duration(cfg.CoinsCacheSecs)*time.Second,
		time.Duration(cfg.ChartCacheSecs)*time.Second)
	newsService := service.NewNewsService(tracer, newsProvider, store,
		time.Duration(cfg.NewsCacheSecs)*time.Second, cfg.NewsKeywords)

	hub := relay.NewHub(cfg.AllowedOrigins)

	h := handler.New(tracer, marketService, newsService, cfg)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("kriptopulse"))
	r.Use(cors.New(corsConfig(cfg)))

	h.RegisterRoutes(r)
	r.GET("/ws", hub.HandleWS)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	log.Printf("listening on :%d (%s)", cfg.Port, cfg.Environment)

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "OPTIONS"}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.AllowedOrigins
	return c
}
