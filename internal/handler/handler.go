package handler

import (
	"kriptopulse/internal/config"
	"kriptopulse/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer trace.Tracer
	market *service.MarketService
	news   *service.NewsService
	cfg    *config.Config
}

func New(tracer trace.Tracer, market *service.MarketService, news *service.NewsService, cfg *config.Config) *Handler {
	return &Handler{
		tracer: tracer,
		market: market,
		news:   news,
		cfg:    cfg,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/api/health", h.Health)
	r.GET("/api/market/coins", h.GetCoins)
	r.GET("/api/market/chart/:assetId", h.GetChart)
	r.GET("/api/berita", h.GetNews)
}

// clientMessage hides upstream error detail from browsers in production;
// development mode returns the underlying error text.
func (h *Handler) clientMessage(err error, generic string) string {
	if h.cfg.IsProduction() {
		return generic
	}
	return err.Error()
}
