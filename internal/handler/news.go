package handler

import (
	"errors"
	"log"
	"net/http"

	"kriptopulse/internal/domain"
	"kriptopulse/internal/provider"

	"github.com/gin-gonic/gin"
)

// GetNews godoc
// @Summary      News feed
// @Description  Returns the latest crypto news articles, most recent first
// @Tags         news
// @Produce      json
// @Success      200  {array}   domain.Article
// @Failure      500  {object}  map[string]string
// @Router       /api/berita [get]
func (h *Handler) GetNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-news")
	defer span.End()

	articles, err := h.news.GetNews(ctx)
	if err != nil {
		log.Printf("news request failed: %v", err)
		if errors.Is(err, provider.ErrMissingAPIKey) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "news provider is not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": h.clientMessage(err, "failed to fetch news"),
		})
		return
	}

	// Articles with neither an image nor a title render as empty cards, so
	// they are dropped here rather than in the provider.
	filtered := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.ImageURL == "" && a.Title == "" {
			continue
		}
		filtered = append(filtered, a)
	}

	setFreshnessHeader(c, h.cfg.NewsCacheSecs)
	c.JSON(http.StatusOK, filtered)
}
