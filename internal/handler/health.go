package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Root godoc
// @Summary      Service banner
// @Description  Plain-text liveness banner
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "kriptopulse relay server is running")
}

// Health godoc
// @Summary      Health check
// @Description  Returns process status unconditionally, with no cache or upstream dependency
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.cfg.Environment,
	})
}
