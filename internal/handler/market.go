package handler

import (
	"fmt"
	"log"
	"net/http"

	"kriptopulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// setFreshnessHeader mirrors the application cache window so intermediary
// HTTP caches expire in step with it.
func setFreshnessHeader(c *gin.Context, windowSecs int) {
	c.Header("Cache-Control", fmt.Sprintf("s-maxage=%d, stale-while-revalidate", windowSecs))
}

// GetCoins godoc
// @Summary      Market listing
// @Description  Returns the top coins by market cap with current price and 24h change
// @Tags         market
// @Produce      json
// @Success      200  {array}   domain.CoinSummary
// @Failure      500  {object}  map[string]string
// @Router       /api/market/coins [get]
func (h *Handler) GetCoins(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-coins")
	defer span.End()

	coins, err := h.market.GetCoins(ctx)
	if err != nil {
		log.Printf("coin list request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": h.clientMessage(err, "failed to fetch coin list"),
		})
		return
	}

	setFreshnessHeader(c, h.cfg.CoinsCacheSecs)
	c.JSON(http.StatusOK, coins)
}

// GetChart godoc
// @Summary      OHLC chart data
// @Description  Returns OHLC points for the given asset, timestamps in epoch seconds
// @Tags         market
// @Produce      json
// @Param        assetId  path  string  true  "Asset id (e.g., bitcoin)"
// @Success      200  {array}   domain.CandlePoint
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/market/chart/{assetId} [get]
func (h *Handler) GetChart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-chart")
	defer span.End()

	assetID := c.Param("assetId")
	span.SetAttributes(attribute.String("asset_id", assetID))

	if !domain.IsSupportedAsset(assetID) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":         "unsupported asset: " + assetID,
			"supportedAssets": domain.SupportedAssets,
		})
		return
	}

	candles, err := h.market.GetChart(ctx, assetID)
	if err != nil {
		log.Printf("chart request failed for %s: %v", assetID, err)
		// The asset id is caller-supplied, so naming it is safe.
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": h.clientMessage(err, "failed to fetch chart data for "+assetID),
		})
		return
	}

	setFreshnessHeader(c, h.cfg.ChartCacheSecs)
	c.JSON(http.StatusOK, candles)
}
