package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/app"
	"github.com/yourusername/social-fetch-go/internal/domain"
)

// ProxyHandler streams remote preview images on behalf of the client, to
// work around referrer/CORS restrictions when rendering manifest thumbnails
type ProxyHandler struct {
	fetcher   domain.AssetFetcher
	chunkSize int
	logger    *zap.Logger
}

// NewProxyHandler creates a new image proxy handler
func NewProxyHandler(fetcher domain.AssetFetcher, chunkSize int, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{
		fetcher:   fetcher,
		chunkSize: chunkSize,
		logger:    logger,
	}
}

// ProxyImage handles GET /api/v1/proxy-image?url=...
func (h *ProxyHandler) ProxyImage(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "url query parameter is required"})
		return
	}

	body, err := h.fetcher.Fetch(c.Request.Context(), url)
	if err != nil {
		h.logger.Warn("image proxy fetch failed", zap.String("url", url), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to fetch image"})
		return
	}
	defer body.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)

	if _, err := app.Relay(c.Request.Context(), c.Writer, body, h.chunkSize); err != nil {
		h.logger.Debug("image proxy stream truncated", zap.String("url", url), zap.Error(err))
	}
}
