package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/domain"
)

// HistoryHandler handles download-history HTTP requests
type HistoryHandler struct {
	history domain.HistoryRepository
	logger  *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history domain.HistoryRepository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(c *gin.Context) {
	filters := make(map[string]interface{})

	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if platform := c.Query("platform"); platform != "" {
		filters["platform"] = platform
	}

	records, err := h.history.FindAll(filters)
	if err != nil {
		h.logger.Error("failed to list history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

// Get handles GET /api/v1/history/:id
func (h *HistoryHandler) Get(c *gin.Context) {
	id := c.Param("id")

	record, err := h.history.FindByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "record not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// Stats handles GET /api/v1/history/stats
func (h *HistoryHandler) Stats(c *gin.Context) {
	stats, err := h.history.GetStats()
	if err != nil {
		h.logger.Error("failed to get history stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Delete handles DELETE /api/v1/history/:id
func (h *HistoryHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.history.Delete(id); err != nil {
		h.logger.Error("failed to delete history record", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "record deleted"})
}
