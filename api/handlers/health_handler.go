package handlers

import (
	"net/http"
	"os/exec"

	"github.com/gin-gonic/gin"
)

// ReadyChecker verifies a backing dependency is reachable
type ReadyChecker interface {
	Ping() error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	repo        ReadyChecker
	ytdlpBinary string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(repo ReadyChecker, ytdlpBinary string) *HealthHandler {
	return &HealthHandler{
		repo:        repo,
		ytdlpBinary: ytdlpBinary,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.repo.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "history database unreachable",
		})
		return
	}

	if _, err := exec.LookPath(h.ytdlpBinary); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "yt-dlp binary not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
