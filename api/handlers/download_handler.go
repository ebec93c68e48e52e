package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/app"
	"github.com/yourusername/social-fetch-go/internal/domain"
	"github.com/yourusername/social-fetch-go/pkg/sanitize"
)

// DownloadHandler handles download-related HTTP requests
type DownloadHandler struct {
	orchestrator *app.Orchestrator
	history      domain.HistoryRepository
	chunkSize    int
	logger       *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(orchestrator *app.Orchestrator, history domain.HistoryRepository, chunkSize int, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		orchestrator: orchestrator,
		history:      history,
		chunkSize:    chunkSize,
		logger:       logger,
	}
}

// DownloadRequestBody represents the body of a download request
type DownloadRequestBody struct {
	URL           string `json:"url" binding:"required"`
	FormatType    string `json:"format_type,omitempty"`
	Quality       string `json:"quality,omitempty"`
	CarouselIndex *int   `json:"carousel_index,omitempty"`
}

// Download handles POST /api/v1/download/:platform
func (h *DownloadHandler) Download(c *gin.Context) {
	platform := domain.Platform(c.Param("platform"))

	var body DownloadRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	req := domain.NewDownloadRequest(body.URL)
	if body.FormatType != "" {
		req.FormatType = domain.FormatType(body.FormatType)
	}
	if body.Quality != "" {
		req.Quality = body.Quality
	}
	if body.CarouselIndex != nil {
		req.CarouselIndex = *body.CarouselIndex
	}

	resolution, err := h.orchestrator.Resolve(c.Request.Context(), platform, req)
	if err != nil {
		h.logger.Error("resolution failed",
			zap.String("platform", string(platform)),
			zap.String("url", req.SourceURL),
			zap.Error(err))
		h.recordFailure(req, platform, err)
		c.JSON(statusForError(err), gin.H{"detail": err.Error()})
		return
	}

	if resolution.Manifest != nil {
		// Discovery short-circuit: structured data, no bytes
		c.JSON(http.StatusOK, resolution.Manifest)
		return
	}

	defer resolution.Body.Close()
	h.streamTarget(c, platform, req, resolution)
}

// streamTarget relays the resolved byte source to the client and records
// the outcome afterwards. After the first chunk the status is fixed, so
// failures from here on only truncate the stream.
func (h *DownloadHandler) streamTarget(c *gin.Context, platform domain.Platform, req domain.DownloadRequest, resolution *app.Resolution) {
	target := resolution.Target
	record := domain.NewDownloadRecord(req.SourceURL, platform, req.FormatType)
	if err := h.history.Create(record); err != nil {
		h.logger.Warn("failed to create history record", zap.Error(err))
	}

	c.Header("Content-Type", target.MediaType)
	c.Header("Content-Disposition", sanitize.ContentDisposition(target.DisplayFilename))
	c.Status(http.StatusOK)

	written, err := app.Relay(c.Request.Context(), c.Writer, resolution.Body, h.chunkSize)
	if err != nil {
		h.logger.Warn("stream truncated",
			zap.String("url", target.EffectiveURL),
			zap.Int64("bytes_sent", written),
			zap.Error(err))
		record.MarkFailed(err)
		record.BytesSent = written
	} else {
		record.MarkCompleted(target.DisplayFilename, target.MediaType, written)
	}

	if err := h.history.Update(record); err != nil {
		h.logger.Warn("failed to update history record", zap.Error(err))
	}
}

func (h *DownloadHandler) recordFailure(req domain.DownloadRequest, platform domain.Platform, cause error) {
	record := domain.NewDownloadRecord(req.SourceURL, platform, req.FormatType)
	record.MarkFailed(cause)
	if err := h.history.Create(record); err != nil {
		h.logger.Warn("failed to create history record", zap.Error(err))
	}
}

// statusForError maps the resolution error taxonomy to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedPlatform),
		errors.Is(err, domain.ErrPlatformURLMismatch),
		errors.Is(err, domain.ErrInvalidCarouselIndex):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoMatchFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
