package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/api/handlers"
	"github.com/yourusername/social-fetch-go/api/middleware"
	"github.com/yourusername/social-fetch-go/internal/app"
	"github.com/yourusername/social-fetch-go/internal/domain"
)

// Deps bundles the collaborators the router needs
type Deps struct {
	Orchestrator *app.Orchestrator
	Fetcher      domain.AssetFetcher
	History      domain.HistoryRepository
	Ready        handlers.ReadyChecker
	Config       *domain.Config
	Logger       *zap.Logger
}

// SetupRouter sets up the HTTP router
func SetupRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "social-fetch downloader API is running"})
	})

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(deps.Ready, deps.Config.Download.YTDLPBinary)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	chunkSize := deps.Config.Download.ChunkSize

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		downloadHandler := handlers.NewDownloadHandler(deps.Orchestrator, deps.History, chunkSize, deps.Logger)
		v1.POST("/download/:platform", downloadHandler.Download)

		proxyHandler := handlers.NewProxyHandler(deps.Fetcher, chunkSize, deps.Logger)
		v1.GET("/proxy-image", proxyHandler.ProxyImage)

		historyHandler := handlers.NewHistoryHandler(deps.History, deps.Logger)
		history := v1.Group("/history")
		{
			history.GET("", historyHandler.List)
			history.GET("/stats", historyHandler.Stats)
			history.GET("/:id", historyHandler.Get)
			history.DELETE("/:id", historyHandler.Delete)
		}
	}

	return router
}
