package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/api"
	"github.com/yourusername/social-fetch-go/internal/app"
	"github.com/yourusername/social-fetch-go/internal/infrastructure"
	"github.com/yourusername/social-fetch-go/pkg/logger"
)

var (
	serverMode = flag.Bool("server-mode", false, "Internal flag: run in server mode (called by daemon)")
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// If not in server mode, run as daemon
	if !*serverMode {
		startAsDaemon()
		return
	}

	runServer()
}

// startAsDaemon forks the current process and runs the server in background
func startAsDaemon() {
	execPath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get executable path: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}

	args := []string{"-server-mode"}
	if *configPath != "" {
		args = append(args, "-config", *configPath)
	}

	cmd := exec.Command(execPath, args...)
	cmd.Dir = cwd
	cmd.Env = os.Environ()

	// Detach from parent process
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open /dev/null: %v\n", err)
		os.Exit(1)
	}
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start daemon: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Server started as daemon (PID: %d)\n", cmd.Process.Pid)
	os.Exit(0)
}

func runServer() {
	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting social-fetch server",
		zap.String("version", "1.0.0"),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("ytdlp_binary", config.Download.YTDLPBinary))

	// Create working directories
	if err := os.MkdirAll(config.Download.TempDir, 0755); err != nil {
		log.Fatal("Failed to create temp directory", zap.Error(err))
	}
	if err := os.MkdirAll(filepath.Dir(config.History.DatabasePath), 0755); err != nil {
		log.Fatal("Failed to create database directory", zap.Error(err))
	}

	// Initialize history repository
	repo, err := infrastructure.NewSQLiteHistoryRepository(config.History.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize history repository", zap.Error(err))
	}
	defer repo.Close()

	// Initialize resolution capabilities
	extractor := infrastructure.NewYTDLPExtractor(&config.Download, log)
	tracks := infrastructure.NewSpotifyClient(&config.Spotify, log)
	search := infrastructure.NewYouTubeSearcher(log)
	posts := infrastructure.NewInstagramReader(&config.Instagram, log)
	fetcher := infrastructure.NewHTTPAssetFetcher(config.Instagram.UserAgent)

	orchestrator := app.NewOrchestrator(extractor, tracks, search, posts, fetcher, log)

	// Setup HTTP router
	router := api.SetupRouter(api.Deps{
		Orchestrator: orchestrator,
		Fetcher:      fetcher,
		History:      repo,
		Ready:        repo,
		Config:       config,
		Logger:       log,
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown: in-flight streams get time to drain
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
