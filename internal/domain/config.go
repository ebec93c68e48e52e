package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Download  DownloadConfig  `mapstructure:"download"`
	Spotify   SpotifyConfig   `mapstructure:"spotify"`
	Instagram InstagramConfig `mapstructure:"instagram"`
	History   HistoryConfig   `mapstructure:"history"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DownloadConfig contains extraction and streaming configuration
type DownloadConfig struct {
	YTDLPBinary    string        `mapstructure:"ytdlp_binary"`
	TempDir        string        `mapstructure:"temp_dir"`
	ChunkSize      int           `mapstructure:"chunk_size"`
	CleanupRetries int           `mapstructure:"cleanup_retries"`
	CleanupDelay   time.Duration `mapstructure:"cleanup_delay"`
	CookieFile     string        `mapstructure:"cookie_file"`
}

// SpotifyConfig contains catalog API credentials
type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// InstagramConfig contains structured-post reader configuration
type InstagramConfig struct {
	UserAgent string `mapstructure:"user_agent"`
	SessionID string `mapstructure:"session_id"`
}

// HistoryConfig contains download-history persistence configuration
type HistoryConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Download: DownloadConfig{
			YTDLPBinary:    "yt-dlp",
			TempDir:        "", // resolved against the OS temp dir when empty
			ChunkSize:      64 * 1024,
			CleanupRetries: 5,
			CleanupDelay:   time.Second,
		},
		Spotify: SpotifyConfig{},
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		History: HistoryConfig{
			DatabasePath: "$HOME/.social-fetch/history.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
