// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPlayerPath       = "/usr/bin/ffmpeg"
	defaultProbePath        = "/usr/bin/ffprobe"
	defaultMediaBasePath    = "/media/videos"
	defaultRetryAttempts    = 0
	defaultRetryDelay       = 5 * time.Second
	defaultHistoryLength    = 10
	defaultUpcomingLength   = 10
	defaultTemplatePath     = "./web/template.html"
	defaultServerPort       = 8080
	defaultServerHost       = "0.0.0.0"
	defaultReadTimeout      = 30 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultDatabasePath     = "./data/stationd.db"
	defaultLogLevel         = "info"
	defaultLogPretty        = false
	envPrefix               = "STATIOND"
)

// Configuration errors
var (
	// ErrNoPlaylistSource indicates neither inline entries nor a playlist file were configured
	ErrNoPlaylistSource = errors.New("playlist source must be either inline entries or a file path")
)

// Config holds all application configuration
type Config struct {
	Player   PlayerConfig
	Probe    ProbeConfig
	Media    MediaConfig
	Playlist PlaylistConfig
	Retry    RetryConfig
	History  HistoryConfig
	Schedule ScheduleConfig
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// PlayerConfig holds the external media player invocation settings.
// The player is launched as: <path> <preargs...> <media file> <postargs...>.
// PostArgs are expected to carry the output sink (e.g. an RTMP address).
type PlayerConfig struct {
	Path     string
	PreArgs  []string
	PostArgs []string
}

// ProbeConfig holds the external duration probe settings
type ProbeConfig struct {
	Path string
}

// MediaConfig holds the media library location. BasePath also holds the
// persisted cursor and history files.
type MediaConfig struct {
	BasePath string
}

// PlaylistConfig holds the playlist source. Entries takes precedence over File
// when both are set.
type PlaylistConfig struct {
	Entries []string
	File    string
}

// RetryConfig controls the availability gate. Attempts < 0 retries forever,
// 0 fails immediately, > 0 bounds the number of retries.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

// HistoryConfig holds the play history settings. Length 0 disables the log.
type HistoryConfig struct {
	Length int
}

// ScheduleConfig holds the published schedule settings. An empty Path disables
// schedule publication entirely.
type ScheduleConfig struct {
	Path           string
	TemplatePath   string
	UpcomingLength int
}

// Enabled reports whether schedule publication is configured
func (s ScheduleConfig) Enabled() bool {
	return s.Path != ""
}

// ServerConfig holds the optional status HTTP server configuration
type ServerConfig struct {
	Enabled      bool
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds the duration cache database configuration
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/stationd")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file is optional; defaults and env vars cover everything
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Player defaults. PreArgs end with -i so the media file lands as the
	// player's input; PostArgs must be configured with an output sink.
	v.SetDefault("player.path", defaultPlayerPath)
	v.SetDefault("player.preargs", []string{"-hide_banner", "-re", "-i"})
	v.SetDefault("player.postargs", []string{})

	// Probe defaults
	v.SetDefault("probe.path", defaultProbePath)

	// Media defaults
	v.SetDefault("media.basepath", defaultMediaBasePath)

	// Playlist defaults (no source; one must be configured)
	v.SetDefault("playlist.entries", []string{})
	v.SetDefault("playlist.file", "")

	// Retry defaults
	v.SetDefault("retry.attempts", defaultRetryAttempts)
	v.SetDefault("retry.delay", defaultRetryDelay)

	// History defaults
	v.SetDefault("history.length", defaultHistoryLength)

	// Schedule defaults (disabled unless a path is configured)
	v.SetDefault("schedule.path", "")
	v.SetDefault("schedule.templatepath", defaultTemplatePath)
	v.SetDefault("schedule.upcominglength", defaultUpcomingLength)

	// Server defaults
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Player.Path == "" {
		return fmt.Errorf("player path must not be empty")
	}

	if c.Media.BasePath == "" {
		return fmt.Errorf("media base path must not be empty")
	}

	if len(c.Playlist.Entries) == 0 && c.Playlist.File == "" {
		return ErrNoPlaylistSource
	}

	if c.Retry.Delay <= 0 {
		return fmt.Errorf("invalid retry delay: %v (must be > 0)", c.Retry.Delay)
	}

	if c.History.Length < 0 {
		return fmt.Errorf("invalid history length: %d (must be >= 0)", c.History.Length)
	}

	if c.Schedule.Enabled() {
		if c.Schedule.UpcomingLength <= 0 {
			return fmt.Errorf("invalid schedule upcoming length: %d (must be > 0)", c.Schedule.UpcomingLength)
		}
		if c.Schedule.TemplatePath == "" {
			return fmt.Errorf("schedule template path must not be empty when schedule is enabled")
		}
		if c.Probe.Path == "" {
			return fmt.Errorf("probe path must not be empty when schedule is enabled")
		}
	}

	if c.Server.Enabled {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
		}
		if c.Server.ReadTimeout <= 0 {
			return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
		}
		if c.Server.WriteTimeout <= 0 {
			return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
