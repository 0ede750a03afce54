package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a minimal configuration that passes validation
func validConfig() *Config {
	return &Config{
		Player:   PlayerConfig{Path: "/usr/bin/ffmpeg"},
		Probe:    ProbeConfig{Path: "/usr/bin/ffprobe"},
		Media:    MediaConfig{BasePath: "/media/videos"},
		Playlist: PlaylistConfig{Entries: []string{"a.mp4"}},
		Retry:    RetryConfig{Attempts: 0, Delay: 5 * time.Second},
		History:  HistoryConfig{Length: 10},
		Logging:  LoggingConfig{Level: "info"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STATIOND_PLAYLIST_FILE", "/home/pi/list.txt")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/ffmpeg", cfg.Player.Path)
	assert.Equal(t, []string{"-hide_banner", "-re", "-i"}, cfg.Player.PreArgs)
	assert.Equal(t, "/usr/bin/ffprobe", cfg.Probe.Path)
	assert.Equal(t, 0, cfg.Retry.Attempts)
	assert.Equal(t, 5*time.Second, cfg.Retry.Delay)
	assert.Equal(t, 10, cfg.History.Length)
	assert.False(t, cfg.Schedule.Enabled())
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STATIOND_PLAYLIST_FILE", "/home/pi/list.txt")
	t.Setenv("STATIOND_RETRY_ATTEMPTS", "-1")
	t.Setenv("STATIOND_HISTORY_LENGTH", "25")
	t.Setenv("STATIOND_LOGGING_LEVEL", "debug")
	t.Setenv("STATIOND_SCHEDULE_PATH", "/var/www/schedule.html")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Retry.Attempts)
	assert.Equal(t, 25, cfg.History.Length)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Schedule.Enabled())
	assert.Equal(t, 10, cfg.Schedule.UpcomingLength)
}

func TestLoad_NoPlaylistSourceFails(t *testing.T) {
	_, err := Load()

	assert.ErrorIs(t, err, ErrNoPlaylistSource)
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyPlayerPath(t *testing.T) {
	cfg := validConfig()
	cfg.Player.Path = ""

	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyMediaBasePath(t *testing.T) {
	cfg := validConfig()
	cfg.Media.BasePath = ""

	assert.Error(t, cfg.Validate())
}

func TestValidate_NonPositiveRetryDelay(t *testing.T) {
	cfg := validConfig()
	cfg.Retry.Delay = 0

	assert.Error(t, cfg.Validate())
}

func TestValidate_NegativeHistoryLength(t *testing.T) {
	cfg := validConfig()
	cfg.History.Length = -1

	assert.Error(t, cfg.Validate())
}

func TestValidate_ScheduleEnabledRequiresUpcomingLength(t *testing.T) {
	cfg := validConfig()
	cfg.Schedule = ScheduleConfig{Path: "/var/www/schedule.html", TemplatePath: "t.html", UpcomingLength: 0}

	assert.Error(t, cfg.Validate())
}

func TestValidate_ScheduleEnabledRequiresProbe(t *testing.T) {
	cfg := validConfig()
	cfg.Probe.Path = ""
	cfg.Schedule = ScheduleConfig{Path: "/var/www/schedule.html", TemplatePath: "t.html", UpcomingLength: 10}

	assert.Error(t, cfg.Validate())
}

func TestValidate_ServerEnabledChecksPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server = ServerConfig{Enabled: true, Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second}

	assert.Error(t, cfg.Validate())
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	assert.Error(t, cfg.Validate())
}
