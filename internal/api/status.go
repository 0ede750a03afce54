package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stationd/internal/logger"
	"stationd/internal/playout"
	"stationd/internal/schedule"
	"stationd/internal/state"
)

// NowPlayingSource exposes the in-progress cycle
type NowPlayingSource interface {
	NowPlaying() *playout.NowPlaying
}

// ScheduleSource exposes the most recently published schedule projection
type ScheduleSource interface {
	Latest() *schedule.Projection
}

// HistorySource exposes the persisted play history
type HistorySource interface {
	Records() ([]state.HistoryRecord, error)
}

// SetupStatusRoutes registers the now-playing, schedule, and history
// endpoints. schedules may be nil when schedule publication is disabled.
func SetupStatusRoutes(group *gin.RouterGroup, playing NowPlayingSource, schedules ScheduleSource, history HistorySource, playlistLength int) {
	group.GET("/status", statusHandler(playing, playlistLength))
	group.GET("/schedule", scheduleHandler(schedules))
	group.GET("/history", historyHandler(history))
}

// statusHandler reports the current cycle and playlist shape
func statusHandler(playing NowPlayingSource, playlistLength int) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := playing.NowPlaying()
		if now == nil {
			c.JSON(http.StatusOK, gin.H{
				"state":           "idle",
				"playlist_length": playlistLength,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"state":           "playing",
			"now_playing":     now,
			"playlist_length": playlistLength,
		})
	}
}

// scheduleHandler returns the latest published projection as JSON
func scheduleHandler(schedules ScheduleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if schedules == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule publication is disabled"})
			return
		}

		projection := schedules.Latest()
		if projection == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no schedule published yet"})
			return
		}

		c.JSON(http.StatusOK, projection)
	}
}

// historyHandler returns the persisted play history, oldest first
func historyHandler(history HistorySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := history.Records()
		if err != nil {
			logger.Log.Error().Err(err).Msg("Failed to read play history")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read play history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"records": records})
	}
}
