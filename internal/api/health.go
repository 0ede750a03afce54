// Package api provides the read-only HTTP handlers for channel status.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stationd/internal/db"
)

// SetupHealthRoutes registers the health check endpoint
func SetupHealthRoutes(group *gin.RouterGroup, database *db.DB) {
	group.GET("/health", healthHandler(database))
}

// healthHandler reports process liveness and database connectivity
func healthHandler(database *db.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if database != nil {
			if err := database.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
