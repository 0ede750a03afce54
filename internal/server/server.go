// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stationd/internal/api"
	"stationd/internal/config"
	"stationd/internal/db"
	"stationd/internal/logger"
	"stationd/internal/middleware"
)

// Server is the optional read-only status HTTP server
type Server struct {
	config         *config.Config
	db             *db.DB
	playing        api.NowPlayingSource
	schedules      api.ScheduleSource
	history        api.HistorySource
	playlistLength int
	router         *gin.Engine
	server         *http.Server
}

// New creates a new server instance. schedules may be nil when schedule
// publication is disabled.
func New(cfg *config.Config, database *db.DB, playing api.NowPlayingSource, schedules api.ScheduleSource, history api.HistorySource, playlistLength int) *Server {
	return &Server{
		config:         cfg,
		db:             database,
		playing:        playing,
		schedules:      schedules,
		history:        history,
		playlistLength: playlistLength,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupStatusRoutes(apiGroup, s.playing, s.schedules, s.history, s.playlistLength)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting status HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	logger.Log.Info().Msg("Shutting down status HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	return nil
}
