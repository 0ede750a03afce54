package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stationd/internal/api"
	"stationd/internal/config"
	"stationd/internal/db"
	"stationd/internal/logger"
	"stationd/internal/media"
	"stationd/internal/player"
	"stationd/internal/playlist"
	"stationd/internal/playout"
	"stationd/internal/schedule"
	"stationd/internal/server"
	"stationd/internal/state"
)

const (
	migrationsPath  = "file://./migrations"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stationd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	pl, err := playlist.Load(cfg.Playlist)
	if err != nil {
		return err
	}

	// Projecting a schedule over an empty rotation can never succeed, so
	// refuse the combination up front instead of failing every cycle.
	if len(pl) == 0 && cfg.Schedule.Enabled() {
		return fmt.Errorf("schedule publication requires a non-empty playlist")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		return err
	}
	if err := db.RunMigrations(sqlDB, migrationsPath); err != nil {
		return err
	}

	cursor, err := state.LoadCursor(cfg.Media.BasePath)
	if err != nil {
		return err
	}
	history := state.NewHistoryLog(cfg.Media.BasePath, cfg.History.Length)

	var publisher *schedule.Publisher
	if cfg.Schedule.Enabled() {
		durations := media.NewCachedDurations(
			media.NewProber(cfg.Probe.Path),
			db.NewDurationStore(database),
		)
		renderer := schedule.NewRenderer(cfg.Schedule.TemplatePath, cfg.Schedule.Path)
		publisher = schedule.NewPublisher(pl, cfg.Media.BasePath, cfg.Schedule.UpcomingLength, durations, renderer)
	}

	var schedulePublisher playout.SchedulePublisher
	if publisher != nil {
		schedulePublisher = publisher
	}

	director := playout.NewDirector(
		pl,
		cfg.Media.BasePath,
		cfg.Retry,
		cursor,
		history,
		player.New(cfg.Player),
		schedulePublisher,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *server.Server
	if cfg.Server.Enabled {
		var scheduleSource api.ScheduleSource
		if publisher != nil {
			scheduleSource = publisher
		}
		srv = server.New(cfg, database, director, scheduleSource, history, len(pl))

		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Error().Err(err).Msg("Status server failed")
			}
		}()
	}

	runErr := director.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Msg("Status server shutdown failed")
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	logger.Log.Info().Msg("stationd stopped")
	return nil
}
