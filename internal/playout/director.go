// Package playout drives the channel's playback cycles: resolving the current
// playlist item, gating on its availability, recording history, running
// playback and schedule publication together, and advancing the cursor.
package playout

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"stationd/internal/config"
	"stationd/internal/logger"
	"stationd/internal/media"
	"stationd/internal/playlist"
	"stationd/internal/state"
)

// Player drives the external media player to completion for one media file
type Player interface {
	Play(mediaPath string) error
}

// SchedulePublisher publishes the forward-looking schedule for one cycle
type SchedulePublisher interface {
	Publish(ctx context.Context, cursor int, anchor time.Time) error
}

// NowPlaying is a snapshot of the in-progress cycle for the status API
type NowPlaying struct {
	Entry     string    `json:"entry"`
	Cursor    int       `json:"cursor"`
	StartedAt time.Time `json:"started_at"`
	CycleID   string    `json:"cycle_id"`
}

// Director is the playback coordinator. It owns the cursor exclusively and
// loops forever; there is no terminal state under normal operation. Playback
// and schedule publication progress independently within a cycle but both must
// finish before the cursor advances.
type Director struct {
	playlist  playlist.Playlist
	basePath  string
	retry     config.RetryConfig
	cursor    *state.Cursor
	history   *state.HistoryLog
	player    Player
	publisher SchedulePublisher // nil when schedule publication is disabled

	mu  sync.RWMutex
	now *NowPlaying
}

// NewDirector creates the coordinator. publisher may be nil to disable
// schedule publication.
func NewDirector(pl playlist.Playlist, basePath string, retry config.RetryConfig, cursor *state.Cursor, history *state.HistoryLog, player Player, publisher SchedulePublisher) *Director {
	return &Director{
		playlist:  pl,
		basePath:  basePath,
		retry:     retry,
		cursor:    cursor,
		history:   history,
		player:    player,
		publisher: publisher,
	}
}

// Run executes playback cycles until the context is cancelled or a fatal
// error occurs. Every returned error is fatal; restarts are left to an
// external supervisor.
func (d *Director) Run(ctx context.Context) error {
	logger.Log.Info().
		Int("playlist_length", len(d.playlist)).
		Int("cursor", d.cursor.Value()).
		Msg("Playout director started")

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("Playout director stopped")
			return ctx.Err()
		default:
		}

		if err := d.runCycle(ctx); err != nil {
			return err
		}
	}
}

// runCycle performs one full cycle: resolve, gate, record, play and publish
// concurrently, advance
func (d *Director) runCycle(ctx context.Context) error {
	cursor := d.cursor.Value()

	// An empty playlist skips straight to advancing, persisting 0.
	if len(d.playlist) == 0 {
		logger.Log.Debug().Msg("Playlist is empty, nothing to play")
		return d.cursor.Advance(0)
	}

	// A persisted cursor at or past the end is a transient wrap value left by
	// a previous run; it resolves to index 0 while advancing still uses the
	// true pre-wrap value.
	index := cursor
	if index >= len(d.playlist) {
		index = 0
	}

	entry := d.playlist[index]
	mediaPath := filepath.Join(d.basePath, entry)
	cycleID := uuid.New().String()

	if err := media.EnsureAvailable(ctx, mediaPath, d.retry.Attempts, d.retry.Delay); err != nil {
		return err
	}

	start := time.Now()

	if err := d.history.Record(entry, start); err != nil {
		return err
	}

	d.setNowPlaying(&NowPlaying{
		Entry:     entry,
		Cursor:    index,
		StartedAt: start,
		CycleID:   cycleID,
	})

	logger.Log.Info().
		Str("cycle_id", cycleID).
		Str("entry", entry).
		Int("cursor", index).
		Msg("Now playing")

	// Playback and schedule publication run as independent units of work; a
	// failure in either never blocks the other, but both are joined before
	// the cursor advances.
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := d.player.Play(mediaPath); err != nil {
			// The show must go on: a failed playback still advances the cursor.
			logger.Log.Error().
				Err(err).
				Str("cycle_id", cycleID).
				Str("entry", entry).
				Msg("Playback failed")
		}
	}()

	if d.publisher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.publisher.Publish(ctx, index, start.UTC()); err != nil {
				logger.Log.Warn().
					Err(err).
					Str("cycle_id", cycleID).
					Msg("Schedule publication failed")
			}
		}()
	}

	wg.Wait()

	return d.cursor.Advance(len(d.playlist))
}

// NowPlaying returns a snapshot of the current cycle, or nil before the first
// cycle starts
func (d *Director) NowPlaying() *NowPlaying {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.now
}

func (d *Director) setNowPlaying(now *NowPlaying) {
	d.mu.Lock()
	d.now = now
	d.mu.Unlock()
}
