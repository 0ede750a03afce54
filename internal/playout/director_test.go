package playout

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationd/internal/config"
	"stationd/internal/logger"
	"stationd/internal/media"
	"stationd/internal/playlist"
	"stationd/internal/state"
)

func TestMain(m *testing.M) {
	logger.Init("error", false)
	os.Exit(m.Run())
}

// stubPlayer records playback requests and returns a fixed error
type stubPlayer struct {
	mu     sync.Mutex
	played []string
	err    error
}

func (s *stubPlayer) Play(mediaPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, filepath.Base(mediaPath))
	return s.err
}

// stubPublisher records publication requests and returns a fixed error
type stubPublisher struct {
	mu      sync.Mutex
	cursors []int
	err     error
}

func (s *stubPublisher) Publish(_ context.Context, cursor int, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = append(s.cursors, cursor)
	return s.err
}

// newTestDirector builds a director over a temp media dir containing every
// playlist entry as a real file
func newTestDirector(t *testing.T, entries []string, player Player, publisher SchedulePublisher) (*Director, string) {
	t.Helper()
	dir := t.TempDir()

	for _, entry := range entries {
		require.NoError(t, os.WriteFile(filepath.Join(dir, entry), []byte("x"), 0o644))
	}

	cursor, err := state.LoadCursor(dir)
	require.NoError(t, err)

	history := state.NewHistoryLog(dir, 5)
	retry := config.RetryConfig{Attempts: 0, Delay: 10 * time.Millisecond}

	return NewDirector(playlist.Playlist(entries), dir, retry, cursor, history, player, publisher), dir
}

func TestDirector_CyclesThroughPlaylistInOrder(t *testing.T) {
	player := &stubPlayer{}
	d, _ := newTestDirector(t, []string{"a.mp4", "b.mp4", "c.mp4"}, player, nil)

	for i := 0; i < 4; i++ {
		require.NoError(t, d.runCycle(context.Background()))
	}

	assert.Equal(t, []string{"a.mp4", "b.mp4", "c.mp4", "a.mp4"}, player.played)
	assert.Equal(t, 1, d.cursor.Value(), "cursor after 4 cycles over 3 items")
}

func TestDirector_RecordsHistoryPerCycle(t *testing.T) {
	d, _ := newTestDirector(t, []string{"a.mp4", "b.mp4"}, &stubPlayer{}, nil)

	require.NoError(t, d.runCycle(context.Background()))
	require.NoError(t, d.runCycle(context.Background()))

	records, err := d.history.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a.mp4", records[0].Entry)
	assert.Equal(t, "b.mp4", records[1].Entry)
}

func TestDirector_PlaybackFailureStillAdvances(t *testing.T) {
	player := &stubPlayer{err: assert.AnError}
	d, _ := newTestDirector(t, []string{"a.mp4", "b.mp4"}, player, nil)

	require.NoError(t, d.runCycle(context.Background()))

	assert.Equal(t, 1, d.cursor.Value())
}

func TestDirector_SchedulePublicationFailureStillAdvances(t *testing.T) {
	publisher := &stubPublisher{err: assert.AnError}
	d, _ := newTestDirector(t, []string{"a.mp4", "b.mp4"}, &stubPlayer{}, publisher)

	require.NoError(t, d.runCycle(context.Background()))

	require.Len(t, publisher.cursors, 1)
	assert.Equal(t, 1, d.cursor.Value())
}

func TestDirector_PublisherSeesResolvedCursor(t *testing.T) {
	publisher := &stubPublisher{}
	d, _ := newTestDirector(t, []string{"a.mp4", "b.mp4", "c.mp4"}, &stubPlayer{}, publisher)

	require.NoError(t, d.runCycle(context.Background()))
	require.NoError(t, d.runCycle(context.Background()))

	assert.Equal(t, []int{0, 1}, publisher.cursors)
}

func TestDirector_EmptyPlaylistPersistsZero(t *testing.T) {
	player := &stubPlayer{}
	d, dir := newTestDirector(t, nil, player, nil)

	require.NoError(t, d.runCycle(context.Background()))

	assert.Empty(t, player.played)
	data, err := os.ReadFile(filepath.Join(dir, "play_index.txt"))
	require.NoError(t, err)
	assert.Equal(t, "0", string(data))
}

func TestDirector_MissingMediaIsFatal(t *testing.T) {
	player := &stubPlayer{}
	d, dir := newTestDirector(t, []string{"a.mp4"}, player, nil)
	require.NoError(t, os.Remove(filepath.Join(dir, "a.mp4")))

	err := d.runCycle(context.Background())

	assert.ErrorIs(t, err, media.ErrMediaUnavailable)
	assert.Empty(t, player.played)
	assert.Equal(t, 0, d.cursor.Value(), "cursor must not advance on gate failure")
}

func TestDirector_LegacyWrapCursorResolvesToFirstItem(t *testing.T) {
	player := &stubPlayer{}
	d, dir := newTestDirector(t, []string{"a.mp4", "b.mp4", "c.mp4"}, player, nil)

	// A previous run may have persisted the transient end-of-playlist value
	require.NoError(t, os.WriteFile(filepath.Join(dir, "play_index.txt"), []byte("3"), 0o644))
	cursor, err := state.LoadCursor(dir)
	require.NoError(t, err)
	d.cursor = cursor

	require.NoError(t, d.runCycle(context.Background()))

	assert.Equal(t, []string{"a.mp4"}, player.played)
	assert.Equal(t, 0, d.cursor.Value(), "advancing uses the true pre-wrap value")
}

func TestDirector_NowPlayingSnapshot(t *testing.T) {
	d, _ := newTestDirector(t, []string{"a.mp4"}, &stubPlayer{}, nil)

	assert.Nil(t, d.NowPlaying())

	require.NoError(t, d.runCycle(context.Background()))

	now := d.NowPlaying()
	require.NotNil(t, now)
	assert.Equal(t, "a.mp4", now.Entry)
	assert.Equal(t, 0, now.Cursor)
	assert.NotEmpty(t, now.CycleID)
}

func TestDirector_RunStopsOnCancelledContext(t *testing.T) {
	d, _ := newTestDirector(t, []string{"a.mp4"}, &stubPlayer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
