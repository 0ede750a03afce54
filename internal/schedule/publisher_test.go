package schedule

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationd/internal/media"
)

func newTestPublisher(t *testing.T, playlist []string, durations DurationSource) (*Publisher, string) {
	t.Helper()
	dir := t.TempDir()

	templatePath := filepath.Join(dir, "template.html")
	outputPath := filepath.Join(dir, "schedule.html")
	require.NoError(t, os.WriteFile(templatePath, []byte("{{.JSArray}}|{{.PreviousFile}}"), 0o644))

	renderer := NewRenderer(templatePath, outputPath)
	return NewPublisher(playlist, "/media", 2, durations, renderer), outputPath
}

func TestPublisher_PublishWritesArtifactAndRetainsProjection(t *testing.T) {
	durations := &stubDurations{durations: map[string]float64{
		"a.mp4": 10, "b.mp4": 20, "c.mp4": 30,
	}}
	publisher, outputPath := newTestPublisher(t, []string{"a.mp4", "b.mp4", "c.mp4"}, durations)

	assert.Nil(t, publisher.Latest())

	anchor := time.Date(2026, 8, 23, 17, 0, 0, 0, time.UTC)
	require.NoError(t, publisher.Publish(context.Background(), 1, anchor))

	output, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t,
		"[{time:'2026-08-23T17:00:00Z',name:'b'},{time:'2026-08-23T17:00:20Z',name:'c'}]|a",
		string(output))

	latest := publisher.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "a", latest.Previous)
	require.Len(t, latest.Items, 2)
}

func TestPublisher_ProbeFailureLeavesLatestUnchanged(t *testing.T) {
	durations := &stubDurations{durations: map[string]float64{}}
	publisher, outputPath := newTestPublisher(t, []string{"a.mp4"}, durations)

	err := publisher.Publish(context.Background(), 0, time.Now().UTC())

	assert.ErrorIs(t, err, media.ErrProbeFailed)
	assert.Nil(t, publisher.Latest())

	_, statErr := os.Stat(outputPath)
	assert.True(t, os.IsNotExist(statErr), "no artifact should be written on failure")
}
