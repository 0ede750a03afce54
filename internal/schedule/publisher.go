package schedule

import (
	"context"
	"sync"
	"time"

	"stationd/internal/logger"
)

// Publisher regenerates and publishes the schedule once per playback cycle.
// It retains the latest projection for the status API, which reads it from a
// different goroutine than the one publishing.
type Publisher struct {
	playlist  []string
	basePath  string
	upcoming  int
	durations DurationSource
	renderer  *Renderer

	mu   sync.RWMutex
	last *Projection
}

// NewPublisher creates a publisher for the given immutable playlist
func NewPublisher(playlist []string, basePath string, upcoming int, durations DurationSource, renderer *Renderer) *Publisher {
	return &Publisher{
		playlist:  playlist,
		basePath:  basePath,
		upcoming:  upcoming,
		durations: durations,
		renderer:  renderer,
	}
}

// Publish projects the upcoming schedule from cursor anchored at anchor,
// writes the artifact, and retains the projection
func (p *Publisher) Publish(ctx context.Context, cursor int, anchor time.Time) error {
	projection, err := Project(ctx, p.playlist, cursor, p.upcoming, anchor, p.basePath, p.durations)
	if err != nil {
		return err
	}

	if err := p.renderer.Render(projection); err != nil {
		return err
	}

	p.mu.Lock()
	p.last = projection
	p.mu.Unlock()

	logger.Log.Info().
		Int("items", len(projection.Items)).
		Str("previous", projection.Previous).
		Msg("Schedule published")

	return nil
}

// Latest returns the most recently published projection, or nil if none has
// been published yet
func (p *Publisher) Latest() *Projection {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}
