package media

import (
	"context"

	"stationd/internal/logger"
)

// DurationSource yields the duration in seconds of a media file
type DurationSource interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// durationStore is the cache backend, satisfied by db.DurationStore
type durationStore interface {
	Get(ctx context.Context, path string) (float64, bool, error)
	Put(ctx context.Context, path string, durationSeconds float64) error
}

// CachedDurations wraps a DurationSource with a persistent store so each file
// is probed once, not once per cycle. Cache failures fall through to the
// underlying source.
type CachedDurations struct {
	source DurationSource
	store  durationStore
}

// NewCachedDurations creates a caching duration source
func NewCachedDurations(source DurationSource, store durationStore) *CachedDurations {
	return &CachedDurations{source: source, store: store}
}

// Duration returns the cached duration for path, probing and caching on a miss
func (c *CachedDurations) Duration(ctx context.Context, path string) (float64, error) {
	duration, found, err := c.store.Get(ctx, path)
	if err != nil {
		logger.Log.Warn().Err(err).Str("path", path).Msg("Duration cache read failed")
	} else if found {
		return duration, nil
	}

	duration, err = c.source.Duration(ctx, path)
	if err != nil {
		return 0, err
	}

	if err := c.store.Put(ctx, path, duration); err != nil {
		logger.Log.Warn().Err(err).Str("path", path).Msg("Duration cache write failed")
	}

	return duration, nil
}
