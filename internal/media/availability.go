// Package media handles access to the backing media objects: the availability
// gate that precedes playback and the external duration probe used for
// schedule projection.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"stationd/internal/logger"
)

// Availability errors
var (
	// ErrMediaUnavailable indicates a media file could not be found after
	// exhausting the configured retry attempts
	ErrMediaUnavailable = errors.New("media file unavailable")
)

// EnsureAvailable blocks until path exists, polling with a fixed delay between
// attempts. maxAttempts < 0 retries forever without a countdown (useful for
// flaky network shares), 0 fails immediately, > 0 bounds the retries. The wait
// is cancellable through ctx; this is the only intentionally unbounded wait in
// a playback cycle.
func EnsureAvailable(ctx context.Context, path string, maxAttempts int, delay time.Duration) error {
	remaining := maxAttempts

	for {
		if fileExists(path) {
			return nil
		}

		stop, countdown := retryPolicy(remaining)
		if stop {
			return fmt.Errorf("%w: %s", ErrMediaUnavailable, path)
		}
		if remaining > 0 {
			remaining--
		}

		evt := logger.Log.Warn()
		if countdown == "" {
			evt = logger.Log.Debug()
		}
		evt.Str("path", path).
			Dur("retry_delay", delay).
			Str("countdown", countdown).
			Msg("Media file not found, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// retryPolicy decides, for the number of attempts remaining, whether the gate
// should stop retrying and which countdown message to emit. Negative remaining
// means retry forever with no countdown.
func retryPolicy(remaining int) (stop bool, countdown string) {
	switch {
	case remaining < 0:
		return false, ""
	case remaining == 0:
		return true, ""
	case remaining == 1:
		return false, "1 attempt remaining"
	default:
		return false, fmt.Sprintf("%d attempts remaining", remaining)
	}
}

// fileExists reports whether path exists and is a regular file
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
