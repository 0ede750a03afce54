// Package schedule projects absolute start times for upcoming playlist items
// and publishes them as the channel's schedule artifact.
package schedule

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Projection errors
var (
	// ErrEmptyPlaylist indicates a schedule was requested for an empty playlist
	ErrEmptyPlaylist = errors.New("cannot project a schedule for an empty playlist")
)

// DurationSource yields the duration in seconds of a media file
type DurationSource interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Item is one upcoming schedule entry: when it starts and what to call it
type Item struct {
	StartTime time.Time `json:"time"`
	Name      string    `json:"name"`
}

// Projection is a forward-looking schedule of upcoming items plus the display
// name of the item preceding the cursor. It is regenerated from scratch every
// cycle and carries no identity across cycles.
type Projection struct {
	Items    []Item `json:"items"`
	Previous string `json:"previous"`
}

// Project computes absolute start times for the next count items beginning at
// cursor. A running clock starts at anchor and advances by each item's probed
// duration; the projection wraps cyclically past the end of the playlist, so a
// short tail is extended from the head without any seam in the emitted items.
func Project(ctx context.Context, entries []string, cursor, count int, anchor time.Time, basePath string, durations DurationSource) (*Projection, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyPlaylist
	}

	items := make([]Item, 0, count)
	nextTime := anchor

	for i := 0; i < count; i++ {
		entry := entries[(cursor+i)%len(entries)]

		duration, err := durations.Duration(ctx, filepath.Join(basePath, entry))
		if err != nil {
			return nil, err
		}

		items = append(items, Item{StartTime: nextTime, Name: DisplayName(entry)})
		nextTime = nextTime.Add(time.Duration(duration * float64(time.Second)))
	}

	previous := DisplayName(entries[(cursor-1+len(entries))%len(entries)])

	return &Projection{Items: items, Previous: previous}, nil
}

// DisplayName derives the presentable name for a playlist entry: backslashes
// normalized to forward slashes and the file extension stripped.
func DisplayName(entry string) string {
	normalized := strings.ReplaceAll(entry, `\`, "/")
	return strings.TrimSuffix(normalized, path.Ext(normalized))
}
