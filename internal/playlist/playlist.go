// Package playlist loads and normalizes the fixed media rotation for a channel.
// The playlist is loaded exactly once at process start and treated as immutable
// for the lifetime of the run; editing it requires a restart.
package playlist

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"stationd/internal/config"
	"stationd/internal/logger"
)

// Loading errors
var (
	// ErrNoSource indicates the configuration provided neither inline entries nor a readable file
	ErrNoSource = errors.New("playlist source is neither inline entries nor a readable file")
)

// commentPrefixes are the line prefixes treated as comments in playlist sources
var commentPrefixes = []string{";", "#", "//"}

// Playlist is an ordered, index-addressable sequence of media entries relative
// to the media base path. Duplicate entries are valid.
type Playlist []string

// Load builds a normalized playlist from the configured source. Inline entries
// take precedence over a file source. Blank lines and comment-prefixed lines
// are dropped; order is preserved otherwise.
func Load(cfg config.PlaylistConfig) (Playlist, error) {
	var raw []string

	switch {
	case len(cfg.Entries) > 0:
		raw = cfg.Entries
	case cfg.File != "":
		data, err := os.ReadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoSource, err)
		}
		raw = strings.Split(string(data), "\n")
	default:
		return nil, ErrNoSource
	}

	entries := Normalize(raw)

	logger.Log.Info().
		Int("entries", len(entries)).
		Int("skipped", len(raw)-len(entries)).
		Str("file", cfg.File).
		Msg("Playlist loaded")

	return entries, nil
}

// Normalize filters blank and comment-prefixed entries, preserving order
func Normalize(raw []string) Playlist {
	entries := make(Playlist, 0, len(raw))

	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if line == "" || isComment(line) {
			continue
		}
		entries = append(entries, line)
	}

	return entries
}

// isComment reports whether a playlist line starts with a comment prefix
func isComment(line string) bool {
	for _, prefix := range commentPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
