// Package state persists the channel's durable playback state: the playlist
// cursor and the bounded play history. Both live as plain text files in the
// media base path so they survive restarts and remain inspectable by hand.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"stationd/internal/logger"
)

const cursorFileName = "play_index.txt"

// Storage errors
var (
	// ErrStorage indicates the persisted state could not be read or written
	// for a reason other than simple absence
	ErrStorage = errors.New("playback state storage failure")
)

// Cursor owns the persisted playlist index. It is single-writer: only the
// playback coordinator mutates it, strictly between cycles.
type Cursor struct {
	path  string
	value int
}

// LoadCursor reads the persisted cursor from dir. If the persisted file is
// absent it is created holding 0. Any other read failure is a storage error.
func LoadCursor(dir string) (*Cursor, error) {
	path := filepath.Join(dir, cursorFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if werr := os.WriteFile(path, []byte("0"), 0o644); werr != nil {
				return nil, fmt.Errorf("%w: initializing cursor file: %v", ErrStorage, werr)
			}
			logger.Log.Info().Str("path", path).Msg("Cursor file created")
			return &Cursor{path: path}, nil
		}
		return nil, fmt.Errorf("%w: reading cursor file: %v", ErrStorage, err)
	}

	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || value < 0 {
		return nil, fmt.Errorf("%w: cursor file %s does not hold a non-negative integer", ErrStorage, path)
	}

	logger.Log.Info().Str("path", path).Int("cursor", value).Msg("Cursor loaded")

	return &Cursor{path: path, value: value}, nil
}

// Value returns the current in-memory cursor
func (c *Cursor) Value() int {
	return c.value
}

// Advance computes the index for the next cycle from the cursor used by the
// just-completed cycle and persists it unconditionally. The persisted value is
// always post-wrap: c.value+1, collapsed to 0 at or past the end of the
// playlist, and 0 for an empty playlist.
func (c *Cursor) Advance(playlistLen int) error {
	next := c.value + 1
	if next >= playlistLen {
		next = 0
	}

	if err := os.WriteFile(c.path, []byte(strconv.Itoa(next)), 0o644); err != nil {
		return fmt.Errorf("%w: writing cursor file: %v", ErrStorage, err)
	}

	c.value = next
	return nil
}
