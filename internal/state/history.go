package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stationd/internal/logger"
)

const (
	historyFileName   = "play_history.txt"
	historyTimeFormat = time.RFC3339
)

// HistoryRecord is one played item with the time playback started
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Entry     string    `json:"entry"`
}

// HistoryLog is an append-then-truncate ledger of the most recently played
// items, persisted in full on every update so the file always holds exactly
// the last capacity records in chronological order. Capacity 0 disables it.
type HistoryLog struct {
	path     string
	capacity int
}

// NewHistoryLog creates a history log persisted in dir with the given capacity
func NewHistoryLog(dir string, capacity int) *HistoryLog {
	return &HistoryLog{
		path:     filepath.Join(dir, historyFileName),
		capacity: capacity,
	}
}

// Record appends (ts, entry) to the log, evicting the oldest records beyond
// capacity, and rewrites the persisted file. It is a no-op at capacity 0.
func (h *HistoryLog) Record(entry string, ts time.Time) error {
	if h.capacity == 0 {
		return nil
	}

	lines, err := h.readLines()
	if err != nil {
		return err
	}

	lines = append(lines, fmt.Sprintf("%s,%s", ts.Format(historyTimeFormat), entry))
	if len(lines) > h.capacity {
		lines = lines[len(lines)-h.capacity:]
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(h.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: writing history file: %v", ErrStorage, err)
	}

	logger.Log.Debug().
		Str("entry", entry).
		Int("records", len(lines)).
		Msg("Play history updated")

	return nil
}

// Records returns the persisted history, oldest first. Records whose timestamp
// cannot be parsed are returned with a zero timestamp rather than dropped.
func (h *HistoryLog) Records() ([]HistoryRecord, error) {
	lines, err := h.readLines()
	if err != nil {
		return nil, err
	}

	records := make([]HistoryRecord, 0, len(lines))
	for _, line := range lines {
		tsPart, entry, found := strings.Cut(line, ",")
		if !found {
			continue
		}

		ts, err := time.Parse(historyTimeFormat, tsPart)
		if err != nil {
			ts = time.Time{}
		}

		records = append(records, HistoryRecord{Timestamp: ts, Entry: entry})
	}

	return records, nil
}

// readLines reads the persisted log, returning no lines if the file is absent
func (h *HistoryLog) readLines() ([]string, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading history file: %v", ErrStorage, err)
	}

	raw := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines, nil
}
