// Package models defines the persisted data structures.
package models

import "time"

// MediaDuration is a cached probe result for one media file. Probing is
// expensive enough that re-running it every cycle delays schedule publication
// on long playlists, so results are kept per path.
type MediaDuration struct {
	Path            string    `gorm:"primaryKey" json:"path"`
	DurationSeconds float64   `gorm:"not null" json:"duration_seconds"`
	ProbedAt        time.Time `gorm:"not null" json:"probed_at"`
}

// TableName sets the table name for GORM
func (MediaDuration) TableName() string {
	return "media_durations"
}
