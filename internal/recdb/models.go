package recdb

import (
	"fmt"
	"strings"
	"time"
)

// Status mirrors the integer status column PlayOn writes to RecordQueueItems.
type Status int

const (
	StatusQueued  Status = 0
	StatusActive  Status = 1
	StatusPartial Status = 3
	StatusFailed  Status = 4
)

// liveStatuses are the rows that participate in the live queue ordering.
// Partial and failed rows are terminal until promoted and never affect
// rank boundary math.
var liveStatuses = []Status{StatusQueued, StatusActive}

// String returns the human-readable status label used in CLI output.
func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusActive:
		return "active"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsLive reports whether the status participates in the live queue ordering.
func (s Status) IsLive() bool {
	for _, live := range liveStatuses {
		if s == live {
			return true
		}
	}
	return false
}

// TimeFormat is the naive UTC timestamp layout PlayOn stores in text columns.
const TimeFormat = "2006-01-02 15:04:05"

// Recording is a row of the RecordQueueItems table.
type Recording struct {
	ID          int64
	Name        string
	SeriesTitle string
	Season      *int
	Episode     *int
	Status      Status
	Rank        float64
	Updated     time.Time
	Error       string
	Queued      time.Time
}

// Title returns the display title: the series title when present, otherwise
// the item name.
func (r Recording) Title() string {
	if title := strings.TrimSpace(r.SeriesTitle); title != "" {
		return title
	}
	return r.Name
}

// IsMovie reports whether the row has no season/episode numbering. PlayOn
// populates both fields for TV episodes and neither for movies.
func (r Recording) IsMovie() bool {
	return r.Season == nil && r.Episode == nil
}

// EpisodeCode renders SnnEnn for TV rows and an empty string for movies.
func (r Recording) EpisodeCode() string {
	if r.Season == nil || r.Episode == nil {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", *r.Season, *r.Episode)
}
