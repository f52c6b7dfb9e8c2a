package models

import (
	"fmt"
	"time"
)

// Video contains fields relating to one piece of recordable or
// downloadable content.
//
// Matches the order of the DB table, do not alter.
type Video struct {
	ID                 string      `json:"id" db:"id"`
	Source             string      `json:"source" db:"source"`
	ChannelID          string      `json:"channel_id" db:"channel_id"`
	Status             VideoStatus `json:"status" db:"status"`
	SourceStatus       VideoStatus `json:"source_status" db:"source_status"`
	IsLiveStream       bool        `json:"is_live_stream" db:"is_live_stream"`
	Title              string      `json:"title" db:"title"`
	Description        string      `json:"description" db:"description"`
	Note               string      `json:"note" db:"note"`
	Thumbnail          string      `json:"thumbnail" db:"thumbnail"`
	Filename           string      `json:"filename" db:"filename"`
	Size               int64       `json:"size" db:"size"`
	PublishedAt        *time.Time  `json:"published_at" db:"published_at"`
	ScheduledStartTime *time.Time  `json:"scheduled_start_time" db:"scheduled_start_time"`
	ActualStartTime    *time.Time  `json:"actual_start_time" db:"actual_start_time"`
	ArchivedTime       *time.Time  `json:"archived_time" db:"archived_time"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
}

// FailNote builds the diagnostic note recorded when a video drops into
// StatusError.
func FailNote(phase string, err error) string {
	return fmt.Sprintf("%s failed: %v", phase, err)
}

// MarkError moves the video into the error state with a diagnostic note.
func (v *Video) MarkError(phase string, err error) {
	v.Status = StatusError
	v.Note = FailNote(phase, err)
}

// StampArchived records the archival instant exactly once.
func (v *Video) StampArchived(t time.Time) {
	if v.ArchivedTime == nil {
		v.ArchivedTime = &t
	}
}
