package sync

import (
	"time"
)

// FileMetadata identifies one file eligible for sync. Path is relative to
// the sync dir and slash-separated; LastModified is the change signal.
type FileMetadata struct {
	Path         string
	Size         int64
	LastModified time.Time
}
