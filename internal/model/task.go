package model

import (
	"strings"
	"time"
)

// Task represents a single download task for one queued identifier. A task
// lives for one run only; it is rebuilt from the queue snapshot on the next
// run if the identifier survives.
type Task struct {
	ID              string     // unique per-run task ID
	VideoID         string     // queued identifier being downloaded
	Status          TaskStatus
	Attempt         int        // current attempt, starts at 1
	Title           string     // resolved video title
	OutputKey       string     // storage key of the target file
	DownloadedBytes int64
	TotalBytes      int64      // 0 if unknown
	LastError       string     // last error message if any
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Percent returns download progress in 0..100, or -1 if the total size is
// unknown.
func (t *Task) Percent() int {
	if t.TotalBytes <= 0 {
		return -1
	}
	p := int(t.DownloadedBytes * 100 / t.TotalBytes)
	if p > 100 {
		p = 100
	}
	return p
}

// DisplayTitle returns title, output filename, or identifier in order of
// preference
func (t *Task) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}

	if t.OutputKey != "" {
		name := t.OutputKey
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		return name
	}

	return t.VideoID
}
