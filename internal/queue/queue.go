package queue

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Lock acquisition constants
const (
	LockAttempts          = 5
	DefaultLockRetryDelay = 200 * time.Millisecond
)

// File permissions
const (
	QueueFilePerm = 0644
)

// Suffixes appended to the queue path for lock and rewrite staging files
const (
	LockSuffix = ".lock"
	TempSuffix = ".tmp"
)

// Validator reports whether a raw queue line is an admissible identifier.
type Validator func(string) bool

// WorkQueue is a durable ordered list of pending identifiers backed by a
// single text file, one identifier per line.
type WorkQueue struct {
	path     string
	validate Validator

	// LockRetryDelay is the wait between lock acquisition attempts.
	// Exposed for tests; defaults to DefaultLockRetryDelay.
	LockRetryDelay time.Duration
}

// New creates a WorkQueue over the file at path. The validator filters
// lines on every read; a nil validator admits every non-blank line.
func New(path string, validate Validator) *WorkQueue {
	if validate == nil {
		validate = func(string) bool { return true }
	}
	return &WorkQueue{
		path:           path,
		validate:       validate,
		LockRetryDelay: DefaultLockRetryDelay,
	}
}

// Path returns the queue file path.
func (q *WorkQueue) Path() string {
	return q.path
}

// Load reads the queue file and returns the pending identifiers in file
// order. A missing file is created empty. Read failures are logged and
// treated as an empty queue; they never abort the caller.
func (q *WorkQueue) Load() []string {
	data, err := os.ReadFile(q.path)
	if errors.Is(err, fs.ErrNotExist) {
		if werr := os.WriteFile(q.path, nil, QueueFilePerm); werr != nil {
			log.Printf("queue: failed to create %s: %v", q.path, werr)
		}
		return nil
	}
	if err != nil {
		log.Printf("queue: failed to read %s: %v", q.path, err)
		return nil
	}
	return q.parse(data)
}

// parse splits file content into identifiers: lines are trimmed, blanks
// dropped, and lines rejected by the validator dropped.
func (q *WorkQueue) parse(data []byte) []string {
	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !q.validate(line) {
			log.Printf("queue: skipping invalid entry %q", line)
			continue
		}
		ids = append(ids, line)
	}
	return ids
}

// Remove durably deletes id from the queue file. It is the only mutator
// besides Replace and is safe to call from concurrent tasks: the whole
// read-filter-rewrite cycle runs under the queue lock. Failures are logged
// and swallowed; the identifier then simply stays queued for the next run.
func (q *WorkQueue) Remove(id string) {
	if err := q.mutate(func(ids []string) []string {
		kept := ids[:0]
		for _, cur := range ids {
			if cur != id {
				kept = append(kept, cur)
			}
		}
		return kept
	}); err != nil {
		log.Printf("queue: failed to remove %q, leaving it queued: %v", id, err)
	}
}

// Replace substitutes every occurrence of id with the given replacement
// identifiers, preserving queue order. Used by playlist expansion. Unlike
// Remove it reports the error: the caller decides whether the original
// line is still dispatchable.
func (q *WorkQueue) Replace(id string, replacements ...string) error {
	return q.mutate(func(ids []string) []string {
		out := make([]string, 0, len(ids)+len(replacements))
		for _, cur := range ids {
			if cur == id {
				out = append(out, replacements...)
				continue
			}
			out = append(out, cur)
		}
		return out
	})
}

// mutate runs fn over the current queue contents and rewrites the file
// with the result, all inside the lock's critical section.
func (q *WorkQueue) mutate(fn func([]string) []string) error {
	if err := q.acquireLock(); err != nil {
		return err
	}
	defer q.releaseLock()

	data, err := os.ReadFile(q.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read queue: %w", err)
	}

	ids := fn(q.parse(data))

	if err := q.rewrite(ids); err != nil {
		return fmt.Errorf("rewrite queue: %w", err)
	}
	return nil
}

// rewrite replaces the queue file contents with one identifier per line,
// trailing newline iff non-empty. The write goes to a temp file first and
// is published by rename so a concurrent reader never sees a partial file.
func (q *WorkQueue) rewrite(ids []string) error {
	var content string
	if len(ids) > 0 {
		content = strings.Join(ids, "\n") + "\n"
	}

	tmp := q.path + TempSuffix
	if err := os.WriteFile(tmp, []byte(content), QueueFilePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, q.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// acquireLock takes the advisory cross-process lock for the queue file,
// retrying up to LockAttempts times before giving up.
func (q *WorkQueue) acquireLock() error {
	lockPath := q.path + LockSuffix
	delay := q.LockRetryDelay
	if delay <= 0 {
		delay = DefaultLockRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= LockAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(delay)
		}
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, QueueFilePerm)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("acquire lock %s after %d attempts: %w", filepath.Base(lockPath), LockAttempts, lastErr)
}

// releaseLock drops the advisory lock. Always called via defer so the lock
// is released even when the rewrite fails.
func (q *WorkQueue) releaseLock() {
	lockPath := q.path + LockSuffix
	if err := os.Remove(lockPath); err != nil {
		log.Printf("queue: failed to release lock %s: %v", lockPath, err)
	}
}
