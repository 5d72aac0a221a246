package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ytget/ytqueue/internal/model"
)

// copyBufSize is the transfer buffer size
const copyBufSize = 128 * 1024

// runTask drives the state machine for one identifier: resolve →
// check-exists → transfer, with an explicit attempt loop in place of
// recursion. The identifier is removed from the queue only on the
// Completed and SkippedExisting paths; every failure leaves it queued.
func (s *Service) runTask(ctx context.Context, task *model.Task) {
	s.tasksMutex.Lock()
	task.StartedAt = time.Now()
	s.tasksMutex.Unlock()

	for attempt := 1; ; attempt++ {
		s.tasksMutex.Lock()
		task.Attempt = attempt
		s.tasksMutex.Unlock()

		err := s.attempt(ctx, task)
		if err == nil {
			s.finish(task)
			return
		}

		s.tasksMutex.Lock()
		task.LastError = err.Error()
		s.tasksMutex.Unlock()

		if attempt >= s.policy.MaxAttempts {
			log.Printf("download: %s failed after %d attempts, leaving it queued: %v", task.VideoID, attempt, err)
			s.setStatus(task, model.TaskStatusFailed)
			s.finish(task)
			return
		}

		delay := s.policy.Delay(attempt)
		log.Printf("download: attempt %d for %s failed, retrying in %v: %v", attempt, task.VideoID, delay, err)
		s.setStatus(task, model.TaskStatusRetrying)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			s.tasksMutex.Lock()
			task.LastError = ctx.Err().Error()
			s.tasksMutex.Unlock()
			s.setStatus(task, model.TaskStatusFailed)
			s.finish(task)
			return
		}
	}
}

// attempt performs one pass through the state machine. A nil return means
// the task reached a terminal success state and was dequeued; any error
// feeds the retry loop.
func (s *Service) attempt(ctx context.Context, task *model.Task) error {
	s.setStatus(task, model.TaskStatusResolving)

	meta, err := s.fetcher.Resolve(ctx, task.VideoID)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	key := s.keyFor(meta)

	s.tasksMutex.Lock()
	task.Title = meta.Title
	task.OutputKey = key
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	exists, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check existing %s: %w", key, err)
	}
	if exists {
		// Pre-existing target counts as success: the identifier must be
		// dequeued, not retried forever.
		log.Printf("download: %s already exists, skipping %s", key, task.VideoID)
		s.queue.Remove(task.VideoID)
		s.setStatus(task, model.TaskStatusSkippedExisting)
		return nil
	}

	variant, err := s.selector(meta.Variants)
	if err != nil {
		return fmt.Errorf("select variant: %w", err)
	}

	stream, err := s.fetcher.OpenStream(ctx, task.VideoID, variant)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	s.tasksMutex.Lock()
	task.DownloadedBytes = 0
	task.TotalBytes = stream.Size()
	s.tasksMutex.Unlock()
	s.setStatus(task, model.TaskStatusTransferring)

	if err := s.transfer(ctx, task, key, stream); err != nil {
		return fmt.Errorf("transfer %s: %w", key, err)
	}

	s.queue.Remove(task.VideoID)
	s.setStatus(task, model.TaskStatusCompleted)
	return nil
}

// transfer pipes the stream into the bucket under key. The bucket writer
// stages into a temp file and publishes by rename on Close, so a partially
// written target is never observable; on error any committed partial
// object is deleted best effort.
func (s *Service) transfer(ctx context.Context, task *model.Task, key string, stream Stream) error {
	w, err := s.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("open writer: %w", err)
	}

	if err := s.copyWithProgress(task, w, stream); err != nil {
		w.Close()
		s.bucket.Delete(ctx, key) // Best effort, ignore errors
		return err
	}

	if err := w.Close(); err != nil {
		s.bucket.Delete(ctx, key) // Best effort, ignore errors
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}

// copyWithProgress copies stream bytes to w, updating the task's byte
// counters and notifying observers as chunks land.
func (s *Service) copyWithProgress(task *model.Task, w io.Writer, stream Stream) error {
	buf := make([]byte, copyBufSize)
	for {
		n, rerr := stream.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write: %w", werr)
			}

			s.tasksMutex.Lock()
			task.DownloadedBytes += int64(n)
			s.tasksMutex.Unlock()
			s.notifyUpdate(task)
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("read: %w", rerr)
		}
	}
}

// finish stamps the task's terminal time
func (s *Service) finish(task *model.Task) {
	s.tasksMutex.Lock()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
}
