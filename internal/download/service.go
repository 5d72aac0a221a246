package download

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"gocloud.dev/blob"

	"github.com/ytget/ytqueue/internal/model"
	"github.com/ytget/ytqueue/internal/queue"
	"github.com/ytget/ytqueue/internal/retry"
)

// DefaultMaxParallel is the concurrency cap used when the option is unset
const DefaultMaxParallel = 2

// Options configures the download service.
type Options struct {
	// Queue is the durable work queue of pending identifiers.
	Queue *queue.WorkQueue

	// Fetcher resolves identifiers and opens byte streams.
	Fetcher Fetcher

	// Selector picks the transfer variant.
	Selector Selector

	// KeyFor derives the output storage key from resolved metadata.
	KeyFor KeyFunc

	// Bucket is the output storage for downloaded files.
	Bucket *blob.Bucket

	// Policy controls per-task retry.
	Policy retry.Policy

	// MaxParallel caps simultaneous in-flight tasks.
	// Default: DefaultMaxParallel
	MaxParallel int

	// Lister expands playlist entries before dispatch. Optional.
	Lister PlaylistLister
}

// Summary aggregates the outcome of one run. Individual task failures are
// collected here instead of failing the run.
type Summary struct {
	Completed int
	Skipped   int
	Failed    []string // identifiers left queued after exhausting retries
}

// Service schedules download tasks over the work queue with bounded
// concurrency
type Service struct {
	queue       *queue.WorkQueue
	fetcher     Fetcher
	selector    Selector
	keyFor      KeyFunc
	bucket      *blob.Bucket
	policy      retry.Policy
	maxParallel int
	lister      PlaylistLister

	tasks      map[string]*model.Task
	tasksMutex sync.RWMutex
	onUpdate   func(*model.Task) // callback for progress observers
}

// NewService creates a new download service
func NewService(opts Options) *Service {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = DefaultMaxParallel
	}
	if opts.Policy.MaxAttempts <= 0 {
		opts.Policy = retry.DefaultPolicy()
	}
	return &Service{
		queue:       opts.Queue,
		fetcher:     opts.Fetcher,
		selector:    opts.Selector,
		keyFor:      opts.KeyFor,
		bucket:      opts.Bucket,
		policy:      opts.Policy,
		maxParallel: opts.MaxParallel,
		lister:      opts.Lister,
		tasks:       make(map[string]*model.Task),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.Task)) {
	s.onUpdate = callback
}

// GetAllTasks returns all tasks created during this run
func (s *Service) GetAllTasks() []*model.Task {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// Run processes one snapshot of the queue. Playlist entries are expanded
// first, then the snapshot is loaded once and every identifier gets exactly
// one task, executed by a fixed pool of maxParallel workers. Run waits for
// all tasks to settle; per-task failures are aggregated, never propagated.
func (s *Service) Run(ctx context.Context) Summary {
	s.expandPlaylists(ctx)

	ids := s.queue.Load()
	if len(ids) == 0 {
		log.Printf("download: queue is empty, nothing to do")
		return Summary{}
	}

	log.Printf("download: processing %d queued identifiers with %d workers", len(ids), s.maxParallel)

	jobs := make(chan string)
	done := make(chan *model.Task, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < s.maxParallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for videoID := range jobs {
				task := s.newTask(videoID)
				s.runTask(ctx, task)
				done <- task
			}
		}()
	}

	for _, id := range ids {
		if s.lister != nil && s.lister.IsPlaylist(id) {
			// Expansion failed earlier this run; leave the entry for the
			// next run instead of resolving it as a video.
			log.Printf("download: skipping unexpanded playlist entry %s", id)
			continue
		}
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	close(done)

	var summary Summary
	for task := range done {
		switch task.Status {
		case model.TaskStatusCompleted:
			summary.Completed++
		case model.TaskStatusSkippedExisting:
			summary.Skipped++
		default:
			summary.Failed = append(summary.Failed, task.VideoID)
		}
	}

	if len(summary.Failed) > 0 {
		log.Printf("download: %d identifiers failed and remain queued: %v", len(summary.Failed), summary.Failed)
	}
	log.Printf("download: run finished: %d completed, %d skipped existing, %d failed",
		summary.Completed, summary.Skipped, len(summary.Failed))

	return summary
}

// expandPlaylists rewrites playlist entries in the queue into their video
// identifiers. Expansion failure is non-fatal: the entry stays queued and
// is skipped for this run.
func (s *Service) expandPlaylists(ctx context.Context) {
	if s.lister == nil {
		return
	}

	for _, id := range s.queue.Load() {
		if !s.lister.IsPlaylist(id) {
			continue
		}

		videoIDs, err := s.lister.ListVideos(ctx, id)
		if err != nil {
			log.Printf("download: failed to expand playlist %s, leaving it queued: %v", id, err)
			continue
		}

		if err := s.queue.Replace(id, videoIDs...); err != nil {
			log.Printf("download: failed to rewrite queue for playlist %s: %v", id, err)
			continue
		}
		log.Printf("download: expanded playlist %s into %d videos", id, len(videoIDs))
	}
}

// newTask registers a fresh task for one queued identifier
func (s *Service) newTask(videoID string) *model.Task {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task := &model.Task{
		ID:      uuid.NewString(),
		VideoID: videoID,
		Status:  model.TaskStatusPending,
		Attempt: 1,
	}
	s.tasks[task.ID] = task
	return task
}

// setStatus transitions the task and notifies observers
func (s *Service) setStatus(task *model.Task, status model.TaskStatus) {
	s.tasksMutex.Lock()
	task.Status = status
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.Task) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}
