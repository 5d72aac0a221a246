package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"gocloud.dev/blob/fileblob"

	"github.com/ytget/ytqueue/internal/config"
	"github.com/ytget/ytqueue/internal/download"
	"github.com/ytget/ytqueue/internal/model"
	"github.com/ytget/ytqueue/internal/platform"
	"github.com/ytget/ytqueue/internal/queue"
	"github.com/ytget/ytqueue/internal/retry"
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitOutputDirError = 1
	ExitInvalidArgs    = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 1 {
		printUsage()
		return ExitInvalidArgs
	}

	cfg, err := config.Load(args[0])
	if err != nil {
		log.Printf("ytqueue: %v", err)
		return ExitInvalidArgs
	}

	// The only fatal failure: without the output directory nothing can be
	// downloaded. Everything else degrades to "stays queued".
	if err := platform.CreateDirectoryIfNotExists(cfg.OutputDir); err != nil {
		log.Printf("ytqueue: failed to create output directory %s: %v", cfg.OutputDir, err)
		return ExitOutputDirError
	}

	bucket, err := fileblob.OpenBucket(cfg.OutputDir, nil)
	if err != nil {
		log.Printf("ytqueue: failed to open output directory %s: %v", cfg.OutputDir, err)
		return ExitOutputDirError
	}
	defer bucket.Close()

	fetcher := platform.NewYTDLPFetcher()
	workQueue := queue.New(cfg.QueueFile, fetcher.Validate)

	svc := download.NewService(download.Options{
		Queue:       workQueue,
		Fetcher:     fetcher,
		Selector:    platform.SelectorForPreset(cfg.QualityPreset),
		KeyFor:      platform.OutputKey,
		Bucket:      bucket,
		Policy:      retry.Policy{MaxAttempts: cfg.Retry.Attempts, BaseDelay: cfg.Retry.BaseDelay},
		MaxParallel: cfg.MaxParallel,
		Lister:      platform.NewYTDLPPlaylistLister(),
	})
	svc.SetUpdateCallback(newProgressLogger().observe)

	summary := svc.Run(context.Background())

	fmt.Printf("done: %d downloaded, %d already present, %d failed\n",
		summary.Completed, summary.Skipped, len(summary.Failed))

	// Failed identifiers stay queued for the next run; that is not a
	// process failure.
	return ExitSuccess
}

// progressLogger turns the per-task update stream into occasional log
// lines: status transitions and quarter progress milestones.
type progressLogger struct {
	mu       sync.Mutex
	statuses map[string]model.TaskStatus
	quarters map[string]int
}

func newProgressLogger() *progressLogger {
	return &progressLogger{
		statuses: make(map[string]model.TaskStatus),
		quarters: make(map[string]int),
	}
}

func (p *progressLogger) observe(task *model.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev := p.statuses[task.ID]; prev != task.Status {
		p.statuses[task.ID] = task.Status
		log.Printf("%s [%s] %s", task.VideoID, task.Status, task.DisplayTitle())
		return
	}

	if task.Status != model.TaskStatusTransferring {
		return
	}
	percent := task.Percent()
	if percent < 0 {
		return
	}
	if quarter := percent / 25; quarter > p.quarters[task.ID] {
		p.quarters[task.ID] = quarter
		log.Printf("%s [%s] %s: %d%%", task.VideoID, task.Status, task.DisplayTitle(), percent)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: ytqueue <queue-file>

Downloads every video listed in the queue file (one identifier or URL per
line) and removes identifiers from the file as they complete. Identifiers
whose download fails stay queued for the next run.

Configuration is read from the YAML file named by YTQUEUE_CONFIG and from
YTQUEUE_* environment variables (OUTPUT_DIR, MAX_PARALLEL, QUALITY,
RETRY_ATTEMPTS, RETRY_BASE_DELAY).
`)
}
