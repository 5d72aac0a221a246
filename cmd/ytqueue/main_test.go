package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRun_NoArguments(t *testing.T) {
	if code := run(nil); code != ExitInvalidArgs {
		t.Errorf("Expected exit code %d, got %d", ExitInvalidArgs, code)
	}
}

func TestRun_MissingQueueFileIsNoWork(t *testing.T) {
	dir := t.TempDir()
	queuePath := filepath.Join(dir, "queue.txt")
	t.Setenv("YTQUEUE_OUTPUT_DIR", filepath.Join(dir, "videos"))

	code := run([]string{queuePath})
	if code != ExitSuccess {
		t.Fatalf("Expected exit code %d, got %d", ExitSuccess, code)
	}

	// The queue file is created empty so the next run finds it.
	info, err := os.Stat(queuePath)
	if err != nil {
		t.Fatalf("Expected queue file to be created, got %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("Expected empty queue file, got %d bytes", info.Size())
	}
}

func TestRun_UnwritableOutputDirIsFatal(t *testing.T) {
	dir := t.TempDir()
	queuePath := filepath.Join(dir, "queue.txt")

	// A file where the output directory should be makes creation fail.
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}
	t.Setenv("YTQUEUE_OUTPUT_DIR", filepath.Join(blocker, "videos"))

	code := run([]string{queuePath})
	if code != ExitOutputDirError {
		t.Errorf("Expected exit code %d, got %d", ExitOutputDirError, code)
	}
}
