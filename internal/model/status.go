package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means the task is dispatched but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusResolving means metadata resolution is in progress
	TaskStatusResolving TaskStatus = "Resolving"

	// TaskStatusTransferring means the byte transfer is in progress
	TaskStatusTransferring TaskStatus = "Transferring"

	// TaskStatusRetrying means the task is waiting out a backoff delay
	// before the next attempt
	TaskStatusRetrying TaskStatus = "Retrying"

	// TaskStatusCompleted means the transfer finished and the identifier
	// was removed from the queue
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusSkippedExisting means the target file already existed; the
	// identifier was removed from the queue without a transfer
	TaskStatusSkippedExisting TaskStatus = "SkippedExisting"

	// TaskStatusFailed means all attempts were exhausted; the identifier
	// stays in the queue
	TaskStatusFailed TaskStatus = "Failed"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusResolving || ts == TaskStatusTransferring || ts == TaskStatusRetrying
}

// IsTerminal returns true if the task reached a final state
func (ts TaskStatus) IsTerminal() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusSkippedExisting || ts == TaskStatusFailed
}

// Succeeded returns true for the terminal states that dequeue the
// identifier. A pre-existing target counts as success, not as a skip that
// leaves the identifier queued.
func (ts TaskStatus) Succeeded() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusSkippedExisting
}
