package download

// Package download implements the core download pipeline: the bounded-
// concurrency scheduler over the work queue and the per-identifier retry
// state machine. Fetching, variant selection, and output naming are
// collaborators supplied through interfaces.
