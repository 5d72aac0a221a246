package queue

// Package queue implements the durable work queue: a line-oriented text
// file of pending video identifiers shared between processes. All mutation
// goes through a read-filter-rewrite cycle guarded by an advisory lock file
// next to the queue, so concurrent removals from many tasks (or many
// processes) never interleave partial writes.
