// Package task runs orchestration work on a bounded, elastic worker pool.
//
// A Pool keeps MinWorkers goroutines alive and grows up to MaxWorkers when
// its backlog is full; extra workers exit after IdleTimeout without work.
// Once the backlog is full at the ceiling, submissions are rejected with
// ErrQueueFull rather than queued without bound. Every task runs with the
// context it was submitted with, so a caller that goes away cancels its
// own work and nobody else's.
//
// GenerateSummaryTask and AppendContentTask adapt the summary orchestrator's
// operations to the Task interface.
package task
