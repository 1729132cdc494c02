package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-study/internal/redact"
)

// Common errors returned by the Pool
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// Task outcome labels reported to PoolMetrics.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// PoolMetrics receives pool activity.
type PoolMetrics interface {
	SetWorkers(n int)
	SetQueueDepth(n int)
	TaskRejected(taskType string)
	TaskFinished(taskType, status string, duration time.Duration)
}

type nopPoolMetrics struct{}

func (nopPoolMetrics) SetWorkers(int)                             {}
func (nopPoolMetrics) SetQueueDepth(int)                          {}
func (nopPoolMetrics) TaskRejected(string)                        {}
func (nopPoolMetrics) TaskFinished(string, string, time.Duration) {}

// PoolConfig holds configuration options for the pool
type PoolConfig struct {
	// MinWorkers are started with the pool and live until Stop.
	MinWorkers int
	// MaxWorkers caps the number of workers, core and extra.
	MaxWorkers int
	// QueueSize is the backlog capacity.
	QueueSize int
	// IdleTimeout is how long an extra worker waits for work before exiting.
	IdleTimeout time.Duration
}

// DefaultPoolConfig returns a PoolConfig with the standard sizing.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MinWorkers:  4,
		MaxWorkers:  10,
		QueueSize:   100,
		IdleTimeout: 60 * time.Second,
	}
}

// job is a submitted task with the context it runs under.
type job struct {
	ctx  context.Context
	task Task
	done chan error
}

// Pool is an elastic worker pool.
type Pool struct {
	cfg     PoolConfig
	queue   chan *job
	logger  *slog.Logger
	metrics PoolMetrics

	mu      sync.Mutex
	workers int
	closed  bool
	wg      sync.WaitGroup
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolMetrics sets the metrics sink.
func WithPoolMetrics(m PoolMetrics) PoolOption {
	return func(p *Pool) {
		if m != nil {
			p.metrics = m
		}
	}
}

// NewPool creates a pool and starts its core workers. Invalid sizes fall
// back to the defaults.
func NewPool(cfg PoolConfig, logger *slog.Logger, opts ...PoolOption) *Pool {
	def := DefaultPoolConfig()
	if cfg.MinWorkers <= 0 {
		logger.Warn("invalid min workers specified, using default",
			"specified", cfg.MinWorkers, "default", def.MinWorkers)
		cfg.MinWorkers = def.MinWorkers
	}
	if cfg.MaxWorkers < cfg.MinWorkers {
		logger.Warn("max workers below min workers, using min workers",
			"specified", cfg.MaxWorkers, "min_workers", cfg.MinWorkers)
		cfg.MaxWorkers = cfg.MinWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}

	p := &Pool{
		cfg:     cfg,
		queue:   make(chan *job, cfg.QueueSize),
		logger:  logger.With("component", "task_pool"),
		metrics: nopPoolMetrics{},
	}
	for _, opt := range opts {
		opt(p)
	}

	p.mu.Lock()
	for range cfg.MinWorkers {
		p.spawnLocked(nil, false)
	}
	p.mu.Unlock()

	p.logger.Info("task pool started",
		"min_workers", cfg.MinWorkers,
		"max_workers", cfg.MaxWorkers,
		"queue_size", cfg.QueueSize)
	return p
}

// Workers returns the number of running workers.
func (p *Pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers
}

// Submit queues t to run under ctx and returns a channel that receives its
// result. When the backlog is full an extra worker is started to take t
// directly; at MaxWorkers Submit fails with ErrQueueFull.
func (p *Pool) Submit(ctx context.Context, t Task) (<-chan error, error) {
	j := &job{ctx: ctx, task: t, done: make(chan error, 1)}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrQueueClosed
	}

	select {
	case p.queue <- j:
		p.metrics.SetQueueDepth(len(p.queue))
		p.logger.Debug("task enqueued",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"queue_len", len(p.queue))
		return j.done, nil
	default:
	}

	if p.workers < p.cfg.MaxWorkers {
		p.spawnLocked(j, true)
		p.logger.Info("backlog full, started extra worker",
			"workers", p.workers,
			"task_type", t.Type())
		return j.done, nil
	}

	p.metrics.TaskRejected(t.Type())
	p.logger.Warn("task rejected, pool saturated",
		"task_type", t.Type(),
		"workers", p.workers,
		"queue_cap", cap(p.queue))
	return nil, fmt.Errorf("%w: %d workers busy and %d tasks waiting", ErrQueueFull, p.workers, cap(p.queue))
}

// Run submits t and waits for it to finish or for ctx to end.
func (p *Pool) Run(ctx context.Context, t Task) error {
	done, err := p.Submit(ctx, t)
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new submissions and waits for queued and running tasks to
// finish, or for ctx to end.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		p.logger.Info("task pool stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn("task pool stop deadline reached with work still running")
		return fmt.Errorf("waiting for task pool to drain: %w", ctx.Err())
	}
}

// spawnLocked starts a worker. Callers must hold p.mu.
func (p *Pool) spawnLocked(first *job, extra bool) {
	p.workers++
	p.metrics.SetWorkers(p.workers)
	p.wg.Add(1)
	go p.work(first, extra)
}

func (p *Pool) work(first *job, extra bool) {
	defer func() {
		p.mu.Lock()
		p.workers--
		p.metrics.SetWorkers(p.workers)
		p.mu.Unlock()
		p.wg.Done()
	}()

	if first != nil {
		p.execute(first)
	}

	if !extra {
		for j := range p.queue {
			p.execute(j)
		}
		return
	}

	idle := time.NewTimer(p.cfg.IdleTimeout)
	defer idle.Stop()
	for {
		select {
		case j, ok := <-p.queue:
			if !ok {
				return
			}
			p.execute(j)
			idle.Reset(p.cfg.IdleTimeout)
		case <-idle.C:
			p.logger.Debug("extra worker idle, exiting")
			return
		}
	}
}

func (p *Pool) execute(j *job) {
	p.metrics.SetQueueDepth(len(p.queue))
	log := p.logger.With("task_id", j.task.ID(), "task_type", j.task.Type())

	if err := j.ctx.Err(); err != nil {
		log.Debug("task cancelled before it started")
		p.metrics.TaskFinished(j.task.Type(), StatusCancelled, 0)
		j.done <- err
		return
	}

	start := time.Now()
	err := p.safeExecute(j)
	elapsed := time.Since(start)

	status := StatusCompleted
	switch {
	case err == nil:
		log.Debug("task completed", "duration", elapsed)
	case j.ctx.Err() != nil:
		status = StatusCancelled
		log.Info("task cancelled", "duration", elapsed)
	default:
		status = StatusFailed
		log.Warn("task failed", "error", redact.Error(err), "duration", elapsed)
	}
	p.metrics.TaskFinished(j.task.Type(), status, elapsed)
	j.done <- err
}

func (p *Pool) safeExecute(j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "task_id", j.task.ID(), "panic", r)
			err = fmt.Errorf("task %s panicked: %v", j.task.ID(), r)
		}
	}()
	return j.task.Execute(j.ctx)
}
