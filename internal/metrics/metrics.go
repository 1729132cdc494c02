// Package metrics exports pipeline, retry and worker-pool activity in the
// Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scry_study"

// Recorder implements summary.Metrics, backoff.Observer and task.PoolMetrics.
type Recorder struct {
	registry *prometheus.Registry

	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	generationChunks   prometheus.Histogram
	appends            *prometheus.CounterVec
	truncations        prometheus.Counter

	retries   *prometheus.CounterVec
	exhausted *prometheus.CounterVec

	workers       prometheus.Gauge
	queueDepth    prometheus.Gauge
	tasksRejected *prometheus.CounterVec
	tasks         *prometheus.CounterVec
	taskDuration  *prometheus.HistogramVec
}

// New creates a Recorder with its own registry, including Go runtime and
// process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{registry: reg}

	r.generations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "summary",
		Name:      "generations_total",
		Help:      "Summary generations by path and outcome.",
	}, []string{"path", "outcome"})

	r.generationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "summary",
		Name:      "generation_duration_seconds",
		Help:      "Time to produce a summary, including retries.",
		Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"path"})

	r.generationChunks = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "summary",
		Name:      "generation_chunks",
		Help:      "Chunks per successful generation.",
		Buckets:   []float64{1, 2, 4, 6, 8, 10, 12, 15},
	})

	r.appends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "summary",
		Name:      "appends_total",
		Help:      "Incremental content requests by kind and outcome.",
	}, []string{"kind", "outcome"})

	r.truncations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "summary",
		Name:      "document_truncations_total",
		Help:      "Documents cut to the processing limit.",
	})

	r.retries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backoff",
		Name:      "retries_total",
		Help:      "Retried attempts by operation label.",
	}, []string{"label"})

	r.exhausted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backoff",
		Name:      "exhausted_total",
		Help:      "Operations that failed on every attempt.",
	}, []string{"label"})

	r.workers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "tasks",
		Name:      "workers",
		Help:      "Running pool workers.",
	})

	r.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "tasks",
		Name:      "queue_depth",
		Help:      "Tasks waiting for a worker.",
	})

	r.tasksRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tasks",
		Name:      "rejected_total",
		Help:      "Tasks rejected because the pool was saturated.",
	}, []string{"type"})

	r.tasks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tasks",
		Name:      "finished_total",
		Help:      "Finished tasks by type and status.",
	}, []string{"type", "status"})

	r.taskDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tasks",
		Name:      "duration_seconds",
		Help:      "Task execution time.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 13),
	}, []string{"type"})

	reg.MustRegister(
		r.generations, r.generationDuration, r.generationChunks, r.appends, r.truncations,
		r.retries, r.exhausted,
		r.workers, r.queueDepth, r.tasksRejected, r.tasks, r.taskDuration,
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) GenerationCompleted(path string, chunks int, duration time.Duration) {
	r.generations.WithLabelValues(path, "success").Inc()
	r.generationDuration.WithLabelValues(path).Observe(duration.Seconds())
	r.generationChunks.Observe(float64(chunks))
}

func (r *Recorder) GenerationFailed(path string, category generation.Category) {
	r.generations.WithLabelValues(path, string(category)).Inc()
}

func (r *Recorder) AppendCompleted(kind generation.Kind) {
	r.appends.WithLabelValues(string(kind), "success").Inc()
}

func (r *Recorder) AppendFailed(kind generation.Kind, reason string) {
	r.appends.WithLabelValues(string(kind), reason).Inc()
}

func (r *Recorder) DocumentTruncated() {
	r.truncations.Inc()
}

func (r *Recorder) ObserveRetry(label string, _ int, _ time.Duration) {
	r.retries.WithLabelValues(label).Inc()
}

func (r *Recorder) ObserveExhausted(label string, _ int) {
	r.exhausted.WithLabelValues(label).Inc()
}

func (r *Recorder) SetWorkers(n int) {
	r.workers.Set(float64(n))
}

func (r *Recorder) SetQueueDepth(n int) {
	r.queueDepth.Set(float64(n))
}

func (r *Recorder) TaskRejected(taskType string) {
	r.tasksRejected.WithLabelValues(taskType).Inc()
}

func (r *Recorder) TaskFinished(taskType, status string, duration time.Duration) {
	r.tasks.WithLabelValues(taskType, status).Inc()
	r.taskDuration.WithLabelValues(taskType).Observe(duration.Seconds())
}
