// Package metrics exposes loader and analysis counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements fileio.Recorder and service.RunRecorder.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	encodingAttempts *prometheus.CounterVec
	filesLoaded      *prometheus.CounterVec
	filesUnreadable  prometheus.Counter

	runs         prometheus.Counter
	runDuration  prometheus.Histogram
	globalMax    prometheus.Gauge
	totalCount   prometheus.Gauge
	problemFiles prometheus.Gauge
}

type Option func(*Recorder)

func WithNamespace(ns string) Option {
	return func(r *Recorder) {
		if ns != "" {
			r.namespace = ns
		}
	}
}

// WithRegistry registers the collectors on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		if reg != nil {
			r.registry = reg
		}
	}
}

func New(opts ...Option) *Recorder {
	r := &Recorder{namespace: "scenic"}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	r.encodingAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Subsystem: "loader", Name: "encoding_attempts_total",
		Help: "Encoding attempts by encoding and outcome.",
	}, []string{"encoding", "ok"})
	r.filesLoaded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Subsystem: "loader", Name: "files_loaded_total",
		Help: "Files loaded, by winning encoding and whether repair ran.",
	}, []string{"encoding", "repaired"})
	r.filesUnreadable = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace, Subsystem: "loader", Name: "files_unreadable_total",
		Help: "Files no encoding or fallback could read.",
	})
	r.runs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace, Subsystem: "analysis", Name: "runs_total",
		Help: "Completed two-pass analyses.",
	})
	r.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace, Subsystem: "analysis", Name: "run_duration_seconds",
		Help:    "Wall time of one analysis.",
		Buckets: prometheus.DefBuckets,
	})
	r.globalMax = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "analysis", Name: "global_max_score",
		Help: "Nationwide maximum score of the last run.",
	})
	r.totalCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "analysis", Name: "max_score_attractions",
		Help: "Attractions at the maximum score in the last run.",
	})
	r.problemFiles = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "analysis", Name: "problem_files",
		Help: "Unreadable files in the last run.",
	})

	r.registry.MustRegister(
		r.encodingAttempts, r.filesLoaded, r.filesUnreadable,
		r.runs, r.runDuration, r.globalMax, r.totalCount, r.problemFiles,
	)
	return r
}

func (r *Recorder) EncodingAttempt(encoding string, ok bool) {
	r.encodingAttempts.WithLabelValues(encoding, strconv.FormatBool(ok)).Inc()
}

func (r *Recorder) FileLoaded(encoding string, repaired bool) {
	r.filesLoaded.WithLabelValues(encoding, strconv.FormatBool(repaired)).Inc()
}

func (r *Recorder) FileUnreadable() { r.filesUnreadable.Inc() }

func (r *Recorder) RunFinished(globalMax float64, totalCount, problemFiles int, took time.Duration) {
	r.runs.Inc()
	r.runDuration.Observe(took.Seconds())
	r.globalMax.Set(globalMax)
	r.totalCount.Set(float64(totalCount))
	r.problemFiles.Set(float64(problemFiles))
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
