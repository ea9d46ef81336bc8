// Package metrics instruments notice lifecycles with Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmylchreest/noticekit/internal/notice"
)

// Options configures the recorder.
type Options struct {
	// Namespace is the metrics namespace (default: "noticekit").
	Namespace string

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the recorder.
type Option func(*Options)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(o *Options) {
		o.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(o *Options) {
		o.Registry = registry
	}
}

// Recorder implements notice.Observer.
type Recorder struct {
	live          prometheus.Gauge
	timersArmed   prometheus.Counter
	timersCancel  prometheus.Counter
	armedDuration prometheus.Histogram
	closes        *prometheus.CounterVec
}

var _ notice.Observer = (*Recorder)(nil)

// NewRecorder registers the notice metrics.
func NewRecorder(opts ...Option) *Recorder {
	o := Options{
		Namespace: "noticekit",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&o)
	}
	factory := promauto.With(o.Registry)

	return &Recorder{
		live: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: o.Namespace,
			Name:      "notices_live",
			Help:      "Number of mounted notices not yet destroyed",
		}),
		timersArmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: o.Namespace,
			Name:      "timers_armed_total",
			Help:      "Total number of close timers armed",
		}),
		timersCancel: factory.NewCounter(prometheus.CounterOpts{
			Namespace: o.Namespace,
			Name:      "timers_cancelled_total",
			Help:      "Total number of pending close timers cancelled",
		}),
		armedDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: o.Namespace,
			Name:      "timer_duration_seconds",
			Help:      "Configured duration of armed close timers",
			Buckets:   []float64{0.5, 1, 1.5, 3, 5, 10, 30},
		}),
		closes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.Namespace,
			Name:      "closes_total",
			Help:      "Total number of notice dismissals by close type",
		}, []string{"close_type"}),
	}
}

func (r *Recorder) Mounted(string) {
	r.live.Inc()
}

func (r *Recorder) TimerArmed(_ string, d time.Duration) {
	r.timersArmed.Inc()
	r.armedDuration.Observe(d.Seconds())
}

func (r *Recorder) TimerCancelled(string) {
	r.timersCancel.Inc()
}

func (r *Recorder) Dispatched(_ string, closeType notice.CloseType) {
	r.closes.WithLabelValues(closeType.String()).Inc()
}

func (r *Recorder) Destroyed(string) {
	r.live.Dec()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
