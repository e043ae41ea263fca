package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/pbdecode/internal/wire"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pbdecode",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pbdecode",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	wireFields = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pbdecode",
			Subsystem: "wire",
			Name:      "fields_total",
			Help:      "Records interpreted, by wire type.",
		},
		[]string{"wire_type"},
	)
	wireSpeculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pbdecode",
			Subsystem: "wire",
			Name:      "speculations_total",
			Help:      "Nested-message guesses on length-delimited values.",
		},
		[]string{"result"},
	)
	wireDecodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pbdecode",
			Subsystem: "wire",
			Name:      "decodes_total",
			Help:      "Top-level decodes, by outcome.",
		},
		[]string{"result", "kind"},
	)
	wireInputBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pbdecode",
			Subsystem: "wire",
			Name:      "input_bytes",
			Help:      "Size of decoded captures in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, wireFields, wireSpeculations, wireDecodes, wireInputBytes)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDecode counts one top-level decode of size bytes. err is the
// decode error, if any.
func RecordDecode(size int, err error) {
	RegisterMetrics()
	wireInputBytes.Observe(float64(size))
	if err != nil {
		kind := wire.ErrorKind(err)
		if kind == "" {
			kind = "other"
		}
		wireDecodes.WithLabelValues("error", kind).Inc()
		return
	}
	wireDecodes.WithLabelValues("ok", "").Inc()
}

// WireMetrics feeds decoder events into the wire counters.
type WireMetrics struct{}

var _ wire.Observer = WireMetrics{}

// NewWireMetrics registers the collectors and returns an observer.
func NewWireMetrics() WireMetrics {
	RegisterMetrics()
	return WireMetrics{}
}

func (WireMetrics) FieldDecoded(t wire.Type, _ int) {
	wireFields.WithLabelValues(t.String()).Inc()
}

func (WireMetrics) Speculated(nested bool, _ int) {
	result := "opaque"
	if nested {
		result = "nested"
	}
	wireSpeculations.WithLabelValues(result).Inc()
}
