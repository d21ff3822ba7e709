package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/polarisml/console-gateway/internal/routeclass"
)

// metrics holds the gateway's Prometheus collectors.
type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	signOutsTotal   prometheus.Counter
}

var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route class and status",
		}, []string{"class", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Request handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"class"}),
		signOutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "forced_signouts_total",
			Help:      "Total forced sign-outs triggered by upstream 401 responses",
		}),
	}
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack passes a connection takeover through to the underlying writer so
// WebSocket upgrades work behind the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Metrics records request counts and durations labelled by route class.
// Labels use the classification table, not raw paths, to keep cardinality
// bounded.
func Metrics(reg prometheus.Registerer) func(http.Handler) http.Handler {
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		globalMetrics = initMetrics(reg)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := classLabel(r.URL.Path)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			m.requestDuration.WithLabelValues(class).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(class, strconv.Itoa(rec.status)).Inc()
		})
	}
}

// RecordForcedSignOut counts a 401-triggered sign-out.
func RecordForcedSignOut() {
	globalMetricsMu.Lock()
	m := globalMetrics
	globalMetricsMu.Unlock()
	if m != nil {
		m.signOutsTotal.Inc()
	}
}

func classLabel(path string) string {
	switch routeclass.Classify(path) {
	case routeclass.Protected:
		return "protected"
	case routeclass.AuthOnly:
		return "auth_only"
	default:
		return "public"
	}
}
