package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// MetricsMiddleware records request metrics into its own set and serves them
// together with the process-wide metrics.
type MetricsMiddleware struct {
	set              *metrics.Set
	requestCounter   *metrics.Counter
	inFlight         *metrics.Gauge
	responseTimeHist *metrics.Histogram
	requestSizeHist  *metrics.Histogram
	responseSizeHist *metrics.Histogram
}

func NewMetricsMiddleware() *MetricsMiddleware {
	set := metrics.NewSet()
	m := &MetricsMiddleware{
		set:              set,
		requestCounter:   set.NewCounter("http_requests_total"),
		responseTimeHist: set.NewHistogram("http_response_time_seconds"),
		requestSizeHist:  set.NewHistogram("http_request_size_bytes"),
		responseSizeHist: set.NewHistogram("http_response_size_bytes"),
	}
	// A nil callback makes the gauge settable with Inc and Dec.
	m.inFlight = set.NewGauge("http_requests_in_flight", nil)
	return m
}

func (m *MetricsMiddleware) WithMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if r.ContentLength > 0 {
			m.requestSizeHist.Update(float64(r.ContentLength))
		}

		rec := newResponseRecorder(w)

		m.requestCounter.Inc()
		m.inFlight.Inc()
		next.ServeHTTP(rec, r)
		m.inFlight.Dec()

		m.responseTimeHist.UpdateDuration(start)
		m.responseSizeHist.Update(float64(rec.size))
		m.set.GetOrCreateCounter(fmt.Sprintf(`http_response_status_total{code="%d"}`, rec.status)).Inc()
	})
}

func (m *MetricsMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	metrics.WritePrometheus(w, true)
	m.set.WritePrometheus(w)
}
