package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ugconnect/wifi-voucher-gateway/internal/metrics"
)

// Metrics records request counts and latency per route pattern. The mux
// resolves the pattern label up front; raw paths would explode the label
// cardinality with payment references.
func Metrics(m *metrics.Metrics, mux *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			_, route := mux.Handler(r)
			if route == "" {
				route = "unmatched"
			}

			m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
