package middleware

import (
	"net/http"
	"sync/atomic"
)

// MetricsCollector tracks request volume over the lifetime of the process.
type MetricsCollector struct {
	requests atomic.Int64
	errors   atomic.Int64
	inFlight atomic.Int64
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// Snapshot is a point-in-time read of the counters.
type Snapshot struct {
	Requests int64 `json:"request_count"`
	Errors   int64 `json:"error_count"`
	InFlight int64 `json:"in_flight"`
}

func (mc *MetricsCollector) Snapshot() Snapshot {
	return Snapshot{
		Requests: mc.requests.Load(),
		Errors:   mc.errors.Load(),
		InFlight: mc.inFlight.Load(),
	}
}

// Middleware counts every request and every 4xx/5xx response.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requests.Add(1)
		mc.inFlight.Add(1)
		defer mc.inFlight.Add(-1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode >= 400 {
			mc.errors.Add(1)
		}
	})
}
