package api

import (
	"net/http"
	"time"

	"github.com/lucasjlepore/fit-zones/metrics"
)

// instrument counts requests to endpoint by method and status and records
// their latency.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next(rec, r)
		metrics.ObserveHTTPRequest(endpoint, r.Method, rec.Status(), time.Since(began))
	}
}

// statusRecorder remembers the first status written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.code == 0 {
		s.code = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.code == 0 {
		s.code = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Status is the written status; 200 when the handler wrote nothing.
func (s *statusRecorder) Status() int {
	if s.code == 0 {
		return http.StatusOK
	}
	return s.code
}
