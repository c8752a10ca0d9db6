package middleware

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-ringview/pkg/logging"
)

// Logging writes one debug line per request with its status and latency.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r)

			logger.Debug("http request",
				logging.String("method", r.Method),
				logging.Path(r.URL.Path),
				logging.Int("status", sw.statusCode),
				logging.String("request_id", GetRequestID(r)),
				logging.Latency(time.Since(start)),
			)
		})
	}
}
