package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/voicenotes/logger"
)

// quietPaths are polled by supervisors and not logged.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// RequestLogger returns middleware that logs every request with method,
// path, status code and duration.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, sw.status,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]any, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
