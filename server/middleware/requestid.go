package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/voicenotes/logger"
)

// HeaderRequestID carries the request id on requests and responses.
const HeaderRequestID = "X-Request-Id"

// RequestID assigns every request an id, reusing an inbound X-Request-Id.
// The id is echoed on the response and stored in the request context under
// logger.RequestIDKey.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.New().String()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)
			ctx := context.WithValue(r.Context(), logger.RequestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
