package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-ID"

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logging tags each request with an id, puts a child logger carrying it in
// the context and logs one line per request.
func Logging(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" || len(reqID) > 64 {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			l := base.With().Str("request_id", reqID).Logger()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(l.WithContext(r.Context())))

			ev := l.Info()
			if sw.status >= http.StatusInternalServerError {
				ev = l.Error()
			}
			ev.Str("ip", r.RemoteAddr).Str("method", r.Method).Str("path", r.URL.Path).
				Int("status", sw.status).Dur("duration", time.Since(start)).Msg("request")
		})
	}
}
