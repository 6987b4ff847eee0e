package middlewares

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type rtWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
	status      int
	bytes       int
}

func (w *rtWriter) stamp() {
	if !w.wroteHeader {
		w.Header().Set("X-Response-Time", time.Since(w.start).String())
		w.wroteHeader = true
	}
}

func (w *rtWriter) WriteHeader(code int) {
	w.status = code
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *rtWriter) Write(b []byte) (int, error) {
	w.stamp()
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// ResponseTime stamps X-Response-Time and writes one access log line per
// request. Bodies are never logged; they may carry passwords.
func ResponseTime(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &rtWriter{
				ResponseWriter: w,
				start:          time.Now(),
				status:         http.StatusOK,
			}
			next.ServeHTTP(rw, r)

			// If nothing was written (e.g., 204/HEAD), set it now.
			if !rw.wroteHeader {
				rw.Header().Set("X-Response-Time", time.Since(rw.start).String())
			}

			log.Info("request",
				zap.String("request_id", GetRequestID(r)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rw.status),
				zap.Int("bytes", rw.bytes),
				zap.Duration("duration", time.Since(rw.start)),
			)
		})
	}
}
