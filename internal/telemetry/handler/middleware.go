package handler

import (
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LogRequests logs method, path, status, duration and client IP after each request.
// skipPaths is the set of paths not logged (e.g. /healthz, /metrics).
func LogRequests(next http.Handler, skipPaths map[string]bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if skipPaths[r.URL.Path] {
			return
		}
		log.Printf("handler: %s %s status=%d duration_ms=%d client_ip=%s",
			r.Method, r.URL.Path, rec.status, time.Since(start).Milliseconds(), ClientIP(r))
	})
}

// ClientIP returns the client IP from X-Forwarded-For (first hop), X-Real-IP, or the remote address.
func ClientIP(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); s != "" {
		if i := strings.Index(s, ","); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
		return s
	}
	if s := strings.TrimSpace(r.Header.Get("X-Real-IP")); s != "" {
		return s
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}
	return "unknown"
}
