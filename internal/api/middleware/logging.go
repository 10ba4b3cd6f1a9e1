package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLog is a mutable carrier Logger seeds into the context. Inner
// middleware cannot hand values back out through the request itself, so
// Tenancy writes the resolved slug here for the access log line.
type requestLog struct {
	tenant string
}

const requestLogKey contextKey = "request_log"

// logTenant records the resolved tenant slug for the request's access log
// line. No-op when the request did not pass through Logger.
func logTenant(ctx context.Context, slug string) {
	if rl, ok := ctx.Value(requestLogKey).(*requestLog); ok {
		rl.tenant = slug
	}
}

// Logger emits one structured line per request, including the tenant slug
// when tenancy resolution found one.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rl := &requestLog{}
		r = r.WithContext(context.WithValue(r.Context(), requestLogKey, rl))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		}
		if rl.tenant != "" {
			attrs = append(attrs, "tenant", rl.tenant)
		}
		slog.Info("request", attrs...)
	})
}
