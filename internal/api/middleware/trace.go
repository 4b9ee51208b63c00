// Package middleware provides HTTP middleware for the book API.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/memorybook/internal/api/shared"
	"github.com/phrazzld/memorybook/internal/platform/logger"
)

// NewTraceMiddleware tags each request with a trace id and a request-scoped
// logger carrying it. A valid X-Trace-ID from the caller is reused; otherwise
// a fresh id is generated. The id is echoed in the response header.
//
// This middleware should be applied early in the chain so every handler and
// service call below it logs with the trace id.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(shared.TraceIDHeader)
			if !shared.IsValidTraceID(traceID) {
				traceID = shared.NewTraceID()
			}

			log := base.With(slog.String("trace_id", traceID))
			ctx := shared.WithTraceID(r.Context(), traceID)
			ctx = logger.WithLogger(ctx, log)

			w.Header().Set(shared.TraceIDHeader, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
