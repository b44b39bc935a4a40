package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/asset-custody/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestID reuses an incoming X-Trace-ID or mints one, then stores base tagged with it as the
// request logger. It also fills chi's request id so GetReqID works downstream.
func RequestID(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			ctx := logger.Into(r.Context(), base.With("trace_id", traceID))
			ctx = context.WithValue(ctx, middleware.RequestIDKey, traceID)

			w.Header().Set(TraceHeader, traceID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
