package middleware

import (
	"log/slog"
	"net/http"

	"github.com/softmatrices/forique-sub000/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, tagged with the
// correlation ID, the shopper's session ID and the trace context. Handlers
// retrieve it with logger.FromContext.
//
// Mount it after RequestLogging, which sets the correlation ID, and Tracing,
// which starts the span.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// RequireSession runs later on the session routes, so read the
			// header here. A malformed header is not copied into log lines;
			// RequireSession rejects it.
			sessionID := SessionIDFromContext(ctx)
			if header := r.Header.Get(SessionHeader); sessionID == "" && validSessionID(header) {
				sessionID = header
			}
			if sessionID != "" {
				ctx = logger.WithSessionID(ctx, sessionID)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
