package middleware

import (
	"context"
	"net/http"

	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
	"github.com/softmatrices/forique-sub000/pkg/httputil"
)

// SessionHeader carries the anonymous storefront session identifier.
const SessionHeader = "X-Session-ID"

const maxSessionIDLength = 128

type contextKeyType string

const sessionIDKey contextKeyType = "session_id"

// RequireSession reads the session identifier from the X-Session-ID header and
// stores it in the request context. Requests without a usable identifier are
// rejected with 401 Unauthorized.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			httputil.WriteAppError(w, r, apperrors.Unauthorized("X-Session-ID header is required"))
			return
		}
		if !validSessionID(id) {
			httputil.WriteAppError(w, r, apperrors.Unauthorized("X-Session-ID header is malformed"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
	})
}

// WithSessionID returns a copy of ctx carrying the session ID.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// validSessionID accepts ids that are safe to embed in storage keys.
func validSessionID(id string) bool {
	if len(id) > maxSessionIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
