package middleware

import (
	"net/http"
	"strconv"
)

// cacheHeaderWriter sets Cache-Control when the status is known, so error
// responses are never marked cacheable.
type cacheHeaderWriter struct {
	http.ResponseWriter
	value   string
	decided bool
}

func (cw *cacheHeaderWriter) WriteHeader(code int) {
	if !cw.decided {
		cw.decided = true
		if code >= http.StatusOK && code < http.StatusMultipleChoices {
			cw.Header().Set("Cache-Control", cw.value)
		} else {
			cw.Header().Set("Cache-Control", "no-store")
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cacheHeaderWriter) Write(b []byte) (int, error) {
	if !cw.decided {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *cacheHeaderWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// CacheControl marks successful GET and HEAD responses as publicly cacheable
// for maxAge seconds. Other responses get no-store.
func CacheControl(maxAge int) func(http.Handler) http.Handler {
	value := "public, max-age=" + strconv.Itoa(maxAge)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(&cacheHeaderWriter{ResponseWriter: w, value: value}, r)
		})
	}
}

// NoStore forbids any cache from keeping the response. Session data is
// per-visitor and must not be served from a shared cache.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
