package http

import (
	"mime"
	"net/http"

	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
	"github.com/softmatrices/forique-sub000/pkg/httputil"
)

const jsonMediaType = "application/json"

// ContentTypeJSON rejects session writes whose declared body type is not JSON.
// A missing Content-Type is accepted; parameters such as charset are ignored.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasBody(r) {
			if ct := r.Header.Get("Content-Type"); ct != "" {
				mediaType, _, err := mime.ParseMediaType(ct)
				if err != nil || mediaType != jsonMediaType {
					httputil.WriteAppError(w, r,
						apperrors.UnsupportedMediaType("Content-Type must be "+jsonMediaType))
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return r.ContentLength > 0
}
