package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/softmatrices/forique-sub000/internal/service"
	"github.com/softmatrices/forique-sub000/pkg/httputil"
	"github.com/softmatrices/forique-sub000/pkg/pagination"
)

// ListingHandler serves the filtered, sorted and paginated admin and seller
// listings.
type ListingHandler struct {
	service *service.ListingService
	logger  *slog.Logger
}

// NewListingHandler creates a new listing HTTP handler.
func NewListingHandler(svc *service.ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{service: svc, logger: logger}
}

// ListResources handles GET /api/v1/listings
func (h *ListingHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Resources()})
}

// Query handles GET /api/v1/listings/{resource}
func (h *ListingHandler) Query(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Query(r.Context(),
		chi.URLParam(r, "resource"),
		r.URL.Query(),
		pagination.FromRequest(r),
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// FacetCounts handles GET /api/v1/listings/{resource}/facets/{facet}
func (h *ListingHandler) FacetCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.FacetCounts(r.Context(),
		chi.URLParam(r, "resource"),
		chi.URLParam(r, "facet"),
		r.URL.Query(),
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: counts})
}
