package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/softmatrices/forique-sub000/internal/service"
	"github.com/softmatrices/forique-sub000/pkg/httputil"
)

// DashboardHandler serves the KPI tiles of the admin and seller portals.
type DashboardHandler struct {
	service *service.DashboardService
	logger  *slog.Logger
}

// NewDashboardHandler creates a new dashboard HTTP handler.
func NewDashboardHandler(svc *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{service: svc, logger: logger}
}

// Admin handles GET /api/v1/dashboard/admin
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Admin(r.Context())})
}

// Seller handles GET /api/v1/dashboard/sellers/{sellerId}
func (h *DashboardHandler) Seller(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Seller(r.Context(), chi.URLParam(r, "sellerId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: overview})
}
