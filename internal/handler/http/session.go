package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/softmatrices/forique-sub000/internal/domain"
	"github.com/softmatrices/forique-sub000/internal/service"
	"github.com/softmatrices/forique-sub000/pkg/httputil"
	"github.com/softmatrices/forique-sub000/pkg/middleware"
	"github.com/softmatrices/forique-sub000/pkg/validator"
)

// SessionHandler handles HTTP requests for the cart, wishlist and recently
// viewed endpoints of a session.
type SessionHandler struct {
	service *service.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(svc *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service: svc,
		logger:  logger,
	}
}

// GetSession handles GET /api/v1/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sessionView(session)})
}

// --- Cart ---

// GetCart handles GET /api/v1/session/cart
func (h *SessionHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.writeCart(w, r, session, err)
}

// AddItem handles POST /api/v1/session/cart/items
func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req service.AddItemInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	session, err := h.service.AddItem(r.Context(), middleware.SessionIDFromContext(r.Context()), req)
	h.writeCart(w, r, session, err)
}

// UpdateItemQuantity handles PUT /api/v1/session/cart/items/{productId}[/{variantKey}]
func (h *SessionHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateQuantityInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	session, err := h.service.UpdateItemQuantity(r.Context(),
		middleware.SessionIDFromContext(r.Context()),
		chi.URLParam(r, "productId"),
		chi.URLParam(r, "variantKey"),
		req.Quantity,
	)
	h.writeCart(w, r, session, err)
}

// RemoveItem handles DELETE /api/v1/session/cart/items/{productId}[/{variantKey}]
func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.RemoveItem(r.Context(),
		middleware.SessionIDFromContext(r.Context()),
		chi.URLParam(r, "productId"),
		chi.URLParam(r, "variantKey"),
	)
	h.writeCart(w, r, session, err)
}

// ClearCart handles DELETE /api/v1/session/cart
func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.ClearCart(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.writeCart(w, r, session, err)
}

// --- Wishlist ---

// GetWishlist handles GET /api/v1/session/wishlist
func (h *SessionHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.writeWishlist(w, r, session, err)
}

// AddToWishlist handles POST /api/v1/session/wishlist
func (h *SessionHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req service.WishlistInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	session, err := h.service.AddToWishlist(r.Context(), middleware.SessionIDFromContext(r.Context()), req)
	h.writeWishlist(w, r, session, err)
}

// ToggleWishlist handles POST /api/v1/session/wishlist/{productId}/toggle
func (h *SessionHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	session, saved, err := h.service.ToggleWishlist(r.Context(),
		middleware.SessionIDFromContext(r.Context()),
		chi.URLParam(r, "productId"),
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ToggleView{
		Saved:    saved,
		Wishlist: wishlistView(session),
	}})
}

// RemoveFromWishlist handles DELETE /api/v1/session/wishlist/{productId}
func (h *SessionHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.RemoveFromWishlist(r.Context(),
		middleware.SessionIDFromContext(r.Context()),
		chi.URLParam(r, "productId"),
	)
	h.writeWishlist(w, r, session, err)
}

// ClearWishlist handles DELETE /api/v1/session/wishlist
func (h *SessionHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.ClearWishlist(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.writeWishlist(w, r, session, err)
}

// MoveToCart handles POST /api/v1/session/wishlist/{productId}/move-to-cart.
// The body is optional.
func (h *SessionHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	var req service.MoveToCartInput
	if err := decodeOptional(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	session, err := h.service.MoveToCart(r.Context(),
		middleware.SessionIDFromContext(r.Context()),
		chi.URLParam(r, "productId"),
		req,
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sessionView(session)})
}

// --- Recently viewed ---

// GetRecentlyViewed handles GET /api/v1/session/recently-viewed
func (h *SessionHandler) GetRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.writeRecentlyViewed(w, r, session, err)
}

// RecordView handles POST /api/v1/session/recently-viewed
func (h *SessionHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	var req service.ViewInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	session, err := h.service.RecordView(r.Context(), middleware.SessionIDFromContext(r.Context()), req.ProductID)
	h.writeRecentlyViewed(w, r, session, err)
}

// ClearRecentlyViewed handles DELETE /api/v1/session/recently-viewed
func (h *SessionHandler) ClearRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.ClearRecentlyViewed(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.writeRecentlyViewed(w, r, session, err)
}

// --- Helpers ---

func (h *SessionHandler) writeCart(w http.ResponseWriter, r *http.Request, session *domain.Session, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartView(session)})
}

func (h *SessionHandler) writeWishlist(w http.ResponseWriter, r *http.Request, session *domain.Session, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlistView(session)})
}

func (h *SessionHandler) writeRecentlyViewed(w http.ResponseWriter, r *http.Request, session *domain.Session, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: recentlyViewedView(session)})
}

// decodeOptional behaves like validator.DecodeAndValidate but accepts an
// empty body.
func decodeOptional(r *http.Request, dst any) error {
	err := validator.DecodeAndValidate(r, dst)
	if errors.Is(err, validator.ErrEmptyBody) {
		return validator.Validate(dst)
	}
	return err
}
