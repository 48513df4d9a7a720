package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/softmatrices/forique-sub000/internal/service"
	"github.com/softmatrices/forique-sub000/pkg/health"
	"github.com/softmatrices/forique-sub000/pkg/middleware"
)

// listingCacheMaxAge is the Cache-Control max-age, in seconds, of the
// fixture-backed listing and dashboard responses.
const listingCacheMaxAge = 60

// Services groups the application services exposed over HTTP.
type Services struct {
	Session   *service.SessionService
	Listing   *service.ListingService
	Dashboard *service.DashboardService
}

// RouterOptions carries the transport settings of the router.
type RouterOptions struct {
	CORS           middleware.CORSConfig
	RateLimitRPS   float64
	RateLimitBurst int
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all storefront routes registered. ctx
// bounds background work started by the middleware chain.
func NewRouter(
	ctx context.Context,
	services Services,
	healthHandler *health.Handler,
	logger *slog.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(opts.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, opts.PprofCIDRs, logger)

	sessionHandler := NewSessionHandler(services.Session, logger)
	listingHandler := NewListingHandler(services.Listing, logger)
	dashboardHandler := NewDashboardHandler(services.Dashboard, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, opts.RateLimitRPS, opts.RateLimitBurst, logger))
		r.Use(ContentTypeJSON)

		r.Route("/session", func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Use(middleware.NoStore)

			r.Get("/", sessionHandler.GetSession)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", sessionHandler.GetCart)
				r.Delete("/", sessionHandler.ClearCart)

				r.Post("/items", sessionHandler.AddItem)
				r.Put("/items/{productId}", sessionHandler.UpdateItemQuantity)
				r.Delete("/items/{productId}", sessionHandler.RemoveItem)
				r.Put("/items/{productId}/{variantKey}", sessionHandler.UpdateItemQuantity)
				r.Delete("/items/{productId}/{variantKey}", sessionHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", sessionHandler.GetWishlist)
				r.Post("/", sessionHandler.AddToWishlist)
				r.Delete("/", sessionHandler.ClearWishlist)

				r.Delete("/{productId}", sessionHandler.RemoveFromWishlist)
				r.Post("/{productId}/toggle", sessionHandler.ToggleWishlist)
				r.Post("/{productId}/move-to-cart", sessionHandler.MoveToCart)
			})

			r.Route("/recently-viewed", func(r chi.Router) {
				r.Get("/", sessionHandler.GetRecentlyViewed)
				r.Post("/", sessionHandler.RecordView)
				r.Delete("/", sessionHandler.ClearRecentlyViewed)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(listingCacheMaxAge))

			r.Get("/listings", listingHandler.ListResources)
			r.Get("/listings/{resource}", listingHandler.Query)
			r.Get("/listings/{resource}/facets/{facet}", listingHandler.FacetCounts)

			r.Get("/dashboard/admin", dashboardHandler.Admin)
			r.Get("/dashboard/sellers/{sellerId}", dashboardHandler.Seller)
		})
	})

	return r
}
