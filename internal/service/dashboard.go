package service

import (
	"context"

	"github.com/softmatrices/forique-sub000/internal/catalog"
	"github.com/softmatrices/forique-sub000/internal/kpi"
	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
)

// DashboardService computes the admin and seller dashboard tiles.
type DashboardService struct {
	catalog  *catalog.Catalog
	lowStock int
}

// NewDashboardService creates a dashboard service over c. Listings at or below
// lowStock units are reported as low stock.
func NewDashboardService(c *catalog.Catalog, lowStock int) *DashboardService {
	return &DashboardService{catalog: c, lowStock: lowStock}
}

// Admin returns the admin portal overview.
func (s *DashboardService) Admin(_ context.Context) kpi.AdminOverview {
	return kpi.Admin(s.catalog)
}

// Seller returns the overview of one seller.
func (s *DashboardService) Seller(_ context.Context, sellerID string) (kpi.SellerOverview, error) {
	seller, ok := s.catalog.SellerByID(sellerID)
	if !ok {
		return kpi.SellerOverview{}, apperrors.NotFound("seller", sellerID)
	}
	return kpi.Seller(s.catalog, seller, s.lowStock), nil
}
