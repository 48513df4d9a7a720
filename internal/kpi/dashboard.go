package kpi

import "github.com/softmatrices/forique-sub000/internal/catalog"

// DefaultLowStockThreshold is the stock level at or below which an active
// listing is flagged.
const DefaultLowStockThreshold = 5

// AdminOverview holds the tiles of the admin portal dashboard. Amounts are in
// minor currency units.
type AdminOverview struct {
	GMV                 int64   `json:"gmv"`
	Orders              int     `json:"orders"`
	AverageOrderValue   int64   `json:"average_order_value"`
	OrderDefectRate     float64 `json:"order_defect_rate"`
	ActiveSellers       int     `json:"active_sellers"`
	PendingApplications int     `json:"pending_applications"`
	OpenDisputes        int     `json:"open_disputes"`
	Customers           int     `json:"customers"`
	ActiveCustomers     int     `json:"active_customers"`
}

// SellerOverview holds the tiles of one seller's dashboard.
type SellerOverview struct {
	SellerID          string  `json:"seller_id"`
	StoreName         string  `json:"store_name"`
	Revenue           int64   `json:"revenue"`
	Orders            int     `json:"orders"`
	AverageOrderValue int64   `json:"average_order_value"`
	ActiveListings    int     `json:"active_listings"`
	LowStockListings  int     `json:"low_stock_listings"`
	AverageRating     float64 `json:"average_rating"`
	OpenDisputes      int     `json:"open_disputes"`
}

// CountsTowardsGMV reports whether an order's value was actually transacted.
func CountsTowardsGMV(o catalog.Order) bool {
	return o.Status != catalog.OrderCancelled && o.Status != catalog.OrderRefunded
}

// IsOpenDispute reports whether a dispute still needs attention.
func IsOpenDispute(d catalog.Dispute) bool {
	return d.Status != catalog.DisputeResolved
}

// Admin computes the admin dashboard over c. An order is defective when it
// was refunded or has a dispute raised against it.
func Admin(c *catalog.Catalog) AdminOverview {
	disputed := make(map[string]struct{}, len(c.Disputes))
	for _, d := range c.Disputes {
		disputed[d.OrderID] = struct{}{}
	}

	orderTotal := func(o catalog.Order) int64 { return o.Total }
	gmv := Sum(c.Orders, orderTotal, CountsTowardsGMV)
	transacted := Count(c.Orders, CountsTowardsGMV)
	defective := Count(c.Orders, func(o catalog.Order) bool {
		_, ok := disputed[o.ID]
		return ok || o.Status == catalog.OrderRefunded
	})

	return AdminOverview{
		GMV:               gmv,
		Orders:            len(c.Orders),
		AverageOrderValue: AverageAmount(gmv, transacted),
		OrderDefectRate:   Percent(defective, len(c.Orders)),
		ActiveSellers: Count(c.Sellers, func(s catalog.Seller) bool {
			return s.Status == catalog.StatusActive
		}),
		PendingApplications: Count(c.Applications, func(a catalog.Application) bool {
			return a.Status == catalog.StatusPending
		}),
		OpenDisputes: Count(c.Disputes, IsOpenDispute),
		Customers:    len(c.Customers),
		ActiveCustomers: Count(c.Customers, func(cu catalog.Customer) bool {
			return cu.Status == catalog.StatusActive
		}),
	}
}

// Seller computes the dashboard of seller sellerID over c. Listings at or
// below lowStock units count as low stock; a non-positive threshold uses
// DefaultLowStockThreshold.
func Seller(c *catalog.Catalog, seller catalog.Seller, lowStock int) SellerOverview {
	if lowStock <= 0 {
		lowStock = DefaultLowStockThreshold
	}

	ownOrder := func(o catalog.Order) bool { return o.SellerID == seller.ID }
	ownProduct := func(p catalog.Product) bool { return p.SellerID == seller.ID }
	activeProduct := func(p catalog.Product) bool { return ownProduct(p) && p.Status == catalog.StatusActive }

	revenue := Sum(c.Orders, func(o catalog.Order) int64 { return o.Total }, func(o catalog.Order) bool {
		return ownOrder(o) && CountsTowardsGMV(o)
	})
	transacted := Count(c.Orders, func(o catalog.Order) bool { return ownOrder(o) && CountsTowardsGMV(o) })

	return SellerOverview{
		SellerID:          seller.ID,
		StoreName:         seller.StoreName,
		Revenue:           revenue,
		Orders:            Count(c.Orders, ownOrder),
		AverageOrderValue: AverageAmount(revenue, transacted),
		ActiveListings:    Count(c.Products, activeProduct),
		LowStockListings: Count(c.Products, func(p catalog.Product) bool {
			return activeProduct(p) && p.Stock <= lowStock
		}),
		AverageRating: Mean(c.Products, func(p catalog.Product) float64 { return p.Rating }, func(p catalog.Product) bool {
			return ownProduct(p) && p.Reviews > 0
		}),
		OpenDisputes: Count(c.Disputes, func(d catalog.Dispute) bool {
			return d.SellerID == seller.ID && IsOpenDispute(d)
		}),
	}
}
