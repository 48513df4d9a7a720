package domain

import "time"

// DefaultRecentlyViewedLimit is used when a non-positive limit is configured.
const DefaultRecentlyViewedLimit = 12

// ViewedProduct is a product the session looked at.
type ViewedProduct struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	ImageRef  string    `json:"image_ref,omitempty"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// RecentlyViewed is a bounded most-recent-first list of products.
type RecentlyViewed struct {
	Limit    int             `json:"limit"`
	Products []ViewedProduct `json:"products"`
}

// NewRecentlyViewed returns an empty list holding at most limit products.
func NewRecentlyViewed(limit int) *RecentlyViewed {
	if limit <= 0 {
		limit = DefaultRecentlyViewedLimit
	}
	return &RecentlyViewed{Limit: limit, Products: []ViewedProduct{}}
}

// Push puts p at the front. A product already in the list is moved rather
// than duplicated, and the oldest entries fall off past the limit.
func (r *RecentlyViewed) Push(p ViewedProduct) {
	if r.Limit <= 0 {
		r.Limit = DefaultRecentlyViewedLimit
	}

	products := make([]ViewedProduct, 0, len(r.Products)+1)
	products = append(products, p)
	for _, existing := range r.Products {
		if existing.ProductID == p.ProductID {
			continue
		}
		products = append(products, existing)
	}
	if len(products) > r.Limit {
		products = products[:r.Limit]
	}
	r.Products = products
}

// Clear empties the list.
func (r *RecentlyViewed) Clear() {
	r.Products = []ViewedProduct{}
}
