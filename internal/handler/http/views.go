package http

import "github.com/softmatrices/forique-sub000/internal/domain"

// CartView is the cart as rendered to clients, with its derived totals.
type CartView struct {
	Items     []domain.LineItem `json:"items"`
	Total     int64             `json:"total"`
	ItemCount int               `json:"item_count"`
	Version   int               `json:"version"`
}

// WishlistView is the wishlist as rendered to clients.
type WishlistView struct {
	Entries []domain.WishlistEntry `json:"entries"`
	Count   int                    `json:"count"`
	Savings int64                  `json:"savings"`
}

// ToggleView reports the outcome of a wishlist toggle.
type ToggleView struct {
	Saved    bool         `json:"saved"`
	Wishlist WishlistView `json:"wishlist"`
}

// RecentlyViewedView lists recently viewed products, most recent first.
type RecentlyViewedView struct {
	Products []domain.ViewedProduct `json:"products"`
}

// SessionView combines every store of a session.
type SessionView struct {
	ID             string             `json:"id"`
	Cart           CartView           `json:"cart"`
	Wishlist       WishlistView       `json:"wishlist"`
	RecentlyViewed RecentlyViewedView `json:"recently_viewed"`
}

func cartView(s *domain.Session) CartView {
	return CartView{
		Items:     s.Cart.Items,
		Total:     s.Cart.Total(),
		ItemCount: s.Cart.ItemCount(),
		Version:   s.Version,
	}
}

func wishlistView(s *domain.Session) WishlistView {
	return WishlistView{
		Entries: s.Wishlist.Entries,
		Count:   s.Wishlist.Count(),
		Savings: s.Wishlist.Savings(),
	}
}

func recentlyViewedView(s *domain.Session) RecentlyViewedView {
	return RecentlyViewedView{Products: s.RecentlyViewed.Products}
}

func sessionView(s *domain.Session) SessionView {
	return SessionView{
		ID:             s.ID,
		Cart:           cartView(s),
		Wishlist:       wishlistView(s),
		RecentlyViewed: recentlyViewedView(s),
	}
}
