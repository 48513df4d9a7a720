package domain

import "time"

// Session bundles the stores owned by one browser session. Nothing in it is
// durable: a session disappears once ExpiresAt passes.
type Session struct {
	ID             string          `json:"id"`
	Cart           *Cart           `json:"cart"`
	Wishlist       *Wishlist       `json:"wishlist"`
	RecentlyViewed *RecentlyViewed `json:"recently_viewed"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

// NewSession creates an empty session that expires after ttl.
func NewSession(id string, now time.Time, ttl time.Duration, recentLimit int) *Session {
	return &Session{
		ID:             id,
		Cart:           NewCart(),
		Wishlist:       NewWishlist(),
		RecentlyViewed: NewRecentlyViewed(recentLimit),
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}
}

// Touch records a mutation: it bumps UpdatedAt and slides the expiry window.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Normalize replaces nil stores (e.g. after decoding an older payload) with
// empty ones.
func (s *Session) Normalize(recentLimit int) {
	if s.Cart == nil {
		s.Cart = NewCart()
	}
	if s.Cart.Items == nil {
		s.Cart.Items = []LineItem{}
	}
	if s.Wishlist == nil {
		s.Wishlist = NewWishlist()
	}
	if s.Wishlist.Entries == nil {
		s.Wishlist.Entries = []WishlistEntry{}
	}
	if s.RecentlyViewed == nil {
		s.RecentlyViewed = NewRecentlyViewed(recentLimit)
	}
	if s.RecentlyViewed.Products == nil {
		s.RecentlyViewed.Products = []ViewedProduct{}
	}
}
