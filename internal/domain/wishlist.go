package domain

// WishlistEntry is a product saved for later. Entries are unique by ProductID.
type WishlistEntry struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"original_price"`
	ImageRef      string `json:"image_ref,omitempty"`
}

// Wishlist holds a session's saved products in insertion order.
type Wishlist struct {
	Entries []WishlistEntry `json:"entries"`
}

// NewWishlist returns an empty wishlist.
func NewWishlist() *Wishlist {
	return &Wishlist{Entries: []WishlistEntry{}}
}

// Add inserts entry, or refreshes the display fields of an existing entry
// with the same ProductID. Adding twice leaves a single entry.
func (w *Wishlist) Add(entry WishlistEntry) {
	if i := w.indexOf(entry.ProductID); i >= 0 {
		w.Entries[i] = entry
		return
	}
	w.Entries = append(w.Entries, entry)
}

// Remove deletes the entry for productID. Absent ids are a no-op.
func (w *Wishlist) Remove(productID string) {
	i := w.indexOf(productID)
	if i < 0 {
		return
	}
	w.Entries = append(w.Entries[:i], w.Entries[i+1:]...)
}

// Toggle removes the entry when present and adds it otherwise.
// It reports whether the product is in the wishlist afterwards.
func (w *Wishlist) Toggle(entry WishlistEntry) bool {
	if w.Contains(entry.ProductID) {
		w.Remove(entry.ProductID)
		return false
	}
	w.Add(entry)
	return true
}

// Get returns the entry for productID.
func (w *Wishlist) Get(productID string) (WishlistEntry, bool) {
	i := w.indexOf(productID)
	if i < 0 {
		return WishlistEntry{}, false
	}
	return w.Entries[i], true
}

// Contains reports whether productID is saved.
func (w *Wishlist) Contains(productID string) bool {
	return w.indexOf(productID) >= 0
}

// Count returns the number of saved products.
func (w *Wishlist) Count() int {
	return len(w.Entries)
}

// Savings returns the sum of markdowns (OriginalPrice - Price) over entries
// that are actually discounted.
func (w *Wishlist) Savings() int64 {
	var total int64
	for _, e := range w.Entries {
		if d := e.OriginalPrice - e.Price; d > 0 {
			total += d
		}
	}
	return total
}

// Clear empties the wishlist.
func (w *Wishlist) Clear() {
	w.Entries = []WishlistEntry{}
}

func (w *Wishlist) indexOf(productID string) int {
	for i := range w.Entries {
		if w.Entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}
