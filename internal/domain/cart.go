package domain

// LineItem is one distinct (product, variant) entry held in a cart.
type LineItem struct {
	ProductID  string `json:"product_id"`
	VariantKey string `json:"variant_key"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	ImageRef   string `json:"image_ref,omitempty"`
}

// Subtotal returns UnitPrice * Quantity in minor currency units.
func (li LineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Cart is the per-session item store. Entries are unique by
// (ProductID, VariantKey) and keep their insertion order.
//
// A Cart is owned by exactly one session and is not safe for concurrent use;
// callers serialize access through the session repository.
type Cart struct {
	Items []LineItem `json:"items"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Items: []LineItem{}}
}

// AddItem merges item into the cart. An existing entry with the same key has
// its quantity increased by item.Quantity and its display fields refreshed;
// otherwise a new entry is appended. A quantity below 1 counts as 1.
func (c *Cart) AddItem(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	if i := c.FindItemIndex(item.ProductID, item.VariantKey); i >= 0 {
		existing := &c.Items[i]
		existing.Quantity += item.Quantity
		existing.Name = item.Name
		existing.UnitPrice = item.UnitPrice
		existing.ImageRef = item.ImageRef
		return
	}

	c.Items = append(c.Items, item)
}

// RemoveItem deletes the matching entry. Removing an absent key is a no-op.
func (c *Cart) RemoveItem(productID, variantKey string) {
	i := c.FindItemIndex(productID, variantKey)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// UpdateQuantity sets the quantity of the matching entry. A quantity of zero
// or less removes the entry. Absent keys are left alone.
func (c *Cart) UpdateQuantity(productID, variantKey string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID, variantKey)
		return
	}
	if i := c.FindItemIndex(productID, variantKey); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

// Total returns the sum of UnitPrice * Quantity over all entries (in minor units).
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount returns the sum of quantities, not the number of distinct entries.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

// IsEmpty reports whether the cart holds no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemIndex returns the index of the entry matching the given key, or -1.
func (c *Cart) FindItemIndex(productID, variantKey string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantKey == variantKey {
			return i
		}
	}
	return -1
}
