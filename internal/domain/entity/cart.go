package entity

import "time"

// Cart is the per-user shopping cart. It is created lazily on first access
// and never deleted, only emptied.
type Cart struct {
	ID        uint
	UserID    uint // Unique: one cart per user.
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is one cart line. A cart holds at most one line per (product, variant).
type CartItem struct {
	ID        uint
	CartID    uint
	ProductID uint
	VariantID *uint
	Quantity  int // Always > 0.
	CreatedAt time.Time
}

// SameLine reports whether the item targets the given product and variant.
func (i *CartItem) SameLine(productID uint, variantID *uint) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil || variantID == nil {
		return i.VariantID == nil && variantID == nil
	}

	return *i.VariantID == *variantID
}

// TotalQuantity sums the quantities of every line.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}

	return total
}
