package entity

import (
	"strings"
	"time"
)

// Category groups products. A category cannot be deleted while products reference it.
type Category struct {
	ID          uint
	Name        string // Unique, compared case-insensitively.
	Description string
	CreatedAt   time.Time
}

// Product is a sellable item holding its own stock.
type Product struct {
	ID            uint
	CategoryID    *uint
	Name          string
	Description   string
	Price         float64
	Discount      *float64
	StockQuantity int // Never negative.
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectivePrice applies the discount percentage, if any.
func (p *Product) EffectivePrice() float64 {
	if p.Discount == nil || *p.Discount <= 0 {
		return p.Price
	}

	return p.Price * (100 - *p.Discount) / 100
}

// ProductVariant is a size/colour option of a product holding its own stock.
type ProductVariant struct {
	ID            uint
	ProductID     uint
	Size          string
	Color         string
	StockQuantity int // Never negative.
}

// Label renders the variant as "Size / Color", skipping empty parts.
func (v *ProductVariant) Label() string {
	parts := make([]string, 0, 2)
	if v.Size != "" {
		parts = append(parts, v.Size)
	}
	if v.Color != "" {
		parts = append(parts, v.Color)
	}

	return strings.Join(parts, " / ")
}

// Available reports whether the variant has any stock left.
func (v *ProductVariant) Available() bool {
	return v.StockQuantity > 0
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID *uint
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	InStock    bool
}
