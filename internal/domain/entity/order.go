package entity

import "time"

// Order is a placed order. Items are loaded separately by order id.
type Order struct {
	ID                uint
	UserID            uint
	OrderDate         time.Time
	TotalAmount       float64
	ShippingAddress   string
	PaymentStatus     PaymentStatus
	ShippingStatus    ShippingStatus
	AssignedShipperID *uint
	UpdatedAt         time.Time
}

// OrderItem is one order line with the price and names captured at order time.
type OrderItem struct {
	ID           uint
	OrderID      uint
	ProductID    uint
	VariantID    *uint
	Quantity     int
	PriceAtOrder float64
	ProductName  string
	VariantName  string
}

// Subtotal is quantity times the captured price.
func (i *OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.PriceAtOrder
}

// OrderFilter narrows order listings. A nil UserID lists every order.
type OrderFilter struct {
	UserID         *uint
	PaymentStatus  PaymentStatus
	ShippingStatus ShippingStatus
}
