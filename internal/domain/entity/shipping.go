package entity

import "time"

// Shipping tracks delivery of an order.
type Shipping struct {
	ID              uint
	OrderID         uint // Unique: one shipping record per order.
	ShipperID       *uint
	ShippingAddress string
	ShippingDate    *time.Time
	DeliveryDate    *time.Time
	Status          ShippingStatus
}
