package entity

import "time"

// Payment records the single payment of an order.
type Payment struct {
	ID          uint
	OrderID     uint // Unique: one payment per order.
	Method      PaymentMethod
	Amount      float64
	PaymentDate time.Time
	Status      PaymentStatus
}

// PaymentBucket totals the payments sharing one status or method.
type PaymentBucket struct {
	Key    string
	Count  int64
	Amount float64
}

// PaymentStats summarises every recorded payment.
type PaymentStats struct {
	TotalPayments int64
	TotalAmount   float64
	ByStatus      []PaymentBucket
	ByMethod      []PaymentBucket
}
