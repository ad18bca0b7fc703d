package model

import "time"

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	UserID            uint      `gorm:"index;not null"`
	OrderDate         time.Time `gorm:"not null"`
	TotalAmount       float64   `gorm:"type:numeric(12,2);not null"`
	ShippingAddress   string    `gorm:"type:text;not null"`
	PaymentStatus     string    `gorm:"type:varchar(20);not null"`
	ShippingStatus    string    `gorm:"type:varchar(20);not null"`
	AssignedShipperID *uint     `gorm:"index"`
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table.
type OrderItemModel struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	OrderID      uint    `gorm:"index;not null"`
	ProductID    uint    `gorm:"index;not null"`
	VariantID    *uint   `gorm:"index"`
	Quantity     int     `gorm:"not null;check:quantity > 0"`
	PriceAtOrder float64 `gorm:"type:numeric(12,2);not null"`
	ProductName  string  `gorm:"type:varchar(200)"`
	VariantName  string  `gorm:"type:varchar(100)"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// PaymentModel mirrors the 'payments' table; one row per order.
type PaymentModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	OrderID     uint      `gorm:"uniqueIndex;not null"`
	Method      string    `gorm:"type:varchar(30);not null"`
	Amount      float64   `gorm:"type:numeric(12,2);not null"`
	PaymentDate time.Time `gorm:"not null"`
	Status      string    `gorm:"type:varchar(20);not null"`
}

// TableName explicitly sets the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}

// ShippingModel mirrors the 'shippings' table; one row per order.
type ShippingModel struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	OrderID         uint   `gorm:"uniqueIndex;not null"`
	ShipperID       *uint  `gorm:"index"`
	ShippingAddress string `gorm:"type:text"`
	ShippingDate    *time.Time
	DeliveryDate    *time.Time
	Status          string `gorm:"type:varchar(20);not null"`
}

// TableName explicitly sets the table name for GORM.
func (ShippingModel) TableName() string {
	return "shippings"
}
