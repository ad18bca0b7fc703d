package model

import "time"

// CartModel mirrors the 'carts' table; one row per user.
type CartModel struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	UserID    uint            `gorm:"uniqueIndex;not null"`
	Items     []CartItemModel `gorm:"foreignKey:CartID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel mirrors the 'cart_items' table.
type CartItemModel struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"`
	CartID    uint  `gorm:"index;not null"`
	ProductID uint  `gorm:"index;not null"`
	VariantID *uint `gorm:"index"`
	Quantity  int   `gorm:"not null;check:quantity > 0"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
