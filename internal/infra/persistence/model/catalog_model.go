package model

import "time"

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel mirrors the 'products' table.
type ProductModel struct {
	ID            uint     `gorm:"primaryKey;autoIncrement"`
	CategoryID    *uint    `gorm:"index"`
	Name          string   `gorm:"type:varchar(200);not null"`
	Description   string   `gorm:"type:text"`
	Price         float64  `gorm:"type:numeric(12,2);not null"`
	Discount      *float64 `gorm:"type:numeric(5,2)"`
	StockQuantity int      `gorm:"not null;default:0;check:stock_quantity >= 0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// ProductVariantModel mirrors the 'product_variants' table.
type ProductVariantModel struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	ProductID     uint   `gorm:"index;not null"`
	Size          string `gorm:"type:varchar(50)"`
	Color         string `gorm:"type:varchar(50)"`
	StockQuantity int    `gorm:"not null;default:0;check:stock_quantity >= 0"`
}

// TableName explicitly sets the table name for GORM.
func (ProductVariantModel) TableName() string {
	return "product_variants"
}
