package model

import "time"

// ReviewModel mirrors the 'reviews' table.
type ReviewModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    uint   `gorm:"uniqueIndex:idx_reviews_user_product;not null"`
	ProductID uint   `gorm:"uniqueIndex:idx_reviews_user_product;index;not null"`
	Rating    int    `gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string `gorm:"type:text"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}

// ComplaintModel mirrors the 'complaints' table.
type ComplaintModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	UserID      uint   `gorm:"index;not null"`
	OrderID     *uint  `gorm:"index"`
	Description string `gorm:"type:text;not null"`
	Status      string `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ComplaintModel) TableName() string {
	return "complaints"
}
