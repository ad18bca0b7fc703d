package model

import "time"

// UserModel mirrors the 'users' table. Rows are never deleted; is_active=false marks a soft delete.
type UserModel struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	Username     string  `gorm:"type:varchar(50);not null"`
	PasswordHash string  `gorm:"type:varchar(255);not null"`
	Email        *string `gorm:"type:varchar(255)"`
	Phone        *string `gorm:"type:varchar(20)"`
	RoleID       *uint   `gorm:"index"`
	IsActive     bool    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// RoleModel mirrors the 'roles' table.
type RoleModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(50);not null"`
	Description string `gorm:"type:varchar(255)"`
}

// TableName explicitly sets the table name for GORM.
func (RoleModel) TableName() string {
	return "roles"
}
