package repository

import (
	"context"

	"shoponline/internal/domain/entity"
)

// OrderRepository persists orders and order lines.
type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Order, error)
	List(ctx context.Context, filter entity.OrderFilter, page entity.Pagination) ([]*entity.Order, int64, error)
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error

	ListItems(ctx context.Context, orderID uint) ([]*entity.OrderItem, error)
	CreateItem(ctx context.Context, item *entity.OrderItem) error
}

// PaymentRepository persists payments.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Payment, error)
	FindByOrderID(ctx context.Context, orderID uint) (*entity.Payment, error)
	List(ctx context.Context, status entity.PaymentStatus, page entity.Pagination) ([]*entity.Payment, int64, error)

	// ListByCustomer pages the payments of orders owned by the user.
	ListByCustomer(ctx context.Context, userID uint, page entity.Pagination) ([]*entity.Payment, int64, error)
	Stats(ctx context.Context) (*entity.PaymentStats, error)
	Create(ctx context.Context, payment *entity.Payment) error
	Update(ctx context.Context, payment *entity.Payment) error
}

// ShippingRepository persists shipping records.
type ShippingRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Shipping, error)
	FindByOrderID(ctx context.Context, orderID uint) (*entity.Shipping, error)
	List(ctx context.Context, page entity.Pagination) ([]*entity.Shipping, int64, error)
	ListByShipper(ctx context.Context, shipperID uint) ([]*entity.Shipping, error)

	// ListByCustomer returns the shipping records of orders owned by the user.
	ListByCustomer(ctx context.Context, userID uint) ([]*entity.Shipping, error)

	Create(ctx context.Context, shipping *entity.Shipping) error
	Update(ctx context.Context, shipping *entity.Shipping) error
}
