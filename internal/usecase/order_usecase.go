package usecase

import (
	"context"
	"time"

	"shoponline/internal/domain/entity"
)

// PlaceOrderInput turns the caller's cart into an order.
type PlaceOrderInput struct {
	ShippingAddress string
}

// UpdateOrderInput changes the status fields of an order; empty values are left untouched.
type UpdateOrderInput struct {
	PaymentStatus     entity.PaymentStatus
	ShippingStatus    entity.ShippingStatus
	ShippingAddress   string
	AssignedShipperID *uint
}

// AddOrderItemInput appends a line to an existing order.
type AddOrderItemInput struct {
	ProductID uint
	VariantID *uint
	Quantity  int
}

// OrderOutput is an order with its lines.
type OrderOutput struct {
	Order *entity.Order
	Items []*entity.OrderItem
}

// CreatePaymentInput records the payment of an order.
type CreatePaymentInput struct {
	OrderID uint
	Method  entity.PaymentMethod
	Amount  *float64
	Status  entity.PaymentStatus
}

// CreateShippingInput opens the shipping record of an order.
type CreateShippingInput struct {
	OrderID         uint
	ShipperID       *uint
	ShippingAddress string
	ShippingDate    *time.Time
}

// OrderUsecase places and manages orders.
type OrderUsecase interface {
	// Place decrements stock, snapshots prices and empties the cart in one transaction.
	Place(ctx context.Context, principal entity.Principal, input *PlaceOrderInput) (*OrderOutput, error)

	// List shows every order to holders of orders.view and only their own to everyone else.
	List(ctx context.Context, principal entity.Principal, filter entity.OrderFilter, page entity.Pagination) (entity.Page[*entity.Order], error)
	Get(ctx context.Context, principal entity.Principal, id uint) (*OrderOutput, error)
	Update(ctx context.Context, id uint, input *UpdateOrderInput) (*entity.Order, error)
	ListItems(ctx context.Context, principal entity.Principal, orderID uint) ([]*entity.OrderItem, error)
	AddItem(ctx context.Context, orderID uint, input *AddOrderItemInput) (*OrderOutput, error)
}

// PaymentUsecase records and tracks payments.
type PaymentUsecase interface {
	Create(ctx context.Context, principal entity.Principal, input *CreatePaymentInput) (*entity.Payment, error)
	Get(ctx context.Context, principal entity.Principal, id uint) (*entity.Payment, error)
	GetByOrder(ctx context.Context, principal entity.Principal, orderID uint) (*entity.Payment, error)
	List(ctx context.Context, status entity.PaymentStatus, page entity.Pagination) (entity.Page[*entity.Payment], error)

	// Mine pages the payments of the caller's own orders.
	Mine(ctx context.Context, principal entity.Principal, page entity.Pagination) (entity.Page[*entity.Payment], error)
	Stats(ctx context.Context) (*entity.PaymentStats, error)
	UpdateStatus(ctx context.Context, id uint, status entity.PaymentStatus) (*entity.Payment, error)
}

// ShippingUsecase tracks deliveries.
type ShippingUsecase interface {
	Create(ctx context.Context, input *CreateShippingInput) (*entity.Shipping, error)
	Get(ctx context.Context, principal entity.Principal, id uint) (*entity.Shipping, error)
	List(ctx context.Context, page entity.Pagination) (entity.Page[*entity.Shipping], error)

	// Mine lists shipments assigned to a shipper, or the shipments of a customer's orders.
	Mine(ctx context.Context, principal entity.Principal) ([]*entity.Shipping, error)
	UpdateStatus(ctx context.Context, principal entity.Principal, id uint, status entity.ShippingStatus) (*entity.Shipping, error)
	AssignShipper(ctx context.Context, id, shipperID uint) (*entity.Shipping, error)
}
