package usecase

import (
	"context"

	"shoponline/internal/domain/entity"
)

// AddCartItemInput adds quantity of a product, optionally a specific variant.
type AddCartItemInput struct {
	ProductID uint
	VariantID *uint
	Quantity  int
}

// CartLine is a cart item priced at the current catalog price.
type CartLine struct {
	Item         entity.CartItem
	ProductName  string
	VariantLabel string
	UnitPrice    float64
	Subtotal     float64
}

// CartOutput is the caller's cart with priced lines.
type CartOutput struct {
	Cart          *entity.Cart
	Lines         []CartLine
	TotalQuantity int
	TotalAmount   float64
}

// CartUsecase manages the caller's own cart. The cart is created on first access.
type CartUsecase interface {
	Get(ctx context.Context, principal entity.Principal) (*CartOutput, error)

	// AddItem merges into an existing line for the same product and variant.
	AddItem(ctx context.Context, principal entity.Principal, input *AddCartItemInput) (*CartOutput, error)
	UpdateItem(ctx context.Context, principal entity.Principal, itemID uint, quantity int) (*CartOutput, error)
	RemoveItem(ctx context.Context, principal entity.Principal, itemID uint) (*CartOutput, error)
	Clear(ctx context.Context, principal entity.Principal) error
}
