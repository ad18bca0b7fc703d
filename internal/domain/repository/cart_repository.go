package repository

import (
	"context"

	"shoponline/internal/domain/entity"
)

// CartRepository persists carts and their lines.
type CartRepository interface {
	// FindByUserID loads the user's cart with its items.
	FindByUserID(ctx context.Context, userID uint) (*entity.Cart, error)
	Create(ctx context.Context, cart *entity.Cart) error

	// FindLine returns the line for (product, variant) in the cart; a nil variant matches only variant-less lines.
	FindLine(ctx context.Context, cartID, productID uint, variantID *uint) (*entity.CartItem, error)
	FindItemByID(ctx context.Context, itemID uint) (*entity.CartItem, error)
	CreateItem(ctx context.Context, item *entity.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	DeleteItem(ctx context.Context, itemID uint) error
	ClearItems(ctx context.Context, cartID uint) error
}
