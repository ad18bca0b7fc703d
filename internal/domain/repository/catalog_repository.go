package repository

import (
	"context"

	"shoponline/internal/domain/entity"
)

// CategoryRepository persists categories.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uint) error
}

// ProductRepository persists products and their stock.
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Product, error)
	List(ctx context.Context, filter entity.ProductFilter, page entity.Pagination) ([]*entity.Product, int64, error)
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)

	// IsReferenced reports whether any cart or order line points at the product.
	IsReferenced(ctx context.Context, id uint) (bool, error)

	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uint) error

	// SetStock overwrites the stock quantity; callers reject negatives first.
	SetStock(ctx context.Context, id uint, quantity int) error

	// DecrementStock subtracts quantity only if enough stock remains, else ErrInsufficientStock.
	DecrementStock(ctx context.Context, id uint, quantity int) error
}

// VariantRepository persists product variants and their stock.
type VariantRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.ProductVariant, error)
	ListByProduct(ctx context.Context, productID uint) ([]*entity.ProductVariant, error)

	// IsReferenced reports whether any cart or order line points at the variant.
	IsReferenced(ctx context.Context, id uint) (bool, error)

	Create(ctx context.Context, variant *entity.ProductVariant) error
	Update(ctx context.Context, variant *entity.ProductVariant) error
	Delete(ctx context.Context, id uint) error
	SetStock(ctx context.Context, id uint, quantity int) error
	DecrementStock(ctx context.Context, id uint, quantity int) error
}
