package usecase

import (
	"context"

	"shoponline/internal/domain/entity"
)

// CategoryInput carries the editable fields of a category.
type CategoryInput struct {
	Name        string
	Description string
}

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	CategoryID    *uint
	Name          string
	Description   string
	Price         float64
	Discount      *float64
	StockQuantity int
}

// VariantInput carries the editable fields of a product variant.
type VariantInput struct {
	Size          string
	Color         string
	StockQuantity int
}

// ProductDetail is a product with its variants and rating summary.
type ProductDetail struct {
	Product  *entity.Product
	Variants []*entity.ProductVariant
	Reviews  *entity.ReviewStats
}

// CategoryUsecase manages categories.
type CategoryUsecase interface {
	List(ctx context.Context) ([]*entity.Category, error)
	Get(ctx context.Context, id uint) (*entity.Category, error)
	Create(ctx context.Context, input *CategoryInput) (*entity.Category, error)
	Update(ctx context.Context, id uint, input *CategoryInput) (*entity.Category, error)

	// Delete fails with Conflict while any product references the category.
	Delete(ctx context.Context, id uint) error
}

// ProductUsecase manages products and their stock.
type ProductUsecase interface {
	List(ctx context.Context, filter entity.ProductFilter, page entity.Pagination) (entity.Page[*entity.Product], error)
	Get(ctx context.Context, id uint) (*ProductDetail, error)
	Create(ctx context.Context, input *ProductInput) (*entity.Product, error)
	Update(ctx context.Context, id uint, input *ProductInput) (*entity.Product, error)
	Delete(ctx context.Context, id uint) error
	SetStock(ctx context.Context, id uint, quantity int) (*entity.Product, error)
}

// VariantUsecase manages product variants and their stock.
type VariantUsecase interface {
	ListByProduct(ctx context.Context, productID uint) ([]*entity.ProductVariant, error)
	Get(ctx context.Context, id uint) (*entity.ProductVariant, error)
	Create(ctx context.Context, productID uint, input *VariantInput) (*entity.ProductVariant, error)
	Update(ctx context.Context, id uint, input *VariantInput) (*entity.ProductVariant, error)

	// Delete fails with Conflict while any cart or order line references the variant.
	Delete(ctx context.Context, id uint) error
	SetStock(ctx context.Context, id uint, quantity int) (*entity.ProductVariant, error)
}
