package postgres

import (
	"context"
	"time"

	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// --- Categories ---

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository is the constructor for categoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (repo *categoryRepository) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	var categoryM model.CategoryModel
	if err := first(ctx, repo.db, &categoryM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find category")
	}

	return toCategoryDomain(&categoryM), nil
}

func (repo *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	var rows []model.CategoryModel
	if err := repo.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, toCategoryDomain(&rows[i]))
	}

	return categories, nil
}

func (repo *categoryRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	taken, err := exists(ctx, repo.db, &model.CategoryModel{}, "LOWER(name) = ? AND id <> ?", lower(name), excludeID)

	return taken, errors.Wrap(err, "failed to check category name")
}

func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryM := fromCategoryDomain(category)
	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCategoryNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}
	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt

	return nil
}

func (repo *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	if err := repo.db.WithContext(ctx).Save(fromCategoryDomain(category)).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCategoryNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update category")
	}

	return nil
}

func (repo *categoryRepository) Delete(ctx context.Context, id uint) error {
	if err := deleteByID(ctx, repo.db, &model.CategoryModel{}, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return err
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrCategoryInUse
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete category")
	}

	return nil
}

func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	return &entity.Category{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
	}
}

func fromCategoryDomain(data *entity.Category) *model.CategoryModel {
	return &model.CategoryModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
	}
}

// --- Products ---

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (repo *productRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	var productM model.ProductModel
	if err := first(ctx, repo.db, &productM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}

	return toProductDomain(&productM), nil
}

func (repo *productRepository) List(ctx context.Context, filter entity.ProductFilter, page entity.Pagination) ([]*entity.Product, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductModel{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + lower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStock {
		query = query.Where("stock_quantity > 0")
	}

	var rows []model.ProductModel
	total, err := findPage(query, page, "id", &rows)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(rows))
	for i := range rows {
		products = append(products, toProductDomain(&rows[i]))
	}

	return products, total, nil
}

func (repo *productRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	taken, err := exists(ctx, repo.db, &model.ProductModel{}, "LOWER(name) = ? AND id <> ?", lower(name), excludeID)

	return taken, errors.Wrap(err, "failed to check product name")
}

func (repo *productRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.ProductModel{}).Where("category_id = ?", categoryID).Count(&count).Error

	return count, errors.Wrap(err, "failed to count products by category")
}

func (repo *productRepository) IsReferenced(ctx context.Context, id uint) (bool, error) {
	inCart, err := exists(ctx, repo.db, &model.CartItemModel{}, "product_id = ?", id)
	if err != nil || inCart {
		return inCart, errors.Wrap(err, "failed to check cart references")
	}

	inOrder, err := exists(ctx, repo.db, &model.OrderItemModel{}, "product_id = ?", id)

	return inOrder, errors.Wrap(err, "failed to check order references")
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrProductNameTaken
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrNegativeStock
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}
	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	if err := repo.db.WithContext(ctx).Save(productM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrProductNameTaken
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrNegativeStock
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update product")
	}
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Delete removes the product together with its variants and reviews.
func (repo *productRepository) Delete(ctx context.Context, id uint) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("product_id = ?", id).Delete(&model.ProductVariantModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product variants")
	}
	if err := db.Where("product_id = ?", id).Delete(&model.ReviewModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product reviews")
	}

	if err := deleteByID(ctx, repo.db, &model.ProductModel{}, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return err
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductInUse
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product")
	}

	return nil
}

func (repo *productRepository) SetStock(ctx context.Context, id uint, quantity int) error {
	return setStock(ctx, repo.db, &model.ProductModel{}, id, quantity, true)
}

func (repo *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	return decrementStock(ctx, repo.db, &model.ProductModel{}, id, quantity, true)
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	return &entity.Product{
		ID:            data.ID,
		CategoryID:    data.CategoryID,
		Name:          data.Name,
		Description:   data.Description,
		Price:         data.Price,
		Discount:      data.Discount,
		StockQuantity: data.StockQuantity,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	return &model.ProductModel{
		ID:            data.ID,
		CategoryID:    data.CategoryID,
		Name:          data.Name,
		Description:   data.Description,
		Price:         data.Price,
		Discount:      data.Discount,
		StockQuantity: data.StockQuantity,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// --- Variants ---

type variantRepository struct {
	db *gorm.DB
}

// NewVariantRepository is the constructor for variantRepository.
func NewVariantRepository(db *gorm.DB) repository.VariantRepository {
	return &variantRepository{db: db}
}

func (repo *variantRepository) FindByID(ctx context.Context, id uint) (*entity.ProductVariant, error) {
	var variantM model.ProductVariantModel
	if err := first(ctx, repo.db, &variantM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find variant")
	}

	return toVariantDomain(&variantM), nil
}

func (repo *variantRepository) ListByProduct(ctx context.Context, productID uint) ([]*entity.ProductVariant, error) {
	var rows []model.ProductVariantModel
	if err := repo.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list variants")
	}

	variants := make([]*entity.ProductVariant, 0, len(rows))
	for i := range rows {
		variants = append(variants, toVariantDomain(&rows[i]))
	}

	return variants, nil
}

func (repo *variantRepository) IsReferenced(ctx context.Context, id uint) (bool, error) {
	inCart, err := exists(ctx, repo.db, &model.CartItemModel{}, "variant_id = ?", id)
	if err != nil || inCart {
		return inCart, errors.Wrap(err, "failed to check cart references")
	}

	inOrder, err := exists(ctx, repo.db, &model.OrderItemModel{}, "variant_id = ?", id)

	return inOrder, errors.Wrap(err, "failed to check order references")
}

func (repo *variantRepository) Create(ctx context.Context, variant *entity.ProductVariant) error {
	variantM := fromVariantDomain(variant)
	if err := repo.db.WithContext(ctx).Create(variantM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrNegativeStock
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create variant")
	}
	variant.ID = variantM.ID

	return nil
}

func (repo *variantRepository) Update(ctx context.Context, variant *entity.ProductVariant) error {
	if err := repo.db.WithContext(ctx).Save(fromVariantDomain(variant)).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrNegativeStock
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update variant")
	}

	return nil
}

func (repo *variantRepository) Delete(ctx context.Context, id uint) error {
	if err := deleteByID(ctx, repo.db, &model.ProductVariantModel{}, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return err
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrVariantInUse
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete variant")
	}

	return nil
}

func (repo *variantRepository) SetStock(ctx context.Context, id uint, quantity int) error {
	return setStock(ctx, repo.db, &model.ProductVariantModel{}, id, quantity, false)
}

func (repo *variantRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	return decrementStock(ctx, repo.db, &model.ProductVariantModel{}, id, quantity, false)
}

func toVariantDomain(data *model.ProductVariantModel) *entity.ProductVariant {
	return &entity.ProductVariant{
		ID:            data.ID,
		ProductID:     data.ProductID,
		Size:          data.Size,
		Color:         data.Color,
		StockQuantity: data.StockQuantity,
	}
}

func fromVariantDomain(data *entity.ProductVariant) *model.ProductVariantModel {
	return &model.ProductVariantModel{
		ID:            data.ID,
		ProductID:     data.ProductID,
		Size:          data.Size,
		Color:         data.Color,
		StockQuantity: data.StockQuantity,
	}
}

// --- Stock helpers ---

func setStock(ctx context.Context, db *gorm.DB, table any, id uint, quantity int, touch bool) error {
	if quantity < 0 {
		return domainerrors.ErrNegativeStock
	}

	values := map[string]any{"stock_quantity": quantity}
	if touch {
		values["updated_at"] = time.Now()
	}

	result := db.WithContext(ctx).Model(table).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set stock")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecordNotFound
	}

	return nil
}

// decrementStock subtracts in a single conditional UPDATE so concurrent
// orders can never drive the quantity below zero.
func decrementStock(ctx context.Context, db *gorm.DB, table any, id uint, quantity int, touch bool) error {
	values := map[string]any{"stock_quantity": gorm.Expr("stock_quantity - ?", quantity)}
	if touch {
		values["updated_at"] = time.Now()
	}

	result := db.WithContext(ctx).Model(table).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Updates(values)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement stock")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	found, err := exists(ctx, db, table, "id = ?", id)
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to decrement stock")
	}
	if !found {
		return repository.ErrRecordNotFound
	}

	return repository.ErrInsufficientStock
}
