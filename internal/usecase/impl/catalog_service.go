package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "shoponline/internal/delivery/context"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// CatalogServiceParams holds the dependencies shared by the category, product and variant services.
type CatalogServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	VariantRepo  repository.VariantRepository
	ReviewRepo   repository.ReviewRepository
	Logger       *slog.Logger
}

type catalogService struct {
	txManager    repository.TransactionManager
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	reviewRepo   repository.ReviewRepository
	logger       *slog.Logger
}

func newCatalogService(params CatalogServiceParams) *catalogService {
	return &catalogService{
		txManager:    params.TxManager,
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		variantRepo:  params.VariantRepo,
		reviewRepo:   params.ReviewRepo,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Categories ---

type categoryService struct{ *catalogService }

// NewCategoryService is the constructor for the category usecase.
func NewCategoryService(params CatalogServiceParams) usecase.CategoryUsecase {
	return &categoryService{newCatalogService(params)}
}

func (srv *categoryService) List(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

func (srv *categoryService) Get(ctx context.Context, id uint) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrCategoryNotFound, "failed to find category")
	}

	return category, nil
}

func (srv *categoryService) Create(ctx context.Context, input *usecase.CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if err := srv.ensureName(ctx, name, 0); err != nil {
		return nil, err
	}

	category := &entity.Category{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}

	return category, nil
}

func (srv *categoryService) Update(ctx context.Context, id uint, input *usecase.CategoryInput) (*entity.Category, error) {
	category, err := srv.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := srv.ensureName(ctx, name, id); err != nil {
		return nil, err
	}
	category.Name = name
	category.Description = strings.TrimSpace(input.Description)

	if err := srv.categoryRepo.Update(ctx, category); err != nil {
		return nil, errors.Wrap(err, "failed to update category")
	}

	return category, nil
}

func (srv *categoryService) Delete(ctx context.Context, id uint) error {
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		categories := repos.NewCategoryRepository()
		if _, err := categories.FindByID(ctx, id); err != nil {
			return mapNotFound(err, domainerrors.ErrCategoryNotFound, "failed to find category")
		}

		count, err := repos.NewProductRepository().CountByCategory(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to count category products")
		}
		if count > 0 {
			return domainerrors.ErrCategoryInUse
		}

		return mapNotFound(categories.Delete(ctx, id), domainerrors.ErrCategoryNotFound, "failed to delete category")
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete category")
	}

	srv.log(ctx).Info("Category deleted", slog.Uint64("categoryID", uint64(id)))

	return nil
}

func (srv *categoryService) ensureName(ctx context.Context, name string, excludeID uint) error {
	if name == "" {
		return domainerrors.NewFieldError("name", "is required")
	}

	taken, err := srv.categoryRepo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return errors.Wrap(err, "failed to check category name")
	}
	if taken {
		return domainerrors.ErrCategoryNameTaken
	}

	return nil
}

// --- Products ---

type productService struct{ *catalogService }

// NewProductService is the constructor for the product usecase.
func NewProductService(params CatalogServiceParams) usecase.ProductUsecase {
	return &productService{newCatalogService(params)}
}

func (srv *productService) List(ctx context.Context, filter entity.ProductFilter, page entity.Pagination) (entity.Page[*entity.Product], error) {
	filter.Search = strings.TrimSpace(filter.Search)

	products, total, err := srv.productRepo.List(ctx, filter, page)
	if err != nil {
		return entity.Page[*entity.Product]{}, errors.Wrap(err, "failed to list products")
	}

	return entity.NewPage(products, total, page), nil
}

func (srv *productService) Get(ctx context.Context, id uint) (*usecase.ProductDetail, error) {
	product, err := srv.find(ctx, id)
	if err != nil {
		return nil, err
	}

	variants, err := srv.variantRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list variants")
	}

	stats, err := srv.reviewRepo.Stats(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load review stats")
	}

	return &usecase.ProductDetail{Product: product, Variants: variants, Reviews: stats}, nil
}

func (srv *productService) Create(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	if err := srv.validate(ctx, name, input, 0); err != nil {
		return nil, err
	}

	product := &entity.Product{
		CategoryID:    input.CategoryID,
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		Discount:      input.Discount,
		StockQuantity: input.StockQuantity,
	}
	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Uint64("productID", uint64(product.ID)))

	return product, nil
}

func (srv *productService) Update(ctx context.Context, id uint, input *usecase.ProductInput) (*entity.Product, error) {
	product, err := srv.find(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := srv.validate(ctx, name, input, id); err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.Discount = input.Discount
	product.StockQuantity = input.StockQuantity

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

// Delete removes an unreferenced product with its variants and reviews.
func (srv *productService) Delete(ctx context.Context, id uint) error {
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		products := repos.NewProductRepository()
		if _, err := products.FindByID(ctx, id); err != nil {
			return mapNotFound(err, domainerrors.ErrProductNotFound, "failed to find product")
		}

		referenced, err := products.IsReferenced(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to check product references")
		}
		if referenced {
			return domainerrors.ErrProductInUse
		}

		return products.Delete(ctx, id)
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Uint64("productID", uint64(id)))

	return nil
}

func (srv *productService) SetStock(ctx context.Context, id uint, quantity int) (*entity.Product, error) {
	if quantity < 0 {
		return nil, domainerrors.ErrNegativeStock
	}

	if err := srv.productRepo.SetStock(ctx, id, quantity); err != nil {
		return nil, mapNotFound(err, domainerrors.ErrProductNotFound, "failed to set product stock")
	}

	return srv.find(ctx, id)
}

func (srv *productService) find(ctx context.Context, id uint) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrProductNotFound, "failed to find product")
	}

	return product, nil
}

func (srv *productService) validate(ctx context.Context, name string, input *usecase.ProductInput, excludeID uint) error {
	problems := map[string]string{}
	if name == "" {
		problems["name"] = "is required"
	}
	if input.Price < 0 {
		problems["price"] = "must not be negative"
	}
	if input.Discount != nil && (*input.Discount < 0 || *input.Discount > 100) {
		problems["discount"] = "must be between 0 and 100"
	}
	if input.StockQuantity < 0 {
		problems["stockQuantity"] = "must not be negative"
	}
	if len(problems) > 0 {
		return domainerrors.NewValidationError(problems)
	}

	if input.CategoryID != nil {
		if _, err := srv.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return mapNotFound(err, domainerrors.ErrCategoryNotFound, "failed to find category")
		}
	}

	taken, err := srv.productRepo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return errors.Wrap(err, "failed to check product name")
	}
	if taken {
		return domainerrors.ErrProductNameTaken
	}

	return nil
}

// --- Variants ---

type variantService struct{ *catalogService }

// NewVariantService is the constructor for the variant usecase.
func NewVariantService(params CatalogServiceParams) usecase.VariantUsecase {
	return &variantService{newCatalogService(params)}
}

func (srv *variantService) ListByProduct(ctx context.Context, productID uint) ([]*entity.ProductVariant, error) {
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		return nil, mapNotFound(err, domainerrors.ErrProductNotFound, "failed to find product")
	}

	variants, err := srv.variantRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list variants")
	}

	return variants, nil
}

func (srv *variantService) Get(ctx context.Context, id uint) (*entity.ProductVariant, error) {
	variant, err := srv.variantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrVariantNotFound, "failed to find variant")
	}

	return variant, nil
}

func (srv *variantService) Create(ctx context.Context, productID uint, input *usecase.VariantInput) (*entity.ProductVariant, error) {
	if input.StockQuantity < 0 {
		return nil, domainerrors.ErrNegativeStock
	}
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		return nil, mapNotFound(err, domainerrors.ErrProductNotFound, "failed to find product")
	}

	variant := &entity.ProductVariant{
		ProductID:     productID,
		Size:          strings.TrimSpace(input.Size),
		Color:         strings.TrimSpace(input.Color),
		StockQuantity: input.StockQuantity,
	}
	if err := srv.variantRepo.Create(ctx, variant); err != nil {
		return nil, errors.Wrap(err, "failed to create variant")
	}

	return variant, nil
}

func (srv *variantService) Update(ctx context.Context, id uint, input *usecase.VariantInput) (*entity.ProductVariant, error) {
	if input.StockQuantity < 0 {
		return nil, domainerrors.ErrNegativeStock
	}

	variant, err := srv.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	variant.Size = strings.TrimSpace(input.Size)
	variant.Color = strings.TrimSpace(input.Color)
	variant.StockQuantity = input.StockQuantity

	if err := srv.variantRepo.Update(ctx, variant); err != nil {
		return nil, errors.Wrap(err, "failed to update variant")
	}

	return variant, nil
}

func (srv *variantService) Delete(ctx context.Context, id uint) error {
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		variants := repos.NewVariantRepository()
		if _, err := variants.FindByID(ctx, id); err != nil {
			return mapNotFound(err, domainerrors.ErrVariantNotFound, "failed to find variant")
		}

		referenced, err := variants.IsReferenced(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to check variant references")
		}
		if referenced {
			return domainerrors.ErrVariantInUse
		}

		return mapNotFound(variants.Delete(ctx, id), domainerrors.ErrVariantNotFound, "failed to delete variant")
	})

	return errors.Wrap(err, "failed to delete variant")
}

func (srv *variantService) SetStock(ctx context.Context, id uint, quantity int) (*entity.ProductVariant, error) {
	if quantity < 0 {
		return nil, domainerrors.ErrNegativeStock
	}

	if err := srv.variantRepo.SetStock(ctx, id, quantity); err != nil {
		return nil, mapNotFound(err, domainerrors.ErrVariantNotFound, "failed to set variant stock")
	}

	return srv.Get(ctx, id)
}
