package impl

import (
	"context"
	"testing"

	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/infra/persistence/postgres"
	"shoponline/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_NamesAreUnique(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.categories.Create(ctx, &usecase.CategoryInput{Name: "Books"})
	require.NoError(t, err)

	_, err = env.categories.Create(ctx, &usecase.CategoryInput{Name: "books"})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNameTaken)

	_, err = env.categories.Create(ctx, &usecase.CategoryInput{Name: "  "})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCategoryService_DeleteRefusedWhileReferenced(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	books, err := env.categories.Create(ctx, &usecase.CategoryInput{Name: "Books"})
	require.NoError(t, err)
	novel, err := env.products.Create(ctx, &usecase.ProductInput{CategoryID: &books.ID, Name: "Novel", Price: 12, StockQuantity: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, env.categories.Delete(ctx, books.ID), domainerrors.ErrCategoryInUse)

	require.NoError(t, env.products.Delete(ctx, novel.ID))
	require.NoError(t, env.categories.Delete(ctx, books.ID))

	_, err = env.categories.Get(ctx, books.ID)
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
}

func TestProductService_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	missing := uint(77)
	discount := 150.0

	_, err := env.products.Create(ctx, &usecase.ProductInput{Name: "Widget", Price: -1, Discount: &discount, StockQuantity: -2})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = env.products.Create(ctx, &usecase.ProductInput{Name: "Widget", Price: 1, CategoryID: &missing})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)

	env.product(t, "Widget", 1, 1)
	_, err = env.products.Create(ctx, &usecase.ProductInput{Name: "WIDGET", Price: 1})
	assert.ErrorIs(t, err, domainerrors.ErrProductNameTaken)
}

func TestProductService_StockNeverNegative(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	widget := env.product(t, "Widget", 10, 3)

	_, err := env.products.SetStock(ctx, widget.ID, -1)
	assert.ErrorIs(t, err, domainerrors.ErrNegativeStock)

	updated, err := env.products.SetStock(ctx, widget.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.StockQuantity)

	_, err = env.products.SetStock(ctx, 999, 1)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_GetIncludesVariantsAndRatings(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	eve := env.register(t, "eve", entity.RoleIDCustomer)
	shirt := env.product(t, "Shirt", 15, 0)
	env.variant(t, shirt.ID, "S", 2)
	env.variant(t, shirt.ID, "M", 2)

	_, err := env.reviews.Create(ctx, bob, shirt.ID, &usecase.ReviewInput{Rating: 5})
	require.NoError(t, err)
	_, err = env.reviews.Create(ctx, eve, shirt.ID, &usecase.ReviewInput{Rating: 2})
	require.NoError(t, err)

	detail, err := env.products.Get(ctx, shirt.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Variants, 2)
	assert.EqualValues(t, 2, detail.Reviews.TotalReviews)
	assert.InDelta(t, 3.5, detail.Reviews.AverageRating, 0.001)
}

func TestProductService_DeleteRefusedWhileOrdered(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	widget := env.product(t, "Widget", 10, 3)
	placeOrder(t, env, bob, widget.ID, 1)

	assert.ErrorIs(t, env.products.Delete(ctx, widget.ID), domainerrors.ErrProductInUse)
	assert.Equal(t, 2, env.productStock(t, widget.ID))
}

func TestProductService_ListFilters(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.product(t, "Red Lamp", 30, 0)
	env.product(t, "Blue Lamp", 50, 4)
	env.product(t, "Chair", 80, 2)

	page, err := env.products.List(ctx, entity.ProductFilter{Search: "lamp", InStock: true}, entity.NewPagination(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Blue Lamp", page.Items[0].Name)

	minPrice := 40.0
	page, err = env.products.List(ctx, entity.ProductFilter{MinPrice: &minPrice}, entity.NewPagination(1, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestVariantService_Lifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	shirt := env.product(t, "Shirt", 15, 0)

	_, err := env.variants.Create(ctx, shirt.ID, &usecase.VariantInput{Size: "S", StockQuantity: -1})
	assert.ErrorIs(t, err, domainerrors.ErrNegativeStock)

	_, err = env.variants.Create(ctx, 999, &usecase.VariantInput{Size: "S"})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	small := env.variant(t, shirt.ID, "S", 2)
	updated, err := env.variants.Update(ctx, small.ID, &usecase.VariantInput{Size: "S", Color: "Red", StockQuantity: 5})
	require.NoError(t, err)
	assert.Equal(t, "S / Red", updated.Label())

	_, err = env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: shirt.ID, VariantID: &small.ID, Quantity: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, env.variants.Delete(ctx, small.ID), domainerrors.ErrVariantInUse)

	require.NoError(t, env.carts.Clear(ctx, bob))
	require.NoError(t, env.variants.Delete(ctx, small.ID))

	variants, err := env.variants.ListByProduct(ctx, shirt.ID)
	require.NoError(t, err)
	assert.Empty(t, variants)
}

// recordingTx counts the transactions it runs.
type recordingTx struct {
	repository.TransactionManager
	runs int
}

func (tx *recordingTx) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	tx.runs++

	return tx.TransactionManager.Execute(ctx, fn)
}

func TestCatalogDeletes_CheckAndRemoveInOneTransaction(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	tx := &recordingTx{TransactionManager: env.txManager}
	params := CatalogServiceParams{
		TxManager:    tx,
		CategoryRepo: postgres.NewCategoryRepository(env.db),
		ProductRepo:  postgres.NewProductRepository(env.db),
		VariantRepo:  postgres.NewVariantRepository(env.db),
		ReviewRepo:   postgres.NewReviewRepository(env.db),
		Logger:       newDiscardLogger(),
	}
	categories := NewCategoryService(params)
	variants := NewVariantService(params)

	assert.ErrorIs(t, categories.Delete(ctx, 999), domainerrors.ErrCategoryNotFound)
	assert.ErrorIs(t, variants.Delete(ctx, 999), domainerrors.ErrVariantNotFound)
	assert.Equal(t, 2, tx.runs)

	toys, err := categories.Create(ctx, &usecase.CategoryInput{Name: "Toys"})
	require.NoError(t, err)
	kite := env.product(t, "Kite", 9, 1)
	large := env.variant(t, kite.ID, "L", 1)

	require.NoError(t, categories.Delete(ctx, toys.ID))
	require.NoError(t, variants.Delete(ctx, large.ID))
	assert.Equal(t, 4, tx.runs)

	_, err = env.categories.Get(ctx, toys.ID)
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
	_, err = env.variants.Get(ctx, large.ID)
	assert.ErrorIs(t, err, domainerrors.ErrVariantNotFound)
}
