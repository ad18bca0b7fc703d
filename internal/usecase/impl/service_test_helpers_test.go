package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"shoponline/config"
	"shoponline/internal/domain/entity"
	"shoponline/internal/domain/repository"
	"shoponline/internal/domain/service"
	"shoponline/internal/infra/auth"
	"shoponline/internal/infra/cache"
	"shoponline/internal/infra/permission"
	"shoponline/internal/infra/persistence/postgres"
	"shoponline/internal/infra/persistence/sqlitetest"
	"shoponline/internal/usecase"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			SecretKey:  "test-secret",
			Issuer:     "shoponline",
			Audience:   "shoponline-clients",
			BcryptCost: 4,
		},
		Cache: &config.CacheConfig{DefaultTimeout: 60},
	}
}

// allowAllThrottle never throttles.
type allowAllThrottle struct{}

func (allowAllThrottle) Allow(context.Context, string) (bool, error) { return true, nil }
func (allowAllThrottle) RecordFailure(context.Context, string) error { return nil }
func (allowAllThrottle) Reset(context.Context, string) error         { return nil }

// testEnv wires every service over one in-memory store.
type testEnv struct {
	db        *gorm.DB
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	directory service.UserDirectory
	hasher    service.PasswordHasher
	tokens    service.TokenService
	authz     service.Authorizer

	users      usecase.UserUsecase
	roles      usecase.RoleUsecase
	categories usecase.CategoryUsecase
	products   usecase.ProductUsecase
	variants   usecase.VariantUsecase
	carts      usecase.CartUsecase
	orders     usecase.OrderUsecase
	payments   usecase.PaymentUsecase
	shipping   usecase.ShippingUsecase
	reviews    usecase.ReviewUsecase
	complaints usecase.ComplaintUsecase
}

func newTestEnv(t *testing.T, throttle service.LoginThrottle) *testEnv {
	t.Helper()

	if throttle == nil {
		throttle = allowAllThrottle{}
	}

	cfg := newTestConfig()
	logger := newDiscardLogger()
	db := sqlitetest.Open(t)

	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	productRepo := postgres.NewProductRepository(db)
	variantRepo := postgres.NewVariantRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	shippingRepo := postgres.NewShippingRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	complaintRepo := postgres.NewComplaintRepository(db)
	txManager := postgres.NewTransactionManager(db)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	authz, err := permission.NewAuthorizer(logger)
	require.NoError(t, err)

	directory := cache.NewUserDirectory(cache.DirectoryParams{
		Config:   cfg,
		UserRepo: userRepo,
		RoleRepo: roleRepo,
		Logger:   logger,
	})

	env := &testEnv{
		db:        db,
		txManager: txManager,
		userRepo:  userRepo,
		directory: directory,
		hasher:    auth.NewBcryptHasher(cfg),
		tokens:    tokens,
		authz:     authz,
	}

	env.users = NewUserService(UserServiceParams{
		UserRepo:     userRepo,
		Directory:    directory,
		Hasher:       env.hasher,
		TokenService: tokens,
		Throttle:     throttle,
		Logger:       logger,
	})
	env.roles = NewRoleService(RoleServiceParams{
		RoleRepo:  roleRepo,
		UserRepo:  userRepo,
		Directory: directory,
		Logger:    logger,
	})

	catalog := CatalogServiceParams{
		TxManager:    txManager,
		CategoryRepo: categoryRepo,
		ProductRepo:  productRepo,
		VariantRepo:  variantRepo,
		ReviewRepo:   reviewRepo,
		Logger:       logger,
	}
	env.categories = NewCategoryService(catalog)
	env.products = NewProductService(catalog)
	env.variants = NewVariantService(catalog)

	env.carts = NewCartService(CartServiceParams{TxManager: txManager, Logger: logger})

	orders := OrderServiceParams{
		TxManager:    txManager,
		OrderRepo:    orderRepo,
		PaymentRepo:  paymentRepo,
		ShippingRepo: shippingRepo,
		UserRepo:     userRepo,
		Authorizer:   authz,
		Logger:       logger,
	}
	env.orders = NewOrderService(orders)
	env.payments = NewPaymentService(orders)
	env.shipping = NewShippingService(orders)

	feedback := FeedbackServiceParams{
		ReviewRepo:    reviewRepo,
		ComplaintRepo: complaintRepo,
		ProductRepo:   productRepo,
		OrderRepo:     orderRepo,
		Authorizer:    authz,
		Logger:        logger,
	}
	env.reviews = NewReviewService(feedback)
	env.complaints = NewComplaintService(feedback)

	return env
}

// register creates an account with the given role and returns its principal.
func (env *testEnv) register(t *testing.T, username string, roleID uint) entity.Principal {
	t.Helper()

	out, err := env.users.Create(context.Background(), &usecase.CreateUserInput{
		Username: username,
		Password: "Secret123",
		RoleID:   &roleID,
	})
	require.NoError(t, err)

	return entity.Principal{UserID: out.User.ID, Username: out.User.Username, Role: out.RoleName}
}

func (env *testEnv) product(t *testing.T, name string, price float64, stock int) *entity.Product {
	t.Helper()

	product, err := env.products.Create(context.Background(), &usecase.ProductInput{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
	})
	require.NoError(t, err)

	return product
}

func (env *testEnv) variant(t *testing.T, productID uint, size string, stock int) *entity.ProductVariant {
	t.Helper()

	variant, err := env.variants.Create(context.Background(), productID, &usecase.VariantInput{
		Size:          size,
		StockQuantity: stock,
	})
	require.NoError(t, err)

	return variant
}

func (env *testEnv) productStock(t *testing.T, id uint) int {
	t.Helper()

	detail, err := env.products.Get(context.Background(), id)
	require.NoError(t, err)

	return detail.Product.StockQuantity
}
