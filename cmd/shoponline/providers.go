package main

import (
	"context"

	"shoponline/config"
	"shoponline/internal/delivery/api"
	"shoponline/internal/delivery/api/middleware"
	"shoponline/internal/delivery/api/router/handler"
	"shoponline/internal/infra/auth"
	"shoponline/internal/infra/cache"
	logs "shoponline/internal/infra/log"
	"shoponline/internal/infra/metrics"
	"shoponline/internal/infra/permission"
	"shoponline/internal/infra/persistence/migration"
	"shoponline/internal/infra/persistence/postgres"
	"shoponline/internal/infra/throttle"
	"shoponline/internal/usecase/impl"

	"go.uber.org/fx"
)

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		metrics.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewRoleRepository,
			postgres.NewCategoryRepository,
			postgres.NewProductRepository,
			postgres.NewVariantRepository,
			postgres.NewOrderRepository,
			postgres.NewPaymentRepository,
			postgres.NewShippingRepository,
			postgres.NewReviewRepository,
			postgres.NewComplaintRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			permission.NewAuthorizer,
			cache.NewUserDirectory,
			throttle.NewLoginThrottle,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewRoleService,
			impl.NewCategoryService,
			impl.NewProductService,
			impl.NewVariantService,
			impl.NewCartService,
			impl.NewOrderService,
			impl.NewPaymentService,
			impl.NewShippingService,
			impl.NewReviewService,
			impl.NewComplaintService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAccessGuard,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewRoleHandler,
			handler.NewCategoryHandler,
			handler.NewProductHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewPaymentHandler,
			handler.NewShippingHandler,
			handler.NewReviewHandler,
			handler.NewComplaintHandler,
			handler.NewHealthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func injectMigration() fx.Option {
	return fx.Provide(migration.NewMigrator)
}
