// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"shoponline/internal/delivery/api/middleware"
	"shoponline/internal/delivery/api/router/handler"
	"shoponline/internal/domain/entity"
	"shoponline/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

var (
	permReportsView    = entity.Permission(entity.ResourceReports, entity.VerbView)
	permPaymentsView   = entity.Permission(entity.ResourcePayments, entity.VerbView)
	permComplaintsView = entity.Permission(entity.ResourceComplaints, entity.VerbView)
)

type RouterParams struct {
	fx.In

	UserHandler      *handler.UserHandler
	RoleHandler      *handler.RoleHandler
	CategoryHandler  *handler.CategoryHandler
	ProductHandler   *handler.ProductHandler
	CartHandler      *handler.CartHandler
	OrderHandler     *handler.OrderHandler
	PaymentHandler   *handler.PaymentHandler
	ShippingHandler  *handler.ShippingHandler
	ReviewHandler    *handler.ReviewHandler
	ComplaintHandler *handler.ComplaintHandler
	HealthHandler    *handler.HealthHandler
	AccessGuard      *middleware.AccessGuard
	Metrics          *metrics.Metrics `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	users      *handler.UserHandler
	roles      *handler.RoleHandler
	categories *handler.CategoryHandler
	products   *handler.ProductHandler
	cart       *handler.CartHandler
	orders     *handler.OrderHandler
	payments   *handler.PaymentHandler
	shipping   *handler.ShippingHandler
	reviews    *handler.ReviewHandler
	complaints *handler.ComplaintHandler
	health     *handler.HealthHandler
	guard      *middleware.AccessGuard
	metrics    *metrics.Metrics
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		users:      params.UserHandler,
		roles:      params.RoleHandler,
		categories: params.CategoryHandler,
		products:   params.ProductHandler,
		cart:       params.CartHandler,
		orders:     params.OrderHandler,
		payments:   params.PaymentHandler,
		shipping:   params.ShippingHandler,
		reviews:    params.ReviewHandler,
		complaints: params.ComplaintHandler,
		health:     params.HealthHandler,
		guard:      params.AccessGuard,
		metrics:    params.Metrics,
	}
}

// authed requires a valid bearer token.
func (r *router) authed() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{r.guard.Authenticate}
}

// can requires a valid bearer token whose role holds resource.verb.
func (r *router) can(resource, verb string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{r.guard.Authenticate, r.guard.RequirePermission(entity.Permission(resource, verb))}
}

// canAny requires a valid bearer token whose role holds at least one of the permissions.
func (r *router) canAny(permissions ...string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{r.guard.Authenticate, r.guard.RequireAnyPermission(permissions...)}
}

// RegisterRoutes sets up all the API routes for the application.
// Guards are attached per route so public and protected routes can share a prefix.
func (r *router) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/health", r.health.Check)
	if r.metrics != nil {
		api.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))
	}

	users := api.Group("/users")
	{
		users.POST("/register", r.users.Register)
		users.POST("/login", r.users.Login)
		users.GET("/me", r.users.Me, r.authed()...)
		users.GET("", r.users.List, r.can(entity.ResourceUsers, entity.VerbView)...)
		users.GET("/:id", r.users.Get, r.can(entity.ResourceUsers, entity.VerbView)...)
		users.POST("", r.users.Create, r.can(entity.ResourceUsers, entity.VerbCreate)...)
		users.PUT("/:id", r.users.Update, r.can(entity.ResourceUsers, entity.VerbUpdate)...)
		users.DELETE("/:id", r.users.Delete, r.can(entity.ResourceUsers, entity.VerbDelete)...)
	}

	roles := api.Group("/roles")
	{
		roles.GET("", r.roles.List)
		roles.GET("/:id", r.roles.Get, r.can(entity.ResourceRoles, entity.VerbView)...)
		roles.GET("/:id/users", r.roles.ListUsers, r.can(entity.ResourceRoles, entity.VerbView)...)
		roles.POST("", r.roles.Create, r.can(entity.ResourceRoles, entity.VerbCreate)...)
		roles.PUT("/:id", r.roles.Update, r.can(entity.ResourceRoles, entity.VerbUpdate)...)
		roles.DELETE("/:id", r.roles.Delete, r.can(entity.ResourceRoles, entity.VerbDelete)...)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", r.categories.List)
		categories.GET("/:id", r.categories.Get)
		categories.POST("", r.categories.Create, r.can(entity.ResourceCategories, entity.VerbCreate)...)
		categories.PUT("/:id", r.categories.Update, r.can(entity.ResourceCategories, entity.VerbUpdate)...)
		categories.DELETE("/:id", r.categories.Delete, r.can(entity.ResourceCategories, entity.VerbDelete)...)
	}

	products := api.Group("/products")
	{
		products.GET("", r.products.List)
		products.GET("/:id", r.products.Get)
		products.GET("/:id/variants", r.products.ListVariants)
		products.POST("", r.products.Create, r.can(entity.ResourceProducts, entity.VerbCreate)...)
		products.PUT("/:id", r.products.Update, r.can(entity.ResourceProducts, entity.VerbUpdate)...)
		products.PUT("/:id/stock", r.products.SetStock, r.can(entity.ResourceProducts, entity.VerbUpdate)...)
		products.DELETE("/:id", r.products.Delete, r.can(entity.ResourceProducts, entity.VerbDelete)...)
		products.POST("/:id/variants", r.products.CreateVariant, r.can(entity.ResourceProducts, entity.VerbCreate)...)
	}

	variants := api.Group("/variants")
	{
		variants.GET("/:id", r.products.GetVariant)
		variants.GET("/:id/availability", r.products.VariantAvailability)
		variants.PUT("/:id", r.products.UpdateVariant, r.can(entity.ResourceProducts, entity.VerbUpdate)...)
		variants.PUT("/:id/stock", r.products.SetVariantStock, r.can(entity.ResourceProducts, entity.VerbUpdate)...)
		variants.DELETE("/:id", r.products.DeleteVariant, r.can(entity.ResourceProducts, entity.VerbDelete)...)
	}

	// The cart always belongs to the caller, so a token is enough.
	cart := api.Group("/cart")
	{
		cart.GET("", r.cart.Get, r.authed()...)
		cart.DELETE("", r.cart.Clear, r.authed()...)
		cart.POST("/items", r.cart.AddItem, r.authed()...)
		cart.PUT("/items/:itemId", r.cart.UpdateItem, r.authed()...)
		cart.DELETE("/items/:itemId", r.cart.RemoveItem, r.authed()...)
	}

	// Listing and reading are scoped to the caller's own orders inside the use case.
	orders := api.Group("/orders")
	{
		orders.POST("", r.orders.Place, r.can(entity.ResourceOrders, entity.VerbCreate)...)
		orders.GET("", r.orders.List, r.authed()...)
		orders.GET("/:id", r.orders.Get, r.authed()...)
		orders.PUT("/:id", r.orders.Update, r.can(entity.ResourceOrders, entity.VerbUpdate)...)
		orders.GET("/:id/items", r.orders.ListItems, r.authed()...)
		orders.POST("/:id/items", r.orders.AddItem, r.can(entity.ResourceOrders, entity.VerbUpdate)...)
	}

	payments := api.Group("/payments")
	{
		payments.POST("", r.payments.Create, r.authed()...)
		payments.GET("", r.payments.List, r.can(entity.ResourcePayments, entity.VerbView)...)
		payments.GET("/mine", r.payments.Mine, r.authed()...)
		payments.GET("/statistics", r.payments.Stats, r.canAny(permReportsView, permPaymentsView)...)
		payments.GET("/:id", r.payments.Get, r.authed()...)
		payments.GET("/order/:orderId", r.payments.GetByOrder, r.authed()...)
		payments.PUT("/:id/status", r.payments.UpdateStatus, r.can(entity.ResourcePayments, entity.VerbUpdate)...)
	}

	shipping := api.Group("/shipping")
	{
		shipping.POST("", r.shipping.Create, r.can(entity.ResourceShipping, entity.VerbCreate)...)
		shipping.GET("", r.shipping.List, r.can(entity.ResourceShipping, entity.VerbView)...)
		shipping.GET("/mine", r.shipping.Mine, r.authed()...)
		shipping.GET("/:id", r.shipping.Get, r.authed()...)
		shipping.PUT("/:id/status", r.shipping.UpdateStatus, r.can(entity.ResourceShipping, entity.VerbUpdate)...)
		shipping.PUT("/:id/shipper", r.shipping.AssignShipper, r.can(entity.ResourceShipping, entity.VerbUpdate)...)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("/product/:productId", r.reviews.ListByProduct)
		reviews.GET("/product/:productId/stats", r.reviews.Stats)
		reviews.POST("", r.reviews.Create, r.can(entity.ResourceReviews, entity.VerbCreate)...)
		reviews.PUT("/:id", r.reviews.Update, r.authed()...)
		reviews.DELETE("/:id", r.reviews.Delete, r.authed()...)
	}

	complaints := api.Group("/complaints")
	{
		complaints.POST("", r.complaints.Create, r.authed()...)
		complaints.GET("/mine", r.complaints.Mine, r.authed()...)
		complaints.GET("", r.complaints.List, r.can(entity.ResourceComplaints, entity.VerbView)...)
		complaints.GET("/statistics", r.complaints.Stats, r.canAny(permReportsView, permComplaintsView)...)
		complaints.GET("/:id", r.complaints.Get, r.authed()...)
		complaints.PUT("/:id/status", r.complaints.UpdateStatus, r.can(entity.ResourceComplaints, entity.VerbUpdate)...)
	}
}
