package impl

import (
	"context"
	"sync"
	"testing"

	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, env *testEnv, principal entity.Principal, productID uint, quantity int) *usecase.OrderOutput {
	t.Helper()
	ctx := context.Background()

	_, err := env.carts.AddItem(ctx, principal, &usecase.AddCartItemInput{ProductID: productID, Quantity: quantity})
	require.NoError(t, err)

	out, err := env.orders.Place(ctx, principal, &usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
	require.NoError(t, err)

	return out
}

func TestOrderService_Place_SnapshotsAndTakesStock(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	widget := env.product(t, "Widget", 20, 10)
	shirt := env.product(t, "Shirt", 15, 0)
	small := env.variant(t, shirt.ID, "S", 4)

	_, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: widget.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: shirt.ID, VariantID: &small.ID, Quantity: 2})
	require.NoError(t, err)

	out, err := env.orders.Place(ctx, bob, &usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
	require.NoError(t, err)

	assert.Equal(t, bob.UserID, out.Order.UserID)
	assert.InDelta(t, 90.0, out.Order.TotalAmount, 0.001)
	assert.Equal(t, entity.PaymentStatusPending, out.Order.PaymentStatus)
	assert.Equal(t, entity.ShippingStatusPreparing, out.Order.ShippingStatus)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Widget", out.Items[0].ProductName)
	assert.Equal(t, "S", out.Items[1].VariantName)

	assert.Equal(t, 7, env.productStock(t, widget.ID))
	variant, err := env.variants.Get(ctx, small.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, variant.StockQuantity)

	cart, err := env.carts.Get(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	// Later price changes do not touch the captured line price.
	_, err = env.products.Update(ctx, widget.ID, &usecase.ProductInput{Name: "Widget", Price: 99, StockQuantity: 7})
	require.NoError(t, err)
	got, err := env.orders.Get(ctx, bob, out.Order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got.Items[0].PriceAtOrder, 0.001)
}

func TestOrderService_Place_EmptyCart(t *testing.T) {
	env := newTestEnv(t, nil)
	bob := env.register(t, "bob", entity.RoleIDCustomer)

	_, err := env.orders.Place(context.Background(), bob, &usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
	assert.ErrorIs(t, err, domainerrors.ErrEmptyCart)
}

func TestOrderService_Place_ShortfallRollsBackEverything(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	widget := env.product(t, "Widget", 20, 5)
	gadget := env.product(t, "Gadget", 5, 5)

	_, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: widget.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: gadget.ID, Quantity: 5})
	require.NoError(t, err)

	// Stock drops after carting; the checkout must notice.
	_, err = env.products.SetStock(ctx, gadget.ID, 1)
	require.NoError(t, err)

	_, err = env.orders.Place(ctx, bob, &usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)

	assert.Equal(t, 5, env.productStock(t, widget.ID))
	assert.Equal(t, 1, env.productStock(t, gadget.ID))

	cart, err := env.carts.Get(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)

	page, err := env.orders.List(ctx, bob, entity.OrderFilter{}, entity.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}

func TestOrderService_Place_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	widget := env.product(t, "Widget", 20, 3)

	buyers := make([]entity.Principal, 5)
	for i := range buyers {
		buyers[i] = env.register(t, "buyer"+string(rune('a'+i)), entity.RoleIDCustomer)
		_, err := env.carts.AddItem(ctx, buyers[i], &usecase.AddCartItemInput{ProductID: widget.ID, Quantity: 1})
		require.NoError(t, err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		placed  int
		refused int
	)
	for _, buyer := range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.orders.Place(ctx, buyer, &usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				placed++
			} else if assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock) {
				refused++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, placed)
	assert.Equal(t, 2, refused)
	assert.Equal(t, 0, env.productStock(t, widget.ID))
}

func TestOrderService_Visibility(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	eve := env.register(t, "eve", entity.RoleIDCustomer)
	manager := env.register(t, "olga", entity.RoleIDOrderManager)
	shipper := env.register(t, "sam", entity.RoleIDShipper)
	widget := env.product(t, "Widget", 20, 10)

	order := placeOrder(t, env, bob, widget.ID, 1)
	placeOrder(t, env, eve, widget.ID, 1)

	_, err := env.orders.Get(ctx, eve, order.Order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.orders.ListItems(ctx, eve, order.Order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	for _, viewer := range []entity.Principal{bob, manager, shipper} {
		_, err := env.orders.Get(ctx, viewer, order.Order.ID)
		assert.NoError(t, err, viewer.Username)
	}

	own, err := env.orders.List(ctx, bob, entity.OrderFilter{}, entity.NewPagination(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, own.TotalCount)

	all, err := env.orders.List(ctx, manager, entity.OrderFilter{}, entity.NewPagination(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.TotalCount)

	_, err = env.orders.Get(ctx, bob, 999)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_Update_ValidatesStatusAndShipper(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	shipper := env.register(t, "sam", entity.RoleIDShipper)
	order := placeOrder(t, env, bob, env.product(t, "Widget", 20, 10).ID, 1)

	_, err := env.orders.Update(ctx, order.Order.ID, &usecase.UpdateOrderInput{PaymentStatus: "Paid"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = env.orders.Update(ctx, order.Order.ID, &usecase.UpdateOrderInput{AssignedShipperID: &bob.UserID})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidShipper)

	updated, err := env.orders.Update(ctx, order.Order.ID, &usecase.UpdateOrderInput{
		ShippingStatus:    entity.ShippingStatusShipped,
		AssignedShipperID: &shipper.UserID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ShippingStatusShipped, updated.ShippingStatus)
	assert.Equal(t, shipper.UserID, *updated.AssignedShipperID)
}

func TestOrderService_AddItem(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	widget := env.product(t, "Widget", 20, 10)
	gadget := env.product(t, "Gadget", 5, 2)
	order := placeOrder(t, env, bob, widget.ID, 1)

	out, err := env.orders.AddItem(ctx, order.Order.ID, &usecase.AddOrderItemInput{ProductID: gadget.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.InDelta(t, 30.0, out.Order.TotalAmount, 0.001)
	assert.Equal(t, 0, env.productStock(t, gadget.ID))

	_, err = env.orders.AddItem(ctx, order.Order.ID, &usecase.AddOrderItemInput{ProductID: gadget.ID, Quantity: 1})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
}

func TestPaymentService_Lifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	eve := env.register(t, "eve", entity.RoleIDCustomer)
	accountant := env.register(t, "alex", entity.RoleIDAccount)
	order := placeOrder(t, env, bob, env.product(t, "Widget", 20, 10).ID, 2)

	_, err := env.payments.Create(ctx, eve, &usecase.CreatePaymentInput{OrderID: order.Order.ID, Method: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.payments.Create(ctx, bob, &usecase.CreatePaymentInput{OrderID: order.Order.ID, Method: "Barter"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	payment, err := env.payments.Create(ctx, bob, &usecase.CreatePaymentInput{OrderID: order.Order.ID, Method: entity.PaymentMethodCreditCard})
	require.NoError(t, err)
	assert.InDelta(t, 40.0, payment.Amount, 0.001)
	assert.Equal(t, entity.PaymentStatusPending, payment.Status)

	_, err = env.payments.Create(ctx, bob, &usecase.CreatePaymentInput{OrderID: order.Order.ID, Method: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domainerrors.ErrPaymentExists)

	_, err = env.payments.Get(ctx, eve, payment.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = env.payments.GetByOrder(ctx, accountant, order.Order.ID)
	assert.NoError(t, err)

	_, err = env.payments.UpdateStatus(ctx, payment.ID, entity.PaymentStatusCompleted)
	require.NoError(t, err)

	got, err := env.orders.Get(ctx, bob, order.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, got.Order.PaymentStatus)

	page, err := env.payments.List(ctx, entity.PaymentStatusCompleted, entity.NewPagination(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalCount)
}

func TestPaymentService_MineAndStats(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	eve := env.register(t, "eve", entity.RoleIDCustomer)
	widget := env.product(t, "Widget", 20, 10)

	stats, err := env.payments.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalPayments)
	assert.Empty(t, stats.ByStatus)

	bobOrder := placeOrder(t, env, bob, widget.ID, 2)
	eveOrder := placeOrder(t, env, eve, widget.ID, 1)

	paid, err := env.payments.Create(ctx, bob, &usecase.CreatePaymentInput{OrderID: bobOrder.Order.ID, Method: entity.PaymentMethodCreditCard})
	require.NoError(t, err)
	_, err = env.payments.UpdateStatus(ctx, paid.ID, entity.PaymentStatusCompleted)
	require.NoError(t, err)
	_, err = env.payments.Create(ctx, eve, &usecase.CreatePaymentInput{OrderID: eveOrder.Order.ID, Method: entity.PaymentMethodCash})
	require.NoError(t, err)

	mine, err := env.payments.Mine(ctx, bob, entity.NewPagination(1, 10))
	require.NoError(t, err)
	require.EqualValues(t, 1, mine.TotalCount)
	assert.Equal(t, paid.ID, mine.Items[0].ID)

	carl := env.register(t, "carl", entity.RoleIDCustomer)
	mine, err = env.payments.Mine(ctx, carl, entity.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Zero(t, mine.TotalCount)

	stats, err = env.payments.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalPayments)
	assert.InDelta(t, 60.0, stats.TotalAmount, 0.001)
	assert.ElementsMatch(t, []entity.PaymentBucket{
		{Key: string(entity.PaymentStatusCompleted), Count: 1, Amount: 40},
		{Key: string(entity.PaymentStatusPending), Count: 1, Amount: 20},
	}, stats.ByStatus)
	assert.ElementsMatch(t, []entity.PaymentBucket{
		{Key: string(entity.PaymentMethodCreditCard), Count: 1, Amount: 40},
		{Key: string(entity.PaymentMethodCash), Count: 1, Amount: 20},
	}, stats.ByMethod)
}

func TestShippingService_Lifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := env.register(t, "root", entity.RoleIDAdmin)
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	eve := env.register(t, "eve", entity.RoleIDCustomer)
	sam := env.register(t, "sam", entity.RoleIDShipper)
	tom := env.register(t, "tom", entity.RoleIDShipper)
	order := placeOrder(t, env, bob, env.product(t, "Widget", 20, 10).ID, 1)

	_, err := env.shipping.Create(ctx, &usecase.CreateShippingInput{OrderID: order.Order.ID, ShipperID: &bob.UserID})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidShipper)

	shipping, err := env.shipping.Create(ctx, &usecase.CreateShippingInput{OrderID: order.Order.ID, ShipperID: &sam.UserID})
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", shipping.ShippingAddress)
	assert.Equal(t, entity.ShippingStatusPreparing, shipping.Status)

	_, err = env.shipping.Create(ctx, &usecase.CreateShippingInput{OrderID: order.Order.ID})
	assert.ErrorIs(t, err, domainerrors.ErrShippingExists)

	_, err = env.shipping.Get(ctx, eve, shipping.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = env.shipping.Get(ctx, bob, shipping.ID)
	assert.NoError(t, err)

	_, err = env.shipping.UpdateStatus(ctx, tom, shipping.ID, entity.ShippingStatusShipped)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden, "only the assigned shipper")

	_, err = env.shipping.UpdateStatus(ctx, sam, shipping.ID, "Lost")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	shipped, err := env.shipping.UpdateStatus(ctx, sam, shipping.ID, entity.ShippingStatusShipped)
	require.NoError(t, err)
	assert.NotNil(t, shipped.ShippingDate)
	assert.Nil(t, shipped.DeliveryDate)

	delivered, err := env.shipping.UpdateStatus(ctx, admin, shipping.ID, entity.ShippingStatusDelivered)
	require.NoError(t, err)
	assert.NotNil(t, delivered.DeliveryDate)

	got, err := env.orders.Get(ctx, bob, order.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShippingStatusDelivered, got.Order.ShippingStatus)
	assert.Equal(t, sam.UserID, *got.Order.AssignedShipperID)

	mine, err := env.shipping.Mine(ctx, sam)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	mine, err = env.shipping.Mine(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	mine, err = env.shipping.Mine(ctx, tom)
	require.NoError(t, err)
	assert.Empty(t, mine)

	reassigned, err := env.shipping.AssignShipper(ctx, shipping.ID, tom.UserID)
	require.NoError(t, err)
	assert.Equal(t, tom.UserID, *reassigned.ShipperID)
}
