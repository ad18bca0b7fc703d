package impl

import (
	"context"
	"testing"

	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_Get_CreatesEmptyCart(t *testing.T) {
	env := newTestEnv(t, nil)
	bob := env.register(t, "bob", entity.RoleIDCustomer)

	out, err := env.carts.Get(context.Background(), bob)
	require.NoError(t, err)
	assert.NotZero(t, out.Cart.ID)
	assert.Equal(t, bob.UserID, out.Cart.UserID)
	assert.Empty(t, out.Lines)
	assert.Zero(t, out.TotalAmount)
}

func TestCartService_AddItem_MergesAndEnforcesStock(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	widget := env.product(t, "Widget", 20, 10)

	_, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: widget.ID, Quantity: 2})
	require.NoError(t, err)

	out, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: widget.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, 5, out.Lines[0].Item.Quantity)
	assert.Equal(t, 5, out.TotalQuantity)
	assert.InDelta(t, 100.0, out.TotalAmount, 0.001)

	_, err = env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: widget.ID, Quantity: 10})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)

	out, err = env.carts.Get(ctx, bob)
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, 5, out.Lines[0].Item.Quantity)
	assert.Equal(t, 10, env.productStock(t, widget.ID), "carting never takes stock")
}

func TestCartService_AddItem_VariantsAreSeparateLines(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	shirt := env.product(t, "Shirt", 15, 0)
	small := env.variant(t, shirt.ID, "S", 3)
	large := env.variant(t, shirt.ID, "L", 1)

	_, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: shirt.ID, VariantID: &small.ID, Quantity: 3})
	require.NoError(t, err)

	out, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: shirt.ID, VariantID: &large.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "S", out.Lines[0].VariantLabel)
	assert.Equal(t, "L", out.Lines[1].VariantLabel)

	_, err = env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: shirt.ID, VariantID: &large.ID, Quantity: 1})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock, "variant stock is checked, not product stock")

	_, err = env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: shirt.ID, Quantity: 1})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
}

func TestCartService_AddItem_RejectsBadReferences(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	shirt := env.product(t, "Shirt", 15, 5)
	mug := env.product(t, "Mug", 5, 5)
	mugVariant := env.variant(t, mug.ID, "Large", 5)

	_, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: 999, Quantity: 1})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	_, err = env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: shirt.ID, VariantID: &mugVariant.ID, Quantity: 1})
	assert.ErrorIs(t, err, domainerrors.ErrVariantProductMismatch)

	_, err = env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: shirt.ID, Quantity: 0})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCartService_ItemsOfOtherCartsAreForbidden(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	eve := env.register(t, "eve", entity.RoleIDCustomer)
	widget := env.product(t, "Widget", 20, 10)

	out, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	itemID := out.Lines[0].Item.ID

	_, err = env.carts.UpdateItem(ctx, eve, itemID, 2)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.carts.RemoveItem(ctx, eve, itemID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.carts.RemoveItem(ctx, bob, 999)
	assert.ErrorIs(t, err, domainerrors.ErrCartItemNotFound)
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)
	widget := env.product(t, "Widget", 20, 10)
	gadget := env.product(t, "Gadget", 5, 10)

	_, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	out, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: gadget.ID, Quantity: 1})
	require.NoError(t, err)

	out, err = env.carts.UpdateItem(ctx, bob, out.Lines[0].Item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Lines[0].Item.Quantity)

	_, err = env.carts.UpdateItem(ctx, bob, out.Lines[0].Item.ID, 11)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)

	out, err = env.carts.RemoveItem(ctx, bob, out.Lines[1].Item.ID)
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)

	require.NoError(t, env.carts.Clear(ctx, bob))
	out, err = env.carts.Get(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, out.Lines)
}

func TestCartService_PricesWithDiscount(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	bob := env.register(t, "bob", entity.RoleIDCustomer)

	discount := 25.0
	lamp, err := env.products.Create(ctx, &usecase.ProductInput{Name: "Lamp", Price: 40, Discount: &discount, StockQuantity: 3})
	require.NoError(t, err)

	out, err := env.carts.AddItem(ctx, bob, &usecase.AddCartItemInput{ProductID: lamp.ID, Quantity: 2})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, out.Lines[0].UnitPrice, 0.001)
	assert.InDelta(t, 60.0, out.TotalAmount, 0.001)
}
