package impl

import (
	"context"
	"log/slog"

	deliverycontext "shoponline/internal/delivery/context"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type cartService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewCartService is the constructor for cartService. Every operation runs in
// one transaction so the stock check and the cart write see the same state.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *cartService) Get(ctx context.Context, principal entity.Principal) (*usecase.CartOutput, error) {
	var out *usecase.CartOutput
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		cart, err := cartOf(ctx, repos, principal.UserID)
		if err != nil {
			return err
		}

		out, err = priceCart(ctx, repos, cart)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	return out, nil
}

// AddItem merges into the existing line for the same product and variant.
// The merged quantity must not exceed the stock of the targeted holding.
func (srv *cartService) AddItem(ctx context.Context, principal entity.Principal, input *usecase.AddCartItemInput) (*usecase.CartOutput, error) {
	if input.Quantity <= 0 {
		return nil, domainerrors.NewFieldError("quantity", "must be greater than 0")
	}

	return srv.mutate(ctx, principal, func(repos repository.RepositoryFactory, cart *entity.Cart) error {
		line, err := loadStockLine(ctx, repos, input.ProductID, input.VariantID)
		if err != nil {
			return err
		}

		carts := repos.NewCartRepository()
		existing, err := carts.FindLine(ctx, cart.ID, input.ProductID, input.VariantID)
		if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
			return errors.Wrap(err, "failed to find cart line")
		}

		quantity := input.Quantity
		if existing != nil {
			quantity += existing.Quantity
		}
		if quantity > line.available() {
			return domainerrors.ErrInsufficientStock.WithDetails(line.label())
		}

		if existing != nil {
			return carts.UpdateItemQuantity(ctx, existing.ID, quantity)
		}

		return carts.CreateItem(ctx, &entity.CartItem{
			CartID:    cart.ID,
			ProductID: input.ProductID,
			VariantID: line.variantID(),
			Quantity:  quantity,
		})
	})
}

func (srv *cartService) UpdateItem(ctx context.Context, principal entity.Principal, itemID uint, quantity int) (*usecase.CartOutput, error) {
	if quantity <= 0 {
		return nil, domainerrors.NewFieldError("quantity", "must be greater than 0")
	}

	return srv.mutate(ctx, principal, func(repos repository.RepositoryFactory, cart *entity.Cart) error {
		item, err := ownedItem(ctx, repos, cart, itemID)
		if err != nil {
			return err
		}

		line, err := loadStockLine(ctx, repos, item.ProductID, item.VariantID)
		if err != nil {
			return err
		}
		if quantity > line.available() {
			return domainerrors.ErrInsufficientStock.WithDetails(line.label())
		}

		return repos.NewCartRepository().UpdateItemQuantity(ctx, item.ID, quantity)
	})
}

func (srv *cartService) RemoveItem(ctx context.Context, principal entity.Principal, itemID uint) (*usecase.CartOutput, error) {
	return srv.mutate(ctx, principal, func(repos repository.RepositoryFactory, cart *entity.Cart) error {
		item, err := ownedItem(ctx, repos, cart, itemID)
		if err != nil {
			return err
		}

		return repos.NewCartRepository().DeleteItem(ctx, item.ID)
	})
}

func (srv *cartService) Clear(ctx context.Context, principal entity.Principal) error {
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		cart, err := cartOf(ctx, repos, principal.UserID)
		if err != nil {
			return err
		}

		return repos.NewCartRepository().ClearItems(ctx, cart.ID)
	})
	if err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}

	return nil
}

// mutate runs fn against the caller's cart and returns the cart as it stands after fn.
func (srv *cartService) mutate(
	ctx context.Context,
	principal entity.Principal,
	fn func(repos repository.RepositoryFactory, cart *entity.Cart) error,
) (*usecase.CartOutput, error) {
	var out *usecase.CartOutput
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		cart, err := cartOf(ctx, repos, principal.UserID)
		if err != nil {
			return err
		}
		if err := fn(repos, cart); err != nil {
			return err
		}

		cart, err = repos.NewCartRepository().FindByUserID(ctx, principal.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to reload cart")
		}

		out, err = priceCart(ctx, repos, cart)

		return err
	})
	if err != nil {
		srv.log(ctx).Debug("Cart update rejected", slog.Uint64("userID", uint64(principal.UserID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update cart")
	}

	return out, nil
}

// cartOf returns the user's cart, creating it on first access.
func cartOf(ctx context.Context, repos repository.RepositoryFactory, userID uint) (*entity.Cart, error) {
	carts := repos.NewCartRepository()

	cart, err := carts.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "failed to find cart")
	}

	cart = &entity.Cart{UserID: userID}
	if err := carts.Create(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "failed to create cart")
	}

	return cart, nil
}

// ownedItem finds a line of the caller's cart; lines of other carts are forbidden.
func ownedItem(ctx context.Context, repos repository.RepositoryFactory, cart *entity.Cart, itemID uint) (*entity.CartItem, error) {
	item, err := repos.NewCartRepository().FindItemByID(ctx, itemID)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrCartItemNotFound, "failed to find cart item")
	}
	if item.CartID != cart.ID {
		return nil, domainerrors.ErrForbidden.WithDetails("cart item belongs to another user")
	}

	return item, nil
}

// priceCart values each line at the current effective product price.
func priceCart(ctx context.Context, repos repository.RepositoryFactory, cart *entity.Cart) (*usecase.CartOutput, error) {
	out := &usecase.CartOutput{
		Cart:          cart,
		Lines:         make([]usecase.CartLine, 0, len(cart.Items)),
		TotalQuantity: cart.TotalQuantity(),
	}

	for _, item := range cart.Items {
		line, err := loadStockLine(ctx, repos, item.ProductID, item.VariantID)
		if err != nil {
			return nil, err
		}

		unit := roundMoney(line.product.EffectivePrice())
		subtotal := roundMoney(unit * float64(item.Quantity))
		out.Lines = append(out.Lines, usecase.CartLine{
			Item:         item,
			ProductName:  line.product.Name,
			VariantLabel: line.variantLabel(),
			UnitPrice:    unit,
			Subtotal:     subtotal,
		})
		out.TotalAmount += subtotal
	}
	out.TotalAmount = roundMoney(out.TotalAmount)

	return out, nil
}
