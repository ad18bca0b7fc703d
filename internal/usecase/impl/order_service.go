package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "shoponline/internal/delivery/context"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/domain/service"
	"shoponline/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var (
	permOrdersView  = entity.Permission(entity.ResourceOrders, entity.VerbView)
	permPaymentView = entity.Permission(entity.ResourcePayments, entity.VerbView)
	permPaymentAdd  = entity.Permission(entity.ResourcePayments, entity.VerbCreate)
	permShipView    = entity.Permission(entity.ResourceShipping, entity.VerbView)
)

// OrderServiceParams holds the dependencies shared by the order, payment and shipping services.
type OrderServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	OrderRepo    repository.OrderRepository
	PaymentRepo  repository.PaymentRepository
	ShippingRepo repository.ShippingRepository
	UserRepo     repository.UserRepository
	Authorizer   service.Authorizer
	Logger       *slog.Logger
}

type orderDeps struct {
	txManager    repository.TransactionManager
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	shippingRepo repository.ShippingRepository
	userRepo     repository.UserRepository
	authz        service.Authorizer
	logger       *slog.Logger
}

func newOrderDeps(params OrderServiceParams) *orderDeps {
	return &orderDeps{
		txManager:    params.TxManager,
		orderRepo:    params.OrderRepo,
		paymentRepo:  params.PaymentRepo,
		shippingRepo: params.ShippingRepo,
		userRepo:     params.UserRepo,
		authz:        params.Authorizer,
		logger:       params.Logger,
	}
}

func (srv *orderDeps) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *orderDeps) findOrder(ctx context.Context, id uint) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrOrderNotFound, "failed to find order")
	}

	return order, nil
}

// --- Orders ---

type orderService struct{ *orderDeps }

// NewOrderService is the constructor for the order usecase.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{newOrderDeps(params)}
}

// Place converts the caller's cart into an order. Stock is re-checked by a
// conditional decrement per line, so concurrent checkouts cannot oversell;
// any shortfall rolls back the whole order.
func (srv *orderService) Place(ctx context.Context, principal entity.Principal, input *usecase.PlaceOrderInput) (*usecase.OrderOutput, error) {
	address := strings.TrimSpace(input.ShippingAddress)
	if address == "" {
		return nil, domainerrors.NewFieldError("shippingAddress", "is required")
	}

	out := &usecase.OrderOutput{}
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		carts := repos.NewCartRepository()
		cart, err := carts.FindByUserID(ctx, principal.UserID)
		if errors.Is(err, repository.ErrRecordNotFound) {
			return domainerrors.ErrEmptyCart
		}
		if err != nil {
			return errors.Wrap(err, "failed to load cart")
		}
		if len(cart.Items) == 0 {
			return domainerrors.ErrEmptyCart
		}

		items := make([]*entity.OrderItem, 0, len(cart.Items))
		total := 0.0
		for _, cartItem := range cart.Items {
			line, err := loadStockLine(ctx, repos, cartItem.ProductID, cartItem.VariantID)
			if err != nil {
				return err
			}
			if err := line.decrement(ctx, repos, cartItem.Quantity); err != nil {
				return err
			}

			item := snapshotItem(line, cartItem.Quantity)
			total += item.Subtotal()
			items = append(items, item)
		}

		orders := repos.NewOrderRepository()
		order := &entity.Order{
			UserID:          principal.UserID,
			OrderDate:       time.Now(),
			TotalAmount:     roundMoney(total),
			ShippingAddress: address,
			PaymentStatus:   entity.PaymentStatusPending,
			ShippingStatus:  entity.ShippingStatusPreparing,
		}
		if err := orders.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}
		for _, item := range items {
			item.OrderID = order.ID
			if err := orders.CreateItem(ctx, item); err != nil {
				return errors.Wrap(err, "failed to create order item")
			}
		}

		if err := carts.ClearItems(ctx, cart.ID); err != nil {
			return errors.Wrap(err, "failed to clear cart")
		}

		out.Order, out.Items = order, items

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order placement failed", slog.Uint64("userID", uint64(principal.UserID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to place order")
	}

	srv.log(ctx).Info("Order placed",
		slog.Uint64("orderID", uint64(out.Order.ID)),
		slog.Uint64("userID", uint64(principal.UserID)),
		slog.Float64("total", out.Order.TotalAmount),
	)

	return out, nil
}

func (srv *orderService) List(ctx context.Context, principal entity.Principal, filter entity.OrderFilter, page entity.Pagination) (entity.Page[*entity.Order], error) {
	if !srv.authz.Authorize(principal.Role, permOrdersView) {
		filter.UserID = &principal.UserID
	}

	orders, total, err := srv.orderRepo.List(ctx, filter, page)
	if err != nil {
		return entity.Page[*entity.Order]{}, errors.Wrap(err, "failed to list orders")
	}

	return entity.NewPage(orders, total, page), nil
}

func (srv *orderService) Get(ctx context.Context, principal entity.Principal, id uint) (*usecase.OrderOutput, error) {
	order, err := srv.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := service.EnsureOwnership(srv.authz, principal, permOrdersView, order.UserID); err != nil {
		return nil, err
	}

	items, err := srv.orderRepo.ListItems(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list order items")
	}

	return &usecase.OrderOutput{Order: order, Items: items}, nil
}

func (srv *orderService) Update(ctx context.Context, id uint, input *usecase.UpdateOrderInput) (*entity.Order, error) {
	if input.PaymentStatus != "" && !input.PaymentStatus.IsValid() {
		return nil, vocabularyError("paymentStatus", entity.PaymentStatuses())
	}
	if input.ShippingStatus != "" && !input.ShippingStatus.IsValid() {
		return nil, vocabularyError("shippingStatus", entity.ShippingStatuses())
	}

	order, err := srv.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.AssignedShipperID != nil {
		if err := requireShipper(ctx, srv.userRepo, *input.AssignedShipperID); err != nil {
			return nil, err
		}
		order.AssignedShipperID = input.AssignedShipperID
	}
	if input.PaymentStatus != "" {
		order.PaymentStatus = input.PaymentStatus
	}
	if input.ShippingStatus != "" {
		order.ShippingStatus = input.ShippingStatus
	}
	if address := strings.TrimSpace(input.ShippingAddress); address != "" {
		order.ShippingAddress = address
	}

	if err := srv.orderRepo.Update(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to update order")
	}

	return order, nil
}

func (srv *orderService) ListItems(ctx context.Context, principal entity.Principal, orderID uint) ([]*entity.OrderItem, error) {
	out, err := srv.Get(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}

	return out.Items, nil
}

// AddItem appends a line to an existing order, taking stock and growing the total.
func (srv *orderService) AddItem(ctx context.Context, orderID uint, input *usecase.AddOrderItemInput) (*usecase.OrderOutput, error) {
	if input.Quantity <= 0 {
		return nil, domainerrors.NewFieldError("quantity", "must be greater than 0")
	}

	out := &usecase.OrderOutput{}
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		orders := repos.NewOrderRepository()
		order, err := orders.FindByID(ctx, orderID)
		if err != nil {
			return mapNotFound(err, domainerrors.ErrOrderNotFound, "failed to find order")
		}

		line, err := loadStockLine(ctx, repos, input.ProductID, input.VariantID)
		if err != nil {
			return err
		}
		if err := line.decrement(ctx, repos, input.Quantity); err != nil {
			return err
		}

		item := snapshotItem(line, input.Quantity)
		item.OrderID = order.ID
		if err := orders.CreateItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to create order item")
		}

		order.TotalAmount = roundMoney(order.TotalAmount + item.Subtotal())
		if err := orders.Update(ctx, order); err != nil {
			return errors.Wrap(err, "failed to update order total")
		}

		items, err := orders.ListItems(ctx, order.ID)
		if err != nil {
			return errors.Wrap(err, "failed to list order items")
		}
		out.Order, out.Items = order, items

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add order item")
	}

	return out, nil
}

// snapshotItem captures price and names at order time.
func snapshotItem(line stockLine, quantity int) *entity.OrderItem {
	return &entity.OrderItem{
		ProductID:    line.product.ID,
		VariantID:    line.variantID(),
		Quantity:     quantity,
		PriceAtOrder: roundMoney(line.product.EffectivePrice()),
		ProductName:  line.product.Name,
		VariantName:  line.variantLabel(),
	}
}

// --- Payments ---

type paymentService struct{ *orderDeps }

// NewPaymentService is the constructor for the payment usecase.
func NewPaymentService(params OrderServiceParams) usecase.PaymentUsecase {
	return &paymentService{newOrderDeps(params)}
}

// Create records the single payment of an order and mirrors its status onto the order.
func (srv *paymentService) Create(ctx context.Context, principal entity.Principal, input *usecase.CreatePaymentInput) (*entity.Payment, error) {
	if !input.Method.IsValid() {
		return nil, vocabularyError("paymentMethod", entity.PaymentMethods())
	}
	status := input.Status
	if status == "" {
		status = entity.PaymentStatusPending
	}
	if !status.IsValid() {
		return nil, vocabularyError("status", entity.PaymentStatuses())
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, domainerrors.NewFieldError("amount", "must be greater than 0")
	}

	var payment *entity.Payment
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		orders := repos.NewOrderRepository()
		order, err := orders.FindByID(ctx, input.OrderID)
		if err != nil {
			return mapNotFound(err, domainerrors.ErrOrderNotFound, "failed to find order")
		}
		if err := service.EnsureOwnership(srv.authz, principal, permPaymentAdd, order.UserID); err != nil {
			return err
		}

		payments := repos.NewPaymentRepository()
		if _, err := payments.FindByOrderID(ctx, order.ID); err == nil {
			return domainerrors.ErrPaymentExists
		} else if !errors.Is(err, repository.ErrRecordNotFound) {
			return errors.Wrap(err, "failed to check existing payment")
		}

		amount := order.TotalAmount
		if input.Amount != nil {
			amount = roundMoney(*input.Amount)
		}
		payment = &entity.Payment{
			OrderID:     order.ID,
			Method:      input.Method,
			Amount:      amount,
			PaymentDate: time.Now(),
			Status:      status,
		}
		if err := payments.Create(ctx, payment); err != nil {
			return errors.Wrap(err, "failed to create payment")
		}

		order.PaymentStatus = status

		return orders.Update(ctx, order)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to record payment")
	}

	srv.log(ctx).Info("Payment recorded", slog.Uint64("orderID", uint64(payment.OrderID)), slog.String("status", string(payment.Status)))

	return payment, nil
}

func (srv *paymentService) Get(ctx context.Context, principal entity.Principal, id uint) (*entity.Payment, error) {
	payment, err := srv.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrPaymentNotFound, "failed to find payment")
	}

	return srv.visible(ctx, principal, payment)
}

func (srv *paymentService) GetByOrder(ctx context.Context, principal entity.Principal, orderID uint) (*entity.Payment, error) {
	payment, err := srv.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrPaymentNotFound, "failed to find payment")
	}

	return srv.visible(ctx, principal, payment)
}

func (srv *paymentService) visible(ctx context.Context, principal entity.Principal, payment *entity.Payment) (*entity.Payment, error) {
	order, err := srv.findOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}
	if err := service.EnsureOwnership(srv.authz, principal, permPaymentView, order.UserID); err != nil {
		return nil, err
	}

	return payment, nil
}

func (srv *paymentService) List(ctx context.Context, status entity.PaymentStatus, page entity.Pagination) (entity.Page[*entity.Payment], error) {
	if status != "" && !status.IsValid() {
		return entity.Page[*entity.Payment]{}, vocabularyError("status", entity.PaymentStatuses())
	}

	payments, total, err := srv.paymentRepo.List(ctx, status, page)
	if err != nil {
		return entity.Page[*entity.Payment]{}, errors.Wrap(err, "failed to list payments")
	}

	return entity.NewPage(payments, total, page), nil
}

func (srv *paymentService) Mine(ctx context.Context, principal entity.Principal, page entity.Pagination) (entity.Page[*entity.Payment], error) {
	payments, total, err := srv.paymentRepo.ListByCustomer(ctx, principal.UserID, page)
	if err != nil {
		return entity.Page[*entity.Payment]{}, errors.Wrap(err, "failed to list payments")
	}

	return entity.NewPage(payments, total, page), nil
}

func (srv *paymentService) Stats(ctx context.Context) (*entity.PaymentStats, error) {
	stats, err := srv.paymentRepo.Stats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load payment statistics")
	}

	return stats, nil
}

func (srv *paymentService) UpdateStatus(ctx context.Context, id uint, status entity.PaymentStatus) (*entity.Payment, error) {
	if !status.IsValid() {
		return nil, vocabularyError("status", entity.PaymentStatuses())
	}

	var payment *entity.Payment
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		payments := repos.NewPaymentRepository()
		var err error
		payment, err = payments.FindByID(ctx, id)
		if err != nil {
			return mapNotFound(err, domainerrors.ErrPaymentNotFound, "failed to find payment")
		}

		payment.Status = status
		if err := payments.Update(ctx, payment); err != nil {
			return errors.Wrap(err, "failed to update payment")
		}

		orders := repos.NewOrderRepository()
		order, err := orders.FindByID(ctx, payment.OrderID)
		if err != nil {
			return mapNotFound(err, domainerrors.ErrOrderNotFound, "failed to find order")
		}
		order.PaymentStatus = status

		return orders.Update(ctx, order)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update payment status")
	}

	return payment, nil
}

// --- Shipping ---

type shippingService struct{ *orderDeps }

// NewShippingService is the constructor for the shipping usecase.
func NewShippingService(params OrderServiceParams) usecase.ShippingUsecase {
	return &shippingService{newOrderDeps(params)}
}

func (srv *shippingService) Create(ctx context.Context, input *usecase.CreateShippingInput) (*entity.Shipping, error) {
	var shipping *entity.Shipping
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		orders := repos.NewOrderRepository()
		order, err := orders.FindByID(ctx, input.OrderID)
		if err != nil {
			return mapNotFound(err, domainerrors.ErrOrderNotFound, "failed to find order")
		}

		shippings := repos.NewShippingRepository()
		if _, err := shippings.FindByOrderID(ctx, order.ID); err == nil {
			return domainerrors.ErrShippingExists
		} else if !errors.Is(err, repository.ErrRecordNotFound) {
			return errors.Wrap(err, "failed to check existing shipping")
		}

		if input.ShipperID != nil {
			if err := requireShipper(ctx, repos.NewUserRepository(), *input.ShipperID); err != nil {
				return err
			}
		}

		address := strings.TrimSpace(input.ShippingAddress)
		if address == "" {
			address = order.ShippingAddress
		}
		shipping = &entity.Shipping{
			OrderID:         order.ID,
			ShipperID:       input.ShipperID,
			ShippingAddress: address,
			ShippingDate:    input.ShippingDate,
			Status:          entity.ShippingStatusPreparing,
		}
		if err := shippings.Create(ctx, shipping); err != nil {
			return errors.Wrap(err, "failed to create shipping")
		}

		order.ShippingStatus = shipping.Status
		if input.ShipperID != nil {
			order.AssignedShipperID = input.ShipperID
		}

		return orders.Update(ctx, order)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open shipping")
	}

	return shipping, nil
}

// Get is open to the order owner, the assigned shipper and holders of shipping.view.
func (srv *shippingService) Get(ctx context.Context, principal entity.Principal, id uint) (*entity.Shipping, error) {
	shipping, err := srv.shippingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrShippingNotFound, "failed to find shipping")
	}
	if shipping.ShipperID != nil && *shipping.ShipperID == principal.UserID {
		return shipping, nil
	}

	order, err := srv.findOrder(ctx, shipping.OrderID)
	if err != nil {
		return nil, err
	}
	if err := service.EnsureOwnership(srv.authz, principal, permShipView, order.UserID); err != nil {
		return nil, err
	}

	return shipping, nil
}

func (srv *shippingService) List(ctx context.Context, page entity.Pagination) (entity.Page[*entity.Shipping], error) {
	shippings, total, err := srv.shippingRepo.List(ctx, page)
	if err != nil {
		return entity.Page[*entity.Shipping]{}, errors.Wrap(err, "failed to list shipping")
	}

	return entity.NewPage(shippings, total, page), nil
}

func (srv *shippingService) Mine(ctx context.Context, principal entity.Principal) ([]*entity.Shipping, error) {
	var (
		shippings []*entity.Shipping
		err       error
	)
	if entity.SameRole(principal.Role, entity.RoleShipper) {
		shippings, err = srv.shippingRepo.ListByShipper(ctx, principal.UserID)
	} else {
		shippings, err = srv.shippingRepo.ListByCustomer(ctx, principal.UserID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shipping")
	}

	return shippings, nil
}

// UpdateStatus is reserved to the assigned shipper and Admin. Shipped stamps
// the shipping date when unset; Delivered stamps the delivery date.
func (srv *shippingService) UpdateStatus(ctx context.Context, principal entity.Principal, id uint, status entity.ShippingStatus) (*entity.Shipping, error) {
	if !status.IsValid() {
		return nil, vocabularyError("status", entity.ShippingStatuses())
	}

	var shipping *entity.Shipping
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		shippings := repos.NewShippingRepository()
		var err error
		shipping, err = shippings.FindByID(ctx, id)
		if err != nil {
			return mapNotFound(err, domainerrors.ErrShippingNotFound, "failed to find shipping")
		}

		var assigned uint
		if shipping.ShipperID != nil {
			assigned = *shipping.ShipperID
		}
		if err := service.EnsureOwnership(srv.authz, principal, entity.PermissionAll, assigned); err != nil {
			return err
		}

		now := time.Now()
		shipping.Status = status
		if status == entity.ShippingStatusShipped && shipping.ShippingDate == nil {
			shipping.ShippingDate = &now
		}
		if status == entity.ShippingStatusDelivered {
			shipping.DeliveryDate = &now
		}
		if err := shippings.Update(ctx, shipping); err != nil {
			return errors.Wrap(err, "failed to update shipping")
		}

		return syncOrderShipping(ctx, repos, shipping)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update shipping status")
	}

	srv.log(ctx).Info("Shipping status changed", slog.Uint64("shippingID", uint64(id)), slog.String("status", string(status)))

	return shipping, nil
}

func (srv *shippingService) AssignShipper(ctx context.Context, id, shipperID uint) (*entity.Shipping, error) {
	var shipping *entity.Shipping
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := requireShipper(ctx, repos.NewUserRepository(), shipperID); err != nil {
			return err
		}

		shippings := repos.NewShippingRepository()
		var err error
		shipping, err = shippings.FindByID(ctx, id)
		if err != nil {
			return mapNotFound(err, domainerrors.ErrShippingNotFound, "failed to find shipping")
		}

		shipping.ShipperID = &shipperID
		if err := shippings.Update(ctx, shipping); err != nil {
			return errors.Wrap(err, "failed to update shipping")
		}

		return syncOrderShipping(ctx, repos, shipping)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to assign shipper")
	}

	return shipping, nil
}

// syncOrderShipping mirrors the shipping status and shipper onto the order.
func syncOrderShipping(ctx context.Context, repos repository.RepositoryFactory, shipping *entity.Shipping) error {
	orders := repos.NewOrderRepository()
	order, err := orders.FindByID(ctx, shipping.OrderID)
	if err != nil {
		return mapNotFound(err, domainerrors.ErrOrderNotFound, "failed to find order")
	}

	order.ShippingStatus = shipping.Status
	if shipping.ShipperID != nil {
		order.AssignedShipperID = shipping.ShipperID
	}

	return orders.Update(ctx, order)
}
