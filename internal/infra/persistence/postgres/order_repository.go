package postgres

import (
	"context"

	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (repo *orderRepository) FindByID(ctx context.Context, id uint) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := first(ctx, repo.db, &orderM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

// List returns orders newest first.
func (repo *orderRepository) List(ctx context.Context, filter entity.OrderFilter, page entity.Pagination) ([]*entity.Order, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.OrderModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", string(filter.PaymentStatus))
	}
	if filter.ShippingStatus != "" {
		query = query.Where("shipping_status = ?", string(filter.ShippingStatus))
	}

	var rows []model.OrderModel
	total, err := findPage(query, page, "order_date DESC, id DESC", &rows)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, toOrderDomain(&rows[i]))
	}

	return orders, total, nil
}

func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)
	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}
	order.ID = orderM.ID
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)
	if err := repo.db.WithContext(ctx).Save(orderM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update order")
	}
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

func (repo *orderRepository) ListItems(ctx context.Context, orderID uint) ([]*entity.OrderItem, error) {
	var rows []model.OrderItemModel
	if err := repo.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list order items")
	}

	items := make([]*entity.OrderItem, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		items = append(items, &entity.OrderItem{
			ID:           row.ID,
			OrderID:      row.OrderID,
			ProductID:    row.ProductID,
			VariantID:    row.VariantID,
			Quantity:     row.Quantity,
			PriceAtOrder: row.PriceAtOrder,
			ProductName:  row.ProductName,
			VariantName:  row.VariantName,
		})
	}

	return items, nil
}

func (repo *orderRepository) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	itemM := &model.OrderItemModel{
		OrderID:      item.OrderID,
		ProductID:    item.ProductID,
		VariantID:    item.VariantID,
		Quantity:     item.Quantity,
		PriceAtOrder: item.PriceAtOrder,
		ProductName:  item.ProductName,
		VariantName:  item.VariantName,
	}
	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order item")
	}
	item.ID = itemM.ID

	return nil
}

func toOrderDomain(data *model.OrderModel) *entity.Order {
	return &entity.Order{
		ID:                data.ID,
		UserID:            data.UserID,
		OrderDate:         data.OrderDate,
		TotalAmount:       data.TotalAmount,
		ShippingAddress:   data.ShippingAddress,
		PaymentStatus:     entity.PaymentStatus(data.PaymentStatus),
		ShippingStatus:    entity.ShippingStatus(data.ShippingStatus),
		AssignedShipperID: data.AssignedShipperID,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	return &model.OrderModel{
		ID:                data.ID,
		UserID:            data.UserID,
		OrderDate:         data.OrderDate,
		TotalAmount:       data.TotalAmount,
		ShippingAddress:   data.ShippingAddress,
		PaymentStatus:     string(data.PaymentStatus),
		ShippingStatus:    string(data.ShippingStatus),
		AssignedShipperID: data.AssignedShipperID,
		UpdatedAt:         data.UpdatedAt,
	}
}

// --- Payments ---

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository is the constructor for paymentRepository.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) FindByID(ctx context.Context, id uint) (*entity.Payment, error) {
	var paymentM model.PaymentModel
	if err := first(ctx, repo.db, &paymentM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find payment")
	}

	return toPaymentDomain(&paymentM), nil
}

func (repo *paymentRepository) FindByOrderID(ctx context.Context, orderID uint) (*entity.Payment, error) {
	var paymentM model.PaymentModel
	if err := first(ctx, repo.db, &paymentM, "order_id = ?", orderID); err != nil {
		return nil, errors.Wrap(err, "failed to find payment by order")
	}

	return toPaymentDomain(&paymentM), nil
}

func (repo *paymentRepository) List(ctx context.Context, status entity.PaymentStatus, page entity.Pagination) ([]*entity.Payment, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.PaymentModel{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var rows []model.PaymentModel
	total, err := findPage(query, page, "payment_date DESC, id DESC", &rows)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list payments")
	}

	return toPaymentDomains(rows), total, nil
}

func (repo *paymentRepository) ListByCustomer(ctx context.Context, userID uint, page entity.Pagination) ([]*entity.Payment, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.PaymentModel{}).
		Where("order_id IN (?)", repo.db.Model(&model.OrderModel{}).Select("id").Where("user_id = ?", userID))

	var rows []model.PaymentModel
	total, err := findPage(query, page, "payment_date DESC, id DESC", &rows)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list payments by customer")
	}

	return toPaymentDomains(rows), total, nil
}

func (repo *paymentRepository) Stats(ctx context.Context) (*entity.PaymentStats, error) {
	byStatus, err := repo.buckets(ctx, "status")
	if err != nil {
		return nil, err
	}
	byMethod, err := repo.buckets(ctx, "method")
	if err != nil {
		return nil, err
	}

	stats := &entity.PaymentStats{ByStatus: byStatus, ByMethod: byMethod}
	for _, bucket := range byStatus {
		stats.TotalPayments += bucket.Count
		stats.TotalAmount += bucket.Amount
	}

	return stats, nil
}

// buckets groups payments by one of the fixed columns status or method.
func (repo *paymentRepository) buckets(ctx context.Context, column string) ([]entity.PaymentBucket, error) {
	var rows []struct {
		Bucket string
		Count  int64
		Amount float64
	}
	err := repo.db.WithContext(ctx).Model(&model.PaymentModel{}).
		Select(column + " AS bucket, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group(column).
		Order(column).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to group payments by %s", column)
	}

	buckets := make([]entity.PaymentBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, entity.PaymentBucket{Key: row.Bucket, Count: row.Count, Amount: row.Amount})
	}

	return buckets, nil
}

func (repo *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	paymentM := fromPaymentDomain(payment)
	if err := repo.db.WithContext(ctx).Create(paymentM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrPaymentExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create payment")
	}
	payment.ID = paymentM.ID

	return nil
}

func (repo *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	if err := repo.db.WithContext(ctx).Save(fromPaymentDomain(payment)).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update payment")
	}

	return nil
}

func toPaymentDomains(rows []model.PaymentModel) []*entity.Payment {
	out := make([]*entity.Payment, 0, len(rows))
	for i := range rows {
		out = append(out, toPaymentDomain(&rows[i]))
	}

	return out
}

func toPaymentDomain(data *model.PaymentModel) *entity.Payment {
	return &entity.Payment{
		ID:          data.ID,
		OrderID:     data.OrderID,
		Method:      entity.PaymentMethod(data.Method),
		Amount:      data.Amount,
		PaymentDate: data.PaymentDate,
		Status:      entity.PaymentStatus(data.Status),
	}
}

func fromPaymentDomain(data *entity.Payment) *model.PaymentModel {
	return &model.PaymentModel{
		ID:          data.ID,
		OrderID:     data.OrderID,
		Method:      string(data.Method),
		Amount:      data.Amount,
		PaymentDate: data.PaymentDate,
		Status:      string(data.Status),
	}
}

// --- Shipping ---

type shippingRepository struct {
	db *gorm.DB
}

// NewShippingRepository is the constructor for shippingRepository.
func NewShippingRepository(db *gorm.DB) repository.ShippingRepository {
	return &shippingRepository{db: db}
}

func (repo *shippingRepository) FindByID(ctx context.Context, id uint) (*entity.Shipping, error) {
	var shippingM model.ShippingModel
	if err := first(ctx, repo.db, &shippingM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find shipping")
	}

	return toShippingDomain(&shippingM), nil
}

func (repo *shippingRepository) FindByOrderID(ctx context.Context, orderID uint) (*entity.Shipping, error) {
	var shippingM model.ShippingModel
	if err := first(ctx, repo.db, &shippingM, "order_id = ?", orderID); err != nil {
		return nil, errors.Wrap(err, "failed to find shipping by order")
	}

	return toShippingDomain(&shippingM), nil
}

func (repo *shippingRepository) List(ctx context.Context, page entity.Pagination) ([]*entity.Shipping, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ShippingModel{})

	var rows []model.ShippingModel
	total, err := findPage(query, page, "id DESC", &rows)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list shippings")
	}

	return toShippingDomains(rows), total, nil
}

func (repo *shippingRepository) ListByShipper(ctx context.Context, shipperID uint) ([]*entity.Shipping, error) {
	var rows []model.ShippingModel
	if err := repo.db.WithContext(ctx).Where("shipper_id = ?", shipperID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list shippings by shipper")
	}

	return toShippingDomains(rows), nil
}

func (repo *shippingRepository) ListByCustomer(ctx context.Context, userID uint) ([]*entity.Shipping, error) {
	var rows []model.ShippingModel
	err := repo.db.WithContext(ctx).
		Where("order_id IN (?)", repo.db.Model(&model.OrderModel{}).Select("id").Where("user_id = ?", userID)).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shippings by customer")
	}

	return toShippingDomains(rows), nil
}

func (repo *shippingRepository) Create(ctx context.Context, shipping *entity.Shipping) error {
	shippingM := fromShippingDomain(shipping)
	if err := repo.db.WithContext(ctx).Create(shippingM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrShippingExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create shipping")
	}
	shipping.ID = shippingM.ID

	return nil
}

func (repo *shippingRepository) Update(ctx context.Context, shipping *entity.Shipping) error {
	if err := repo.db.WithContext(ctx).Save(fromShippingDomain(shipping)).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update shipping")
	}

	return nil
}

func toShippingDomains(rows []model.ShippingModel) []*entity.Shipping {
	out := make([]*entity.Shipping, 0, len(rows))
	for i := range rows {
		out = append(out, toShippingDomain(&rows[i]))
	}

	return out
}

func toShippingDomain(data *model.ShippingModel) *entity.Shipping {
	return &entity.Shipping{
		ID:              data.ID,
		OrderID:         data.OrderID,
		ShipperID:       data.ShipperID,
		ShippingAddress: data.ShippingAddress,
		ShippingDate:    data.ShippingDate,
		DeliveryDate:    data.DeliveryDate,
		Status:          entity.ShippingStatus(data.Status),
	}
}

func fromShippingDomain(data *entity.Shipping) *model.ShippingModel {
	return &model.ShippingModel{
		ID:              data.ID,
		OrderID:         data.OrderID,
		ShipperID:       data.ShipperID,
		ShippingAddress: data.ShippingAddress,
		ShippingDate:    data.ShippingDate,
		DeliveryDate:    data.DeliveryDate,
		Status:          string(data.Status),
	}
}
