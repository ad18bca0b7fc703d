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

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (repo *cartRepository) FindByUserID(ctx context.Context, userID uint) (*entity.Cart, error) {
	var cartM model.CartModel
	err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ?", userID).
		Take(&cartM).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find cart")
	}

	return toCartDomain(&cartM), nil
}

func (repo *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	cartM := &model.CartModel{UserID: cart.UserID}
	if err := repo.db.WithContext(ctx).Omit("Items").Create(cartM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WithDetails("cart already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart")
	}
	cart.ID = cartM.ID
	cart.CreatedAt = cartM.CreatedAt
	cart.UpdatedAt = cartM.UpdatedAt

	return nil
}

func (repo *cartRepository) FindLine(ctx context.Context, cartID, productID uint, variantID *uint) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	var err error
	if variantID == nil {
		err = first(ctx, repo.db, &itemM, "cart_id = ? AND product_id = ? AND variant_id IS NULL", cartID, productID)
	} else {
		err = first(ctx, repo.db, &itemM, "cart_id = ? AND product_id = ? AND variant_id = ?", cartID, productID, *variantID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find cart line")
	}

	item := toCartItemDomain(&itemM)

	return &item, nil
}

func (repo *cartRepository) FindItemByID(ctx context.Context, itemID uint) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	if err := first(ctx, repo.db, &itemM, "id = ?", itemID); err != nil {
		return nil, errors.Wrap(err, "failed to find cart item")
	}

	item := toCartItemDomain(&itemM)

	return &item, nil
}

func (repo *cartRepository) CreateItem(ctx context.Context, item *entity.CartItem) error {
	itemM := &model.CartItemModel{
		CartID:    item.CartID,
		ProductID: item.ProductID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
	}
	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart item")
	}
	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt

	return nil
}

func (repo *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	result := repo.db.WithContext(ctx).Model(&model.CartItemModel{}).Where("id = ?", itemID).Update("quantity", quantity)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecordNotFound
	}

	return nil
}

func (repo *cartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	if err := deleteByID(ctx, repo.db, &model.CartItemModel{}, itemID); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return err
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cart item")
	}

	return nil
}

func (repo *cartRepository) ClearItems(ctx context.Context, cartID uint) error {
	if err := repo.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear cart")
	}

	return nil
}

func toCartDomain(data *model.CartModel) *entity.Cart {
	items := make([]entity.CartItem, 0, len(data.Items))
	for i := range data.Items {
		items = append(items, toCartItemDomain(&data.Items[i]))
	}

	return &entity.Cart{
		ID:        data.ID,
		UserID:    data.UserID,
		Items:     items,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func toCartItemDomain(data *model.CartItemModel) entity.CartItem {
	return entity.CartItem{
		ID:        data.ID,
		CartID:    data.CartID,
		ProductID: data.ProductID,
		VariantID: data.VariantID,
		Quantity:  data.Quantity,
		CreatedAt: data.CreatedAt,
	}
}
