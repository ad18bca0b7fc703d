// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"math"
	"strings"

	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"

	"github.com/pkg/errors"
)

// mapNotFound turns a repository miss into the given domain error and wraps
// anything else with the operation name.
func mapNotFound(err error, notFound *domainerrors.BaseError, op string) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return notFound
	}

	return errors.Wrap(err, op)
}

// mapStockError turns a failed conditional decrement into InsufficientStock.
func mapStockError(err error, item string) error {
	if errors.Is(err, repository.ErrInsufficientStock) {
		return domainerrors.ErrInsufficientStock.WithDetails(item)
	}

	return errors.Wrap(err, "failed to decrement stock")
}

func vocabularyError[T ~string](field string, allowed []T) error {
	names := make([]string, 0, len(allowed))
	for _, v := range allowed {
		names = append(names, string(v))
	}

	return domainerrors.NewFieldError(field, "must be one of: "+strings.Join(names, ", "))
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// trimmedOrNil drops blank optional strings.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}

	return &v
}

// stockLine resolves the holding a cart or order line draws from: the variant
// when one is given, otherwise the product itself.
type stockLine struct {
	product *entity.Product
	variant *entity.ProductVariant
}

func (l stockLine) available() int {
	if l.variant != nil {
		return l.variant.StockQuantity
	}

	return l.product.StockQuantity
}

func (l stockLine) label() string {
	if l.variant != nil {
		if label := l.variant.Label(); label != "" {
			return fmt.Sprintf("%s (%s)", l.product.Name, label)
		}
	}

	return l.product.Name
}

func (l stockLine) variantLabel() string {
	if l.variant == nil {
		return ""
	}

	return l.variant.Label()
}

func (l stockLine) variantID() *uint {
	if l.variant == nil {
		return nil
	}

	id := l.variant.ID

	return &id
}

// decrement takes quantity from the line's holding only if enough remains.
func (l stockLine) decrement(ctx context.Context, repos repository.RepositoryFactory, quantity int) error {
	var err error
	if l.variant != nil {
		err = repos.NewVariantRepository().DecrementStock(ctx, l.variant.ID, quantity)
	} else {
		err = repos.NewProductRepository().DecrementStock(ctx, l.product.ID, quantity)
	}
	if err != nil {
		return mapStockError(err, l.label())
	}

	return nil
}

// loadStockLine fetches the product and, when given, a variant that must belong to it.
func loadStockLine(ctx context.Context, repos repository.RepositoryFactory, productID uint, variantID *uint) (stockLine, error) {
	product, err := repos.NewProductRepository().FindByID(ctx, productID)
	if err != nil {
		return stockLine{}, mapNotFound(err, domainerrors.ErrProductNotFound, "failed to find product")
	}

	line := stockLine{product: product}
	if variantID == nil {
		return line, nil
	}

	variant, err := repos.NewVariantRepository().FindByID(ctx, *variantID)
	if err != nil {
		return stockLine{}, mapNotFound(err, domainerrors.ErrVariantNotFound, "failed to find variant")
	}
	if variant.ProductID != product.ID {
		return stockLine{}, domainerrors.ErrVariantProductMismatch
	}
	line.variant = variant

	return line, nil
}

// requireShipper accepts only active users holding the Shipper role.
func requireShipper(ctx context.Context, users repository.UserRepository, shipperID uint) error {
	user, err := users.FindByID(ctx, shipperID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return domainerrors.ErrInvalidShipper
	}
	if err != nil {
		return errors.Wrap(err, "failed to find shipper")
	}
	if !user.IsActive || user.RoleID == nil || *user.RoleID != entity.RoleIDShipper {
		return domainerrors.ErrInvalidShipper
	}

	return nil
}
