package postgres

import (
	"context"
	"strings"

	"shoponline/internal/domain/entity"
	"shoponline/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// sqlite reports uniqueness through the message only
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isCheckConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "check constraint")
}

// first loads one row into dest, mapping a miss to repository.ErrRecordNotFound.
func first(ctx context.Context, db *gorm.DB, dest any, query string, args ...any) error {
	err := db.WithContext(ctx).Where(query, args...).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrRecordNotFound
	}

	return err
}

// exists reports whether any row of the model matches.
func exists(ctx context.Context, db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// deleteByID removes one row, reporting ErrRecordNotFound when nothing matched.
func deleteByID(ctx context.Context, db *gorm.DB, model any, id uint) error {
	result := db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecordNotFound
	}

	return nil
}

// findPage counts the filtered rows, then loads one ordered page of them into dest.
func findPage(query *gorm.DB, page entity.Pagination, order string, dest any) (int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := query.Order(order).Offset(page.Offset()).Limit(page.PageSize).Find(dest).Error; err != nil {
		return 0, err
	}

	return total, nil
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
