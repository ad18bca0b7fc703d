// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a user by id regardless of the active flag.
func (repo *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var userM model.UserModel
	if err := first(ctx, repo.db, &userM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindActiveByUsername matches the username case-insensitively among active users.
func (repo *userRepository) FindActiveByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userM model.UserModel
	if err := first(ctx, repo.db, &userM, "LOWER(username) = ? AND is_active = ?", lower(username), true); err != nil {
		return nil, errors.Wrap(err, "failed to find user by username")
	}

	return toUserDomain(&userM), nil
}

// UsernameTaken reports whether any other user holds the username, ignoring case.
func (repo *userRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	taken, err := exists(ctx, repo.db, &model.UserModel{}, "LOWER(username) = ? AND id <> ?", lower(username), excludeID)

	return taken, errors.Wrap(err, "failed to check username")
}

// EmailTaken reports whether any other user holds the email, ignoring case.
func (repo *userRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	taken, err := exists(ctx, repo.db, &model.UserModel{}, "LOWER(email) = ? AND id <> ?", lower(email), excludeID)

	return taken, errors.Wrap(err, "failed to check email")
}

// List returns one page of users ordered by id.
func (repo *userRepository) List(ctx context.Context, filter repository.UserFilter, page entity.Pagination) ([]*entity.User, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.UserModel{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + lower(filter.Search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if filter.RoleID != nil {
		query = query.Where("role_id = ?", *filter.RoleID)
	}

	var rows []model.UserModel
	total, err := findPage(query, page, "id", &rows)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(rows))
	for i := range rows {
		users = append(users, toUserDomain(&rows[i]))
	}

	return users, total, nil
}

// CountByRole counts users of any state referencing the role.
func (repo *userRepository) CountByRole(ctx context.Context, roleID uint) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.UserModel{}).Where("role_id = ?", roleID).Count(&count).Error

	return count, errors.Wrap(err, "failed to count users by role")
}

// Create persists a new user.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUsernameTaken.WrapMessage("unique constraint on users")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update saves every column of an existing user.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUsernameTaken.WrapMessage("unique constraint on users")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Deactivate soft-deletes a user.
func (repo *userRepository) Deactivate(ctx context.Context, id uint, at time.Time) error {
	result := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": at})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to deactivate user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecordNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		Email:        data.Email,
		Phone:        data.Phone,
		RoleID:       data.RoleID,
		IsActive:     data.IsActive,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		Email:        data.Email,
		Phone:        data.Phone,
		RoleID:       data.RoleID,
		IsActive:     data.IsActive,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
