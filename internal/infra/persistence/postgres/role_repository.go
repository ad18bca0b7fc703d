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

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository is the constructor for roleRepository.
func NewRoleRepository(db *gorm.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func (repo *roleRepository) FindByID(ctx context.Context, id uint) (*entity.Role, error) {
	var roleM model.RoleModel
	if err := first(ctx, repo.db, &roleM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find role")
	}

	return toRoleDomain(&roleM), nil
}

func (repo *roleRepository) List(ctx context.Context) ([]*entity.Role, error) {
	var rows []model.RoleModel
	if err := repo.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list roles")
	}

	roles := make([]*entity.Role, 0, len(rows))
	for i := range rows {
		roles = append(roles, toRoleDomain(&rows[i]))
	}

	return roles, nil
}

func (repo *roleRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	taken, err := exists(ctx, repo.db, &model.RoleModel{}, "LOWER(name) = ? AND id <> ?", lower(name), excludeID)

	return taken, errors.Wrap(err, "failed to check role name")
}

func (repo *roleRepository) Create(ctx context.Context, role *entity.Role) error {
	roleM := &model.RoleModel{ID: role.ID, Name: role.Name, Description: role.Description}
	if err := repo.db.WithContext(ctx).Create(roleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrRoleNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create role")
	}
	role.ID = roleM.ID

	return nil
}

func (repo *roleRepository) Update(ctx context.Context, role *entity.Role) error {
	roleM := &model.RoleModel{ID: role.ID, Name: role.Name, Description: role.Description}
	if err := repo.db.WithContext(ctx).Save(roleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrRoleNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update role")
	}

	return nil
}

func (repo *roleRepository) Delete(ctx context.Context, id uint) error {
	if err := deleteByID(ctx, repo.db, &model.RoleModel{}, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return err
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete role")
	}

	return nil
}

func toRoleDomain(data *model.RoleModel) *entity.Role {
	return &entity.Role{ID: data.ID, Name: data.Name, Description: data.Description}
}
