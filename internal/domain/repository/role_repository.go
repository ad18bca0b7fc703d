package repository

import (
	"context"

	"shoponline/internal/domain/entity"
)

// RoleRepository persists roles.
type RoleRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Role, error)
	List(ctx context.Context) ([]*entity.Role, error)

	// NameTaken compares names case-insensitively against roles other than excludeID.
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)

	Create(ctx context.Context, role *entity.Role) error
	Update(ctx context.Context, role *entity.Role) error
	Delete(ctx context.Context, id uint) error
}
