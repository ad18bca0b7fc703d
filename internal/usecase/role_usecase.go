package usecase

import (
	"context"

	"shoponline/internal/domain/entity"
)

// RoleInput carries the editable fields of a role.
type RoleInput struct {
	Name        string
	Description string
}

// RoleUsecase manages roles. Permissions stay in the static table keyed by role name.
type RoleUsecase interface {
	List(ctx context.Context) ([]*entity.Role, error)
	Get(ctx context.Context, id uint) (*entity.Role, error)
	Create(ctx context.Context, input *RoleInput) (*entity.Role, error)
	Update(ctx context.Context, id uint, input *RoleInput) (*entity.Role, error)

	// Delete fails with Conflict while any user, active or not, holds the role.
	Delete(ctx context.Context, id uint) error

	ListUsers(ctx context.Context, id uint, page entity.Pagination) (entity.Page[*entity.User], error)
}
