// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"shoponline/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required for self-registration. The
// account always receives the Customer role.
type RegisterInput struct {
	Username string
	Password string
	Email    *string
	Phone    *string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string
	Password string
}

// CreateUserInput is the admin variant of registration with an explicit role.
type CreateUserInput struct {
	Username string
	Password string
	Email    *string
	Phone    *string
	RoleID   *uint
}

// UpdateUserInput changes the given fields; nil pointers are left untouched.
type UpdateUserInput struct {
	ID       uint
	Username *string
	Password *string
	Email    *string
	Phone    *string
	RoleID   *uint
	IsActive *bool
}

// ListUsersInput filters the admin user listing.
type ListUsersInput struct {
	IncludeInactive bool
	Search          string
	RoleID          *uint
	Page            entity.Pagination
}

// --- Output DTOs ---

// UserOutput is a user with its resolved role name.
type UserOutput struct {
	User     *entity.User
	RoleName string
}

// LoginOutput returns the signed access token after a successful login.
type LoginOutput struct {
	Token    string
	User     *entity.User
	RoleName string
}

// UserUsecase defines the interface for user-related business operations.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*UserOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Me(ctx context.Context, principal entity.Principal) (*UserOutput, error)

	List(ctx context.Context, input *ListUsersInput) (entity.Page[*UserOutput], error)
	Get(ctx context.Context, id uint) (*UserOutput, error)
	Create(ctx context.Context, input *CreateUserInput) (*UserOutput, error)
	Update(ctx context.Context, input *UpdateUserInput) (*UserOutput, error)

	// Delete deactivates the user; the row and its history are kept.
	Delete(ctx context.Context, id uint) error
}
