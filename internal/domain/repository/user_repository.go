// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"time"

	"shoponline/internal/domain/entity"
)

// UserFilter narrows user listings.
type UserFilter struct {
	IncludeInactive bool
	Search          string
	RoleID          *uint
}

// UserRepository defines the standard operations for user persistence.
type UserRepository interface {
	// FindByID retrieves a user by id regardless of the active flag.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindActiveByUsername matches the username case-insensitively among active users.
	FindActiveByUsername(ctx context.Context, username string) (*entity.User, error)

	// UsernameTaken reports whether another user (id != excludeID) holds the username, ignoring case.
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)

	// EmailTaken reports whether another user (id != excludeID) holds the email, ignoring case.
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)

	// List returns one page of users ordered by id.
	List(ctx context.Context, filter UserFilter, page entity.Pagination) ([]*entity.User, int64, error)

	// CountByRole counts users of any state referencing the role.
	CountByRole(ctx context.Context, roleID uint) (int64, error)

	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error

	// Deactivate soft-deletes a user.
	Deactivate(ctx context.Context, id uint, at time.Time) error
}
