package service

import (
	"context"

	"shoponline/internal/domain/entity"
)

// UserDirectory is a cache-backed lookup of users and roles. The store stays
// the source of truth; entries may be served stale within their freshness window.
type UserDirectory interface {
	// GetByUsername matches case-insensitively among active users.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// GetByID returns an active user.
	GetByID(ctx context.Context, id uint) (*entity.User, error)

	GetRole(ctx context.Context, id uint) (*entity.Role, error)

	// Invalidate evicts every entry keyed by the user's id or username.
	// Callers mutating username, role or the active flag must call it.
	Invalidate(ctx context.Context, id uint)

	// InvalidateRole evicts a cached role.
	InvalidateRole(id uint)
}
