package service

import (
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
)

// Authorizer answers whether a role holds a permission.
type Authorizer interface {
	// Authorize is true iff the role holds "all", the exact permission, or the
	// resource wildcard. Unknown roles authorize nothing.
	Authorize(roleName, permission string) bool

	// Permissions lists the grants of a role.
	Permissions(roleName string) []string
}

// EnsureOwnership allows the resource owner, or a principal whose role holds
// bypassPermission. An empty bypassPermission means owner-only.
func EnsureOwnership(authz Authorizer, principal entity.Principal, bypassPermission string, ownerID uint) error {
	if principal.UserID != 0 && principal.UserID == ownerID {
		return nil
	}

	if bypassPermission != "" && authz.Authorize(principal.Role, bypassPermission) {
		return nil
	}

	return domainerrors.ErrForbidden.WithDetails("resource belongs to another user")
}

// RequirePermission returns Forbidden unless the principal's role holds the permission.
func RequirePermission(authz Authorizer, principal entity.Principal, permission string) error {
	if authz.Authorize(principal.Role, permission) {
		return nil
	}

	return domainerrors.ErrForbidden.WithDetails("missing permission " + permission)
}
