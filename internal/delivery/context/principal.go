package context

import (
	"context"

	"shoponline/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyPrincipal is the key for storing the authenticated identity.
const KeyPrincipal ContextKey = "principal"

// SetPrincipal stores the identity in both echo.Context and the request context.
func SetPrincipal(c echo.Context, principal entity.Principal) {
	c.Set(string(KeyPrincipal), principal)
	c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), principal)))
}

// GetPrincipal extracts the identity established by the access guard.
func GetPrincipal(c echo.Context) (entity.Principal, bool) {
	return echoValue[entity.Principal](c, KeyPrincipal)
}

// WithPrincipal returns a new context carrying the identity.
func WithPrincipal(ctx context.Context, principal entity.Principal) context.Context {
	return context.WithValue(ctx, KeyPrincipal, principal)
}

// PrincipalFromContext extracts the identity from standard context.Context.
func PrincipalFromContext(ctx context.Context) (entity.Principal, bool) {
	return value[entity.Principal](ctx, KeyPrincipal)
}
