package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "shoponline/internal/delivery/context"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/service"
	"shoponline/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AccessGuardParams holds the dependencies for AccessGuard.
type AccessGuardParams struct {
	fx.In

	TokenService service.TokenService
	Authorizer   service.Authorizer
	Metrics      *metrics.Metrics `optional:"true"`
	Logger       *slog.Logger
}

// AccessGuard authenticates bearer tokens and gates routes on permissions.
type AccessGuard struct {
	tokens     service.TokenService
	authorizer service.Authorizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewAccessGuard is the constructor for AccessGuard.
func NewAccessGuard(params AccessGuardParams) *AccessGuard {
	return &AccessGuard{
		tokens:     params.TokenService,
		authorizer: params.Authorizer,
		metrics:    params.Metrics,
		logger:     params.Logger.With("component", "access_guard"),
	}
}

// Authenticate validates the bearer token and stores the principal on the
// request. Every failure is the same 401.
func (g *AccessGuard) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, bearerPrefix)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			g.metrics.AuthzDecision("unauthenticated")

			return domainerrors.ErrUnauthenticated
		}

		claims, err := g.tokens.Validate(token)
		if err != nil {
			g.metrics.AuthzDecision("unauthenticated")
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), g.logger).
				Debug("rejected bearer token", slog.Any("error", err))

			return domainerrors.ErrUnauthenticated
		}

		deliverycontext.SetPrincipal(c, entity.PrincipalFromClaims(claims))

		return next(c)
	}
}

// RequirePermission admits the request only when the principal's role holds
// every listed permission. It must run after Authenticate.
func (g *AccessGuard) RequirePermission(permissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := deliverycontext.GetPrincipal(c)
			if !ok {
				g.metrics.AuthzDecision("unauthenticated")

				return domainerrors.ErrUnauthenticated
			}

			for _, permission := range permissions {
				if !g.authorizer.Authorize(principal.Role, permission) {
					g.metrics.AuthzDecision("forbidden")
					deliverycontext.GetLoggerOrDefault(c.Request().Context(), g.logger).
						Info("permission denied",
							slog.Uint64("user_id", uint64(principal.UserID)),
							slog.String("role", principal.Role),
							slog.String("permission", permission),
						)

					return domainerrors.ErrForbidden
				}
			}

			g.metrics.AuthzDecision("allowed")

			return next(c)
		}
	}
}

// RequireAnyPermission admits the request when the principal's role holds at
// least one of the listed permissions. It must run after Authenticate.
func (g *AccessGuard) RequireAnyPermission(permissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := deliverycontext.GetPrincipal(c)
			if !ok {
				g.metrics.AuthzDecision("unauthenticated")

				return domainerrors.ErrUnauthenticated
			}

			for _, permission := range permissions {
				if g.authorizer.Authorize(principal.Role, permission) {
					g.metrics.AuthzDecision("allowed")

					return next(c)
				}
			}

			g.metrics.AuthzDecision("forbidden")
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), g.logger).
				Info("permission denied",
					slog.Uint64("user_id", uint64(principal.UserID)),
					slog.String("role", principal.Role),
					slog.Any("permissions", permissions),
				)

			return domainerrors.ErrForbidden
		}
	}
}

// Principal returns the authenticated identity of the request, or 401.
func Principal(c echo.Context) (entity.Principal, error) {
	principal, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return entity.Principal{}, domainerrors.ErrUnauthenticated
	}

	return principal, nil
}
