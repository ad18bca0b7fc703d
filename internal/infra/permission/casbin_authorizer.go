// Package permission enforces the role permission table through casbin.
package permission

import (
	"log/slog"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/pkg/errors"

	"shoponline/internal/domain/entity"
	"shoponline/internal/domain/service"
)

// rbacModel grants a request when the role holds the universal grant, the
// resource wildcard, or the exact resource and verb.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "all" || (r.obj == p.obj && (p.act == "*" || r.act == p.act)))
`

var _ service.Authorizer = (*CasbinAuthorizer)(nil)

// CasbinAuthorizer evaluates permissions against policies loaded from the
// static role table.
type CasbinAuthorizer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewCasbinAuthorizer builds the enforcer and loads every (role, grant) pair.
func NewCasbinAuthorizer(logger *slog.Logger) (*CasbinAuthorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, errors.Wrap(err, "parse casbin model")
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, errors.Wrap(err, "create casbin enforcer")
	}

	for role, grants := range entity.RolePolicies() {
		for _, grant := range grants {
			obj, act := policyFor(grant)
			if _, err := enforcer.AddPolicy(entity.CanonicalRoleName(role), obj, act); err != nil {
				return nil, errors.Wrapf(err, "add policy %s -> %s", role, grant)
			}
		}
	}

	return &CasbinAuthorizer{
		enforcer: enforcer,
		logger:   logger,
	}, nil
}

// NewAuthorizer exposes the casbin authorizer as a service.Authorizer.
func NewAuthorizer(logger *slog.Logger) (service.Authorizer, error) {
	return NewCasbinAuthorizer(logger)
}

// Authorize reports whether the role holds the permission.
func (a *CasbinAuthorizer) Authorize(roleName, permission string) bool {
	if roleName == "" || permission == "" {
		return false
	}

	obj, act := policyFor(permission)
	if obj == "" || act == "" {
		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	allowed, err := a.enforcer.Enforce(entity.CanonicalRoleName(roleName), obj, act)
	if err != nil {
		a.logger.Error("Permission check failed",
			slog.String("role", roleName),
			slog.String("permission", permission),
			slog.Any("error", err),
		)

		return false
	}

	return allowed
}

// Permissions lists the grants of a role.
func (a *CasbinAuthorizer) Permissions(roleName string) []string {
	return entity.PermissionsFor(roleName)
}

func policyFor(grant string) (obj, act string) {
	if grant == entity.PermissionAll {
		return entity.PermissionAll, entity.VerbAny
	}

	return entity.SplitPermission(grant)
}
