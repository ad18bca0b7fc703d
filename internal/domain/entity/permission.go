package entity

import (
	"slices"
	"strings"
)

// PermissionAll is the universal grant held by Admin.
const PermissionAll = "all"

// Resources named in permission strings.
const (
	ResourceUsers      = "users"
	ResourceRoles      = "roles"
	ResourceProducts   = "products"
	ResourceCategories = "categories"
	ResourceOrders     = "orders"
	ResourcePayments   = "payments"
	ResourceShipping   = "shipping"
	ResourceReviews    = "reviews"
	ResourceComplaints = "complaints"
	ResourceReports    = "reports"
	ResourceCarts      = "carts"
)

// Verbs named in permission strings.
const (
	VerbView   = "view"
	VerbCreate = "create"
	VerbUpdate = "update"
	VerbDelete = "delete"
	VerbAny    = "*"
)

// rolePermissions is the static Role -> grants table.
var rolePermissions = map[string][]string{
	CanonicalRoleName(RoleAdmin):          {PermissionAll},
	CanonicalRoleName(RoleProductManager): {"products.*", "categories.*"},
	CanonicalRoleName(RoleOrderManager):   {"orders.*", "payments.*"},
	CanonicalRoleName(RoleAccount):        {"reports.*", "payments.view"},
	CanonicalRoleName(RoleShipper):        {"shipping.*", "orders.view"},
	CanonicalRoleName(RoleCustomer):       {"products.view", "orders.create", "reviews.*"},
}

// Permission joins a resource and a verb, e.g. Permission("orders", "view") == "orders.view".
func Permission(resource, verb string) string {
	return resource + "." + verb
}

// SplitPermission returns the resource and verb segments of a permission string.
func SplitPermission(permission string) (resource, verb string) {
	resource, verb, _ = strings.Cut(permission, ".")

	return resource, verb
}

// PermissionsFor returns the grants of a role. Unknown roles have none.
func PermissionsFor(roleName string) []string {
	return slices.Clone(rolePermissions[CanonicalRoleName(roleName)])
}

// RolePolicies returns every (role, grant) pair of the static table keyed by
// seeded role name.
func RolePolicies() map[string][]string {
	out := make(map[string][]string, len(rolePermissions))
	for _, role := range SeedRoles() {
		out[role.Name] = PermissionsFor(role.Name)
	}

	return out
}

// GrantCovers reports whether a single grant covers the required permission:
// the universal grant, an exact match, or "<resource>.*" for its resource.
func GrantCovers(grant, required string) bool {
	if grant == PermissionAll || grant == required {
		return true
	}

	grantResource, grantVerb := SplitPermission(grant)
	requiredResource, _ := SplitPermission(required)

	return grantVerb == VerbAny && grantResource == requiredResource
}

// RoleAllows evaluates the static table directly.
func RoleAllows(roleName, required string) bool {
	if required == "" {
		return false
	}

	for _, grant := range rolePermissions[CanonicalRoleName(roleName)] {
		if GrantCovers(grant, required) {
			return true
		}
	}

	return false
}
