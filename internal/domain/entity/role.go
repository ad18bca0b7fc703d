package entity

import "strings"

// Role is a named bundle of permission grants. Roles are seeded at
// initialization and effectively immutable at runtime.
type Role struct {
	ID          uint
	Name        string
	Description string
}

// Seeded role names.
const (
	RoleAdmin          = "Admin"
	RoleProductManager = "Product Manager"
	RoleOrderManager   = "Order Manager"
	RoleAccount        = "Account"
	RoleShipper        = "Shipper"
	RoleCustomer       = "Customer"
)

// Seeded role ids.
const (
	RoleIDAdmin uint = iota + 1
	RoleIDProductManager
	RoleIDOrderManager
	RoleIDAccount
	RoleIDShipper
	RoleIDCustomer
)

// SeedRoles returns the fixed role enumeration in id order.
func SeedRoles() []Role {
	return []Role{
		{ID: RoleIDAdmin, Name: RoleAdmin, Description: "Full access to every resource"},
		{ID: RoleIDProductManager, Name: RoleProductManager, Description: "Manages products and categories"},
		{ID: RoleIDOrderManager, Name: RoleOrderManager, Description: "Manages orders and payments"},
		{ID: RoleIDAccount, Name: RoleAccount, Description: "Reads reports and payments"},
		{ID: RoleIDShipper, Name: RoleShipper, Description: "Handles shipments"},
		{ID: RoleIDCustomer, Name: RoleCustomer, Description: "Shops, orders and reviews"},
	}
}

// Permissions returns the grants derived from the role name.
func (r *Role) Permissions() []string {
	return PermissionsFor(r.Name)
}

// CanonicalRoleName folds "Product Manager", "ProductManager" and
// "product_manager" onto the same key.
func CanonicalRoleName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// SameRole reports whether two role names denote the same role.
func SameRole(a, b string) bool {
	return a != "" && CanonicalRoleName(a) == CanonicalRoleName(b)
}
