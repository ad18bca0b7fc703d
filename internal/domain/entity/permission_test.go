package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAllows_AdminHoldsEveryPermission(t *testing.T) {
	resources := []string{ResourceProducts, ResourceOrders, ResourceUsers, "anything"}
	verbs := []string{VerbView, VerbCreate, VerbUpdate, VerbDelete, "approve"}

	for _, resource := range resources {
		for _, verb := range verbs {
			assert.True(t, RoleAllows(RoleAdmin, Permission(resource, verb)))
		}
	}
}

func TestRoleAllows_NonWildcardResourcesOnlyExplicitVerbs(t *testing.T) {
	// Customer holds products.view and orders.create but no wildcard on either.
	assert.True(t, RoleAllows(RoleCustomer, "products.view"))
	assert.False(t, RoleAllows(RoleCustomer, "products.create"))
	assert.False(t, RoleAllows(RoleCustomer, "products.update"))
	assert.False(t, RoleAllows(RoleCustomer, "products.delete"))

	assert.True(t, RoleAllows(RoleCustomer, "orders.create"))
	assert.False(t, RoleAllows(RoleCustomer, "orders.view"))

	for _, verb := range []string{VerbView, VerbCreate, VerbUpdate, VerbDelete} {
		assert.True(t, RoleAllows(RoleCustomer, Permission(ResourceReviews, verb)))
		assert.False(t, RoleAllows(RoleCustomer, Permission(ResourcePayments, verb)))
	}
}

func TestRoleAllows_UnknownRoleAuthorizesNothing(t *testing.T) {
	assert.False(t, RoleAllows("Intruder", "products.view"))
	assert.False(t, RoleAllows("", "products.view"))
	assert.False(t, RoleAllows(RoleAdmin, ""))
}

func TestGrantCovers(t *testing.T) {
	assert.True(t, GrantCovers("all", "orders.delete"))
	assert.True(t, GrantCovers("orders.*", "orders.delete"))
	assert.True(t, GrantCovers("orders.view", "orders.view"))
	assert.False(t, GrantCovers("orders.view", "orders.update"))
	assert.False(t, GrantCovers("orders.*", "ordersx.view"))
	assert.False(t, GrantCovers("reviews.*", "all"))
}

func TestPermissionsFor(t *testing.T) {
	assert.Equal(t, []string{"all"}, PermissionsFor(RoleAdmin))
	assert.ElementsMatch(t, []string{"products.*", "categories.*"}, PermissionsFor("ProductManager"))
	assert.ElementsMatch(t, []string{"orders.*", "payments.*"}, PermissionsFor("order manager"))
	assert.Nil(t, PermissionsFor("Guest"))

	grants := PermissionsFor(RoleAdmin)
	grants[0] = "tampered"
	assert.Equal(t, []string{"all"}, PermissionsFor(RoleAdmin))
}

func TestRolePolicies_CoverEverySeededRole(t *testing.T) {
	policies := RolePolicies()

	for _, role := range SeedRoles() {
		assert.NotEmpty(t, policies[role.Name], role.Name)
	}
}

func TestSameRole(t *testing.T) {
	assert.True(t, SameRole("Product Manager", "ProductManager"))
	assert.True(t, SameRole("order_manager", "Order Manager"))
	assert.False(t, SameRole("", ""))
	assert.False(t, SameRole("Admin", "Customer"))
}
