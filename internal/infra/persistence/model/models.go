// Package model holds the GORM persistence models.
package model

// All lists every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&RoleModel{},
		&UserModel{},
		&CategoryModel{},
		&ProductModel{},
		&ProductVariantModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PaymentModel{},
		&ShippingModel{},
		&ReviewModel{},
		&ComplaintModel{},
	}
}
