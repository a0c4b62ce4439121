package shared

// Core platform permissions.
const (
	PermUsersView = "users.view"
	PermUsersEdit = "users.edit"

	PermRolesView = "roles.view"
	PermRolesEdit = "roles.edit"

	PermPermissionsView = "permissions.view"
)

// Master-data permissions, one view/edit pair per area.
const (
	PermGeoView = "geo.view"
	PermGeoEdit = "geo.edit"

	PermCustomersView = "customers.view"
	PermCustomersEdit = "customers.edit"

	PermSuppliersView = "suppliers.view"
	PermSuppliersEdit = "suppliers.edit"

	PermPaymentTermsView = "payment_terms.view"
	PermPaymentTermsEdit = "payment_terms.edit"

	PermItemsView = "items.view"
	PermItemsEdit = "items.edit"

	PermSectionsView = "sections.view"
	PermSectionsEdit = "sections.edit"
)

// CoreScopes lists all permissions related to the core platform.
func CoreScopes() []string {
	return []string{
		PermUsersView,
		PermUsersEdit,
		PermRolesView,
		PermRolesEdit,
		PermPermissionsView,
	}
}

// MasterdataScopes lists all master-data permissions.
func MasterdataScopes() []string {
	return []string{
		PermGeoView, PermGeoEdit,
		PermCustomersView, PermCustomersEdit,
		PermSuppliersView, PermSuppliersEdit,
		PermPaymentTermsView, PermPaymentTermsEdit,
		PermItemsView, PermItemsEdit,
		PermSectionsView, PermSectionsEdit,
	}
}
