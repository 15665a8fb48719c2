package identity

// Role is the closed set of caller roles known to the system.
type Role string

const (
	RoleVendorSuperadmin Role = "vendor_superadmin"
	RoleVendorAdmin      Role = "vendor_admin"
	RoleVendorNormal     Role = "vendor_normal"
	RoleCustomerHRAdmin  Role = "customer_hr_admin"
	RoleCustomerDeptHead Role = "customer_dept_head"
	RoleCustomerEmployee Role = "customer_employee"
)

var validRoles = map[Role]bool{
	RoleVendorSuperadmin: true,
	RoleVendorAdmin:      true,
	RoleVendorNormal:     true,
	RoleCustomerHRAdmin:  true,
	RoleCustomerDeptHead: true,
	RoleCustomerEmployee: true,
}

func (r Role) Valid() bool {
	return validRoles[r]
}

// IsVendor reports whether the role belongs to the vendor side, any tier.
func (r Role) IsVendor() bool {
	return r == RoleVendorSuperadmin || r == RoleVendorAdmin || r == RoleVendorNormal
}

// IsVendorAdmin reports whether the role may approve dispatch and manage
// customer price overrides.
func (r Role) IsVendorAdmin() bool {
	return r == RoleVendorSuperadmin || r == RoleVendorAdmin
}

func (r Role) IsCustomer() bool {
	return r == RoleCustomerHRAdmin || r == RoleCustomerDeptHead || r == RoleCustomerEmployee
}
