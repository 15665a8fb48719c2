package identity

// Actor is the authenticated caller as supplied by the identity collaborator.
// Vendor-side actors carry no organization or department.
type Actor struct {
	ID             string
	Role           Role
	OrganizationID string
	DepartmentID   string
}

// CanManageOverrides gates customer price override mutation.
func (a Actor) CanManageOverrides() bool {
	return a.Role.IsVendorAdmin()
}

// CanApproveDept reports whether the actor may act on a department-stage
// order belonging to the given organization and department.
func (a Actor) CanApproveDept(organizationID, departmentID string) bool {
	return a.Role == RoleCustomerDeptHead &&
		a.OrganizationID == organizationID &&
		a.DepartmentID == departmentID
}

// CanApproveHR reports whether the actor may act on an HR-stage order
// belonging to the given organization.
func (a Actor) CanApproveHR(organizationID string) bool {
	return a.Role == RoleCustomerHRAdmin && a.OrganizationID == organizationID
}

// CanView reports whether the actor may read an order owned by the given
// organization. Vendor actors see every order.
func (a Actor) CanView(organizationID string) bool {
	if a.Role.IsVendor() {
		return true
	}
	return a.OrganizationID == organizationID
}
