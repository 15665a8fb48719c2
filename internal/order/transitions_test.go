package order

import (
	"testing"

	"procurehub-be/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_LegalGraph(t *testing.T) {
	cases := []struct {
		from   Status
		action Action
		to     Status
	}{
		{StatusPendingDept, ActionApproveDept, StatusPendingHR},
		{StatusPendingDept, ActionRejectDept, StatusRejected},
		{StatusPendingHR, ActionApproveHR, StatusApproved},
		{StatusPendingHR, ActionRejectHR, StatusRejected},
		{StatusApproved, ActionMarkPacked, StatusPacked},
		{StatusPacked, ActionApproveDispatch, StatusReadyForDispatch},
		{StatusPacked, ActionRejectDispatch, StatusApproved},
		{StatusReadyForDispatch, ActionDispatch, StatusDispatched},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"/"+string(tc.action), func(t *testing.T) {
			next, err := nextStatus(tc.from, tc.action)
			require.NoError(t, err)
			assert.Equal(t, tc.to, next)
		})
	}
}

func TestNextStatus_EverythingElseIsInvalid(t *testing.T) {
	legal := map[Status]map[Action]bool{
		StatusPendingDept:      {ActionApproveDept: true, ActionRejectDept: true},
		StatusPendingHR:        {ActionApproveHR: true, ActionRejectHR: true},
		StatusApproved:         {ActionMarkPacked: true},
		StatusPacked:           {ActionApproveDispatch: true, ActionRejectDispatch: true},
		StatusReadyForDispatch: {ActionDispatch: true},
	}

	statuses := []Status{
		StatusDraft, StatusPendingDept, StatusPendingHR, StatusApproved,
		StatusPacked, StatusReadyForDispatch, StatusDispatched, StatusRejected,
	}
	actions := []Action{
		ActionApproveDept, ActionRejectDept, ActionApproveHR, ActionRejectHR,
		ActionMarkPacked, ActionApproveDispatch, ActionRejectDispatch, ActionDispatch,
	}

	for _, s := range statuses {
		for _, a := range actions {
			if legal[s][a] {
				continue
			}
			t.Run(string(s)+"/"+string(a), func(t *testing.T) {
				next, err := nextStatus(s, a)
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, s, next, "status must be unchanged on invalid transition")
			})
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusDispatched.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, StatusPendingDept.Terminal())
}

func TestInitialStatus(t *testing.T) {
	t.Run("Employee", func(t *testing.T) {
		status, auto, err := initialStatus(identity.RoleCustomerEmployee)
		require.NoError(t, err)
		assert.Equal(t, StatusPendingDept, status)
		assert.False(t, auto)
	})

	t.Run("DeptHead", func(t *testing.T) {
		status, auto, err := initialStatus(identity.RoleCustomerDeptHead)
		require.NoError(t, err)
		assert.Equal(t, StatusPendingHR, status)
		assert.True(t, auto)
	})

	t.Run("HRAdmin", func(t *testing.T) {
		status, auto, err := initialStatus(identity.RoleCustomerHRAdmin)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, status)
		assert.True(t, auto)
	})

	t.Run("VendorCannotCreate", func(t *testing.T) {
		_, _, err := initialStatus(identity.RoleVendorAdmin)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestAllowed_RoleAndOwnershipGates(t *testing.T) {
	dept := "dept-1"
	o := &Order{CustomerID: "org-a", DepartmentID: &dept}

	deptHead := identity.Actor{ID: "u1", Role: identity.RoleCustomerDeptHead, OrganizationID: "org-a", DepartmentID: "dept-1"}
	otherOrgHead := identity.Actor{ID: "u2", Role: identity.RoleCustomerDeptHead, OrganizationID: "org-b", DepartmentID: "dept-1"}
	otherDeptHead := identity.Actor{ID: "u3", Role: identity.RoleCustomerDeptHead, OrganizationID: "org-a", DepartmentID: "dept-2"}
	hrAdmin := identity.Actor{ID: "u4", Role: identity.RoleCustomerHRAdmin, OrganizationID: "org-a"}
	otherOrgHR := identity.Actor{ID: "u5", Role: identity.RoleCustomerHRAdmin, OrganizationID: "org-b"}
	vendorNormal := identity.Actor{ID: "v1", Role: identity.RoleVendorNormal}
	vendorAdmin := identity.Actor{ID: "v2", Role: identity.RoleVendorAdmin}
	employee := identity.Actor{ID: "u6", Role: identity.RoleCustomerEmployee, OrganizationID: "org-a", DepartmentID: "dept-1"}

	assert.True(t, allowed(deptHead, o, ActionApproveDept))
	assert.False(t, allowed(otherOrgHead, o, ActionApproveDept))
	assert.False(t, allowed(otherDeptHead, o, ActionApproveDept))
	assert.False(t, allowed(employee, o, ActionApproveDept))

	assert.True(t, allowed(hrAdmin, o, ActionApproveHR))
	assert.False(t, allowed(otherOrgHR, o, ActionApproveHR))
	assert.False(t, allowed(deptHead, o, ActionApproveHR))

	assert.True(t, allowed(vendorNormal, o, ActionMarkPacked))
	assert.True(t, allowed(vendorAdmin, o, ActionMarkPacked))
	assert.False(t, allowed(employee, o, ActionMarkPacked))

	assert.True(t, allowed(vendorAdmin, o, ActionApproveDispatch))
	assert.False(t, allowed(vendorNormal, o, ActionApproveDispatch))

	assert.True(t, allowed(vendorNormal, o, ActionDispatch))
	assert.False(t, allowed(hrAdmin, o, ActionDispatch))
}
