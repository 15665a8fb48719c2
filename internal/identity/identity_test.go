package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePredicates(t *testing.T) {
	assert.True(t, RoleVendorSuperadmin.IsVendor())
	assert.True(t, RoleVendorAdmin.IsVendor())
	assert.True(t, RoleVendorNormal.IsVendor())
	assert.False(t, RoleCustomerEmployee.IsVendor())

	assert.True(t, RoleVendorSuperadmin.IsVendorAdmin())
	assert.True(t, RoleVendorAdmin.IsVendorAdmin())
	assert.False(t, RoleVendorNormal.IsVendorAdmin())

	assert.True(t, RoleCustomerHRAdmin.IsCustomer())
	assert.True(t, RoleCustomerDeptHead.IsCustomer())
	assert.True(t, RoleCustomerEmployee.IsCustomer())
	assert.False(t, RoleVendorNormal.IsCustomer())

	assert.True(t, RoleCustomerEmployee.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestActorGates(t *testing.T) {
	deptHead := Actor{ID: "u1", Role: RoleCustomerDeptHead, OrganizationID: "org-a", DepartmentID: "dept-1"}
	hrAdmin := Actor{ID: "u2", Role: RoleCustomerHRAdmin, OrganizationID: "org-a"}
	vendorAdmin := Actor{ID: "v1", Role: RoleVendorAdmin}
	employee := Actor{ID: "u3", Role: RoleCustomerEmployee, OrganizationID: "org-a", DepartmentID: "dept-1"}

	assert.True(t, deptHead.CanApproveDept("org-a", "dept-1"))
	assert.False(t, deptHead.CanApproveDept("org-b", "dept-1"))
	assert.False(t, deptHead.CanApproveDept("org-a", "dept-2"))
	assert.False(t, employee.CanApproveDept("org-a", "dept-1"))

	assert.True(t, hrAdmin.CanApproveHR("org-a"))
	assert.False(t, hrAdmin.CanApproveHR("org-b"))
	assert.False(t, deptHead.CanApproveHR("org-a"))

	assert.True(t, vendorAdmin.CanManageOverrides())
	assert.False(t, hrAdmin.CanManageOverrides())

	assert.True(t, vendorAdmin.CanView("org-a"))
	assert.True(t, employee.CanView("org-a"))
	assert.False(t, employee.CanView("org-b"))
}

func TestActorContextRoundTrip(t *testing.T) {
	actor := Actor{ID: "u1", Role: RoleCustomerEmployee, OrganizationID: "org-a"}

	ctx := SetActorContext(context.Background(), actor)
	got, ok := ActorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, actor, got)

	_, ok = ActorFromContext(context.Background())
	assert.False(t, ok)
}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	valid := Claims{
		ActorID:        "u1",
		Role:           string(RoleCustomerDeptHead),
		OrganizationID: "org-a",
		DepartmentID:   "dept-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("Valid", func(t *testing.T) {
		actor, err := ParseToken(signToken(t, "test-secret", valid))
		require.NoError(t, err)
		assert.Equal(t, "u1", actor.ID)
		assert.Equal(t, RoleCustomerDeptHead, actor.Role)
		assert.Equal(t, "org-a", actor.OrganizationID)
		assert.Equal(t, "dept-1", actor.DepartmentID)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := ParseToken(signToken(t, "other-secret", valid))
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := valid
		expired.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := ParseToken(signToken(t, "test-secret", expired))
		assert.Error(t, err)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		bad := valid
		bad.Role = "superuser"
		_, err := ParseToken(signToken(t, "test-secret", bad))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("MissingActorID", func(t *testing.T) {
		bad := valid
		bad.ActorID = ""
		_, err := ParseToken(signToken(t, "test-secret", bad))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParseToken("not-a-token")
		assert.Error(t, err)
	})
}
