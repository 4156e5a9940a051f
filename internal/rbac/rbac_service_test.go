package rbac_test

import (
	"testing"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func TestEnforce_EmployeePermissions(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	allowed, err := svc.Enforce(rbac.EnforceRequest{Role: rbac.RoleEmployee, Resource: "attendance", Action: "create"})
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.Enforce(rbac.EnforceRequest{Role: rbac.RoleEmployee, Resource: "employee", Action: "delete"})
	assert.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = svc.Enforce(rbac.EnforceRequest{Role: rbac.RoleEmployee, Resource: "report", Action: "export"})
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestEnforce_AdminInheritsEmployee(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	for _, perm := range [][2]string{
		{"attendance", "create"},
		{"attendance", "read_all"},
		{"employee", "delete"},
		{"workstation", "update"},
		{"report", "export"},
	} {
		allowed, err := svc.Enforce(rbac.EnforceRequest{Role: rbac.RoleAdmin, Resource: perm[0], Action: perm[1]})
		assert.NoError(t, err)
		assert.True(t, allowed, "admin should be allowed %s:%s", perm[0], perm[1])
	}
}

func TestEnforce_UnknownRoleDeniedEverything(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	allowed, err := svc.Enforce(rbac.EnforceRequest{Role: "intern", Resource: "attendance", Action: "create"})
	assert.NoError(t, err)
	assert.False(t, allowed)
}
