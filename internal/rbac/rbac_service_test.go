package rbac

import (
	"errors"
	"testing"

	"go-leave/internal/domain"
	"go-leave/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

type failingRepo struct{}

func (failingRepo) GetRoleInheritance() ([]RoleInheritanceRow, error) {
	return nil, errors.New("policy store down")
}

func (failingRepo) GetRolePermissions() ([]RolePermissionRow, error) {
	return nil, nil
}

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer("")
	assert.NoError(t, err)

	service := NewService(NewStaticRepository(), enforcer)
	assert.NoError(t, service.LoadPolicy())
	return service
}

func TestRBACService_Enforce(t *testing.T) {
	service := newTestService(t)

	tests := []struct {
		name    string
		role    string
		action  string
		allowed bool
	}{
		{"employee can apply", domain.RoleEmployee, domain.ActionCreate, true},
		{"employee can read own", domain.RoleEmployee, domain.ActionReadOwn, true},
		{"employee cannot read all", domain.RoleEmployee, domain.ActionReadAll, false},
		{"employee cannot approve", domain.RoleEmployee, domain.ActionApprove, false},
		{"manager can approve", domain.RoleManager, domain.ActionApprove, true},
		{"manager can read all", domain.RoleManager, domain.ActionReadAll, true},
		{"manager inherits read own", domain.RoleManager, domain.ActionReadOwn, true},
		{"unknown role denied", "Contractor", domain.ActionReadOwn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := service.Enforce(domain.EnforceRequest{
				Role:     tt.role,
				Resource: domain.ResourceLeave,
				Action:   tt.action,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}

	t.Run("other resource denied", func(t *testing.T) {
		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     domain.RoleManager,
			Resource: "payroll",
			Action:   domain.ActionReadAll,
		})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})
}

func TestRBACService_LoadPolicy(t *testing.T) {
	t.Run("negative - repository error", func(t *testing.T) {
		enforcer, err := infra.NewEnforcer("")
		assert.NoError(t, err)

		service := NewService(failingRepo{}, enforcer)
		assert.Error(t, service.LoadPolicy())
	})

	t.Run("reload is idempotent", func(t *testing.T) {
		service := newTestService(t)
		assert.NoError(t, service.LoadPolicy())

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     domain.RoleEmployee,
			Resource: domain.ResourceLeave,
			Action:   domain.ActionCreate,
		})
		assert.NoError(t, err)
		assert.True(t, allowed)
	})
}
