package rbac

import "go-leave/internal/domain"

type RoleInheritanceRow struct {
	Role       string
	ParentRole string
}

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

// Repository supplies the policy the enforcer is loaded with.
type Repository interface {
	GetRoleInheritance() ([]RoleInheritanceRow, error)
	GetRolePermissions() ([]RolePermissionRow, error)
}

type staticRepository struct{}

// NewStaticRepository serves the fixed leave policy: employees apply and read
// their own requests, managers additionally read everything and review.
func NewStaticRepository() Repository {
	return staticRepository{}
}

func (staticRepository) GetRoleInheritance() ([]RoleInheritanceRow, error) {
	return []RoleInheritanceRow{
		{Role: domain.RoleManager, ParentRole: domain.RoleEmployee},
	}, nil
}

func (staticRepository) GetRolePermissions() ([]RolePermissionRow, error) {
	return []RolePermissionRow{
		{Role: domain.RoleEmployee, Resource: domain.ResourceLeave, Action: domain.ActionCreate},
		{Role: domain.RoleEmployee, Resource: domain.ResourceLeave, Action: domain.ActionReadOwn},
		{Role: domain.RoleManager, Resource: domain.ResourceLeave, Action: domain.ActionReadAll},
		{Role: domain.RoleManager, Resource: domain.ResourceLeave, Action: domain.ActionApprove},
	}, nil
}
