package domain

// Roles carried in the access token.
const (
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
)

// Resources and actions the casbin policy grants.
const (
	ResourceLeave = "leave"

	ActionCreate  = "create"
	ActionReadOwn = "read_own"
	ActionReadAll = "read_all"
	ActionApprove = "approve"
)

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
