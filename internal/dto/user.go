package dto

// ── Users ──

// CreateUserRequest admin creates a login account.
type CreateUserRequest struct {
	Username   string  `json:"username"   binding:"required,min=3,max=50"`
	Password   string  `json:"password"   binding:"required,min=8,max=72"`
	Role       string  `json:"role"       binding:"required,oneof=admin employee"`
	EmployeeID *string `json:"employeeId" binding:"omitempty,max=64"`
}

// UserListRequest user list query.
type UserListRequest struct {
	PaginationRequest
}
