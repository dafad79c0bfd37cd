package dto

// UpsertEmployeeRequest creates an employee, or renames one when ID exists.
type UpsertEmployeeRequest struct {
	ID    string  `json:"id"    binding:"omitempty,max=64"`
	Name  string  `json:"name"  binding:"required,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
}
