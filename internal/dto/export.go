package dto

// ExportQuery GET /export parameters.
type ExportQuery struct {
	DateKey string `form:"dateKey" binding:"required,datetime=2006-01-02"`
}

// CalendarQuery GET /export/calendar parameters. EmployeeID defaults to the
// caller's linked employee.
type CalendarQuery struct {
	EmployeeID string `form:"employeeId" binding:"omitempty,max=64"`
	From       string `form:"from"       binding:"required,datetime=2006-01-02"`
	To         string `form:"to"         binding:"required,datetime=2006-01-02"`
}
