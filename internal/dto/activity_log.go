package dto

import "encoding/json"

// AppendActivityLogRequest client-submitted audit record. Actor, caller
// metadata and time are filled in by the server.
type AppendActivityLogRequest struct {
	Action     string          `json:"action"     binding:"required,oneof=create update delete"`
	Entity     string          `json:"entity"     binding:"omitempty,oneof=activity employee"`
	DateKey    string          `json:"dateKey"    binding:"omitempty,datetime=2006-01-02"`
	TimeSlot   string          `json:"timeSlot"   binding:"omitempty,max=32"`
	EmployeeID string          `json:"employeeId" binding:"omitempty,max=64"`
	OldPayload json.RawMessage `json:"oldPayload"`
	NewPayload json.RawMessage `json:"newPayload"`
}

// ActivityLogQuery history query. Limit, when set, returns the newest
// Limit records and takes precedence over page/pageSize.
type ActivityLogQuery struct {
	PaginationRequest
	Limit      int    `form:"limit"      binding:"omitempty,min=1,max=1000"`
	From       string `form:"from"       binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"         binding:"omitempty,datetime=2006-01-02"`
	EmployeeID string `form:"employeeId" binding:"omitempty,max=64"`
	Action     string `form:"action"     binding:"omitempty,oneof=create update delete"`
	Entity     string `form:"entity"     binding:"omitempty,oneof=activity employee"`
}
