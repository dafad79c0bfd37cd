package dto

import (
	"time"

	"print-timesheet/internal/model"
)

// ── Grid entries ──

// UpsertActivityRequest writes one grid cell.
type UpsertActivityRequest struct {
	DateKey     string             `json:"dateKey"     binding:"required,datetime=2006-01-02"`
	EmployeeID  string             `json:"employeeId"  binding:"required,max=64"`
	TimeSlot    string             `json:"timeSlot"    binding:"required,max=32"`
	Type        model.ActivityType `json:"type"        binding:"required"`
	Description string             `json:"description" binding:"max=1000"`
	TotalPages  *int               `json:"totalPages"  binding:"omitempty,min=0"`
	PagesDone   *int               `json:"pagesDone"   binding:"omitempty,min=0"`
	StartPage   *int               `json:"startPage"   binding:"omitempty,min=0"`
	EndPage     *int               `json:"endPage"     binding:"omitempty,min=0"`
	Timestamp   *time.Time         `json:"timestamp"`
}

// DeleteActivityRequest identifies the cell to clear.
type DeleteActivityRequest struct {
	DateKey    string `json:"dateKey"    binding:"required,datetime=2006-01-02"`
	EmployeeID string `json:"employeeId" binding:"required,max=64"`
	TimeSlot   string `json:"timeSlot"   binding:"required,max=32"`
}

// GridQuery GET /activities parameters.
type GridQuery struct {
	DateKey string `form:"dateKey" binding:"required,datetime=2006-01-02"`
}

// Grid is a day's entries keyed dateKey → employeeId → timeSlot.
type Grid map[string]map[string]map[string]*model.Activity

// ── Recycle bin ──

// DeletedActivityListRequest recycle-bin listing filter.
type DeletedActivityListRequest struct {
	PaginationRequest
	DateKey    string `form:"dateKey"    binding:"omitempty,datetime=2006-01-02"`
	EmployeeID string `form:"employeeId" binding:"omitempty,max=64"`
}
