package handler

import (
	"print-timesheet/config"
	"print-timesheet/internal/service"
)

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Employee    *EmployeeHandler
	Activity    *ActivityHandler
	Recycle     *RecycleHandler
	ActivityLog *ActivityLogHandler
	Export      *ExportHandler
	TimeSlot    *TimeSlotHandler
}

// NewHandler wires handlers to services.
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, cfg.Auth),
		User:        NewUserHandler(svc.User),
		Employee:    NewEmployeeHandler(svc.Employee),
		Activity:    NewActivityHandler(svc.Activity),
		Recycle:     NewRecycleHandler(svc.Activity),
		ActivityLog: NewActivityLogHandler(svc.ActivityLog),
		Export:      NewExportHandler(svc.Export),
		TimeSlot:    NewTimeSlotHandler(cfg.Timesheet.TimeSlots),
	}
}
