package service

import (
	"errors"

	"print-timesheet/internal/model"
)

// ErrForbidden is returned by every service when the role gate rejects a call.
var ErrForbidden = errors.New("permission denied")

// Actor is the authenticated caller of a service operation, plus the request
// metadata recorded in audit rows.
type Actor struct {
	UserID     string
	Username   string
	Role       string
	EmployeeID string
	IP         string
	UserAgent  string
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == model.RoleAdmin
}

// SystemActor is the actor used by offline tooling.
func SystemActor() *Actor {
	return &Actor{UserID: "system", Username: "tsctl", Role: model.RoleAdmin}
}

// audit starts an audit record attributed to the actor.
func (a *Actor) audit(entity string) *model.ActivityLog {
	return &model.ActivityLog{
		ActorID:   a.UserID,
		ActorName: a.Username,
		Entity:    entity,
		IP:        a.IP,
		UserAgent: a.UserAgent,
	}
}

// Permission is an operation the role gate decides on.
type Permission int

const (
	PermReadGrid Permission = iota
	PermWriteEntry
	PermAppendLog
	PermReadCalendar
	PermManageEmployees
	PermReadLog
	PermClearLog
	PermExportGrid
	PermRecycleBin
	PermManageUsers
)

// Authorize is the role gate. Admins may do anything. Employees may read the
// grid, and may write entries, append audit records and read the calendar
// only for the employee their account is linked to. employeeID is the
// employee the operation targets, or "" when it targets none.
func Authorize(actor *Actor, perm Permission, employeeID string) error {
	if actor == nil {
		return ErrForbidden
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role != model.RoleEmployee {
		return ErrForbidden
	}

	switch perm {
	case PermReadGrid:
		return nil
	case PermWriteEntry, PermReadCalendar:
		if actor.EmployeeID != "" && actor.EmployeeID == employeeID {
			return nil
		}
	case PermAppendLog:
		if employeeID == "" || employeeID == actor.EmployeeID {
			return nil
		}
	}
	return ErrForbidden
}
