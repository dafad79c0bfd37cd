package model

import (
	"encoding/json"
	"time"
)

// Audit actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ValidAction reports whether a is a known audit action.
func ValidAction(a string) bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

// Audited entities.
const (
	EntityActivity = "activity"
	EntityEmployee = "employee"
)

// ActivityLog is one immutable audit record, table activity_logs. Rows are
// only ever inserted; the sole removal path is an explicit admin clear.
type ActivityLog struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"              json:"id"`
	ActorID    string    `gorm:"type:varchar(64);not null"             json:"actorId"`
	ActorName  string    `gorm:"type:varchar(50);not null;default:''"  json:"actorName"`
	Action     string    `gorm:"type:varchar(10);not null"             json:"action"`
	Entity     string    `gorm:"type:varchar(20);not null"             json:"entity"`
	DateKey    string    `gorm:"type:varchar(10);not null;default:'';index" json:"dateKey"`
	TimeSlot   string    `gorm:"type:varchar(32);not null;default:''"  json:"timeSlot"`
	EmployeeID string    `gorm:"type:varchar(64);not null;default:'';index" json:"employeeId"`
	OldPayload *string   `gorm:"type:text"                             json:"oldPayload,omitempty"`
	NewPayload *string   `gorm:"type:text"                             json:"newPayload,omitempty"`
	IP         string    `gorm:"type:varchar(64);not null;default:''"  json:"ip"`
	UserAgent  string    `gorm:"type:varchar(255);not null;default:''" json:"userAgent"`
	CreatedAt  time.Time `gorm:"not null;index"                        json:"createdAt"`
}

// TableName table name.
func (ActivityLog) TableName() string { return "activity_logs" }

type employeePayload struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// Payload serializes an employee for the audit log.
func (e *Employee) Payload() *string {
	if e == nil {
		return nil
	}
	b, err := json.Marshal(employeePayload{Name: e.Name, Email: e.Email})
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
