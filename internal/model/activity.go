package model

import (
	"encoding/json"
	"time"
)

// ActivityType is the closed set of things an employee can log in a slot.
type ActivityType string

const (
	ActivityProof      ActivityType = "proof"
	ActivityEpub       ActivityType = "epub"
	ActivityCalibr     ActivityType = "calibr"
	ActivityMeeting    ActivityType = "meeting"
	ActivityBreak      ActivityType = "break"
	ActivityLunch      ActivityType = "lunch"
	ActivityLeave      ActivityType = "leave"
	ActivityPermission ActivityType = "permission"
	ActivityOther      ActivityType = "other"
)

// ActivityTypes lists every type in display order.
var ActivityTypes = []ActivityType{
	ActivityProof, ActivityEpub, ActivityCalibr, ActivityMeeting,
	ActivityBreak, ActivityLunch, ActivityLeave, ActivityPermission, ActivityOther,
}

// PageCountingTypes are the production types whose pages are totalled.
var PageCountingTypes = []ActivityType{ActivityProof, ActivityEpub, ActivityCalibr}

// Valid reports whether t is a known type.
func (t ActivityType) Valid() bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// CountsPages reports whether pages of t count towards production totals.
func (t ActivityType) CountsPages() bool {
	return t == ActivityProof || t == ActivityEpub || t == ActivityCalibr
}

// IsBreak reports whether t is a break whose description is not shown.
func (t ActivityType) IsBreak() bool {
	return t == ActivityBreak || t == ActivityLunch
}

// Activity is the entry at one (date_key, employee_id, time_slot) cell,
// table activities. The triple is unique.
type Activity struct {
	ID          uint64       `gorm:"primaryKey;autoIncrement"                                        json:"id"`
	DateKey     string       `gorm:"type:varchar(10);not null;uniqueIndex:uk_activity_cell,priority:1" json:"dateKey"`
	EmployeeID  string       `gorm:"type:varchar(64);not null;uniqueIndex:uk_activity_cell,priority:2" json:"employeeId"`
	TimeSlot    string       `gorm:"type:varchar(32);not null;uniqueIndex:uk_activity_cell,priority:3" json:"timeSlot"`
	Type        ActivityType `gorm:"column:activity_type;type:varchar(20);not null"                  json:"type"`
	Description string       `gorm:"type:varchar(1000);not null;default:''"                          json:"description"`
	TotalPages  *int         `json:"totalPages,omitempty"`
	StartPage   *int         `json:"startPage,omitempty"`
	EndPage     *int         `json:"endPage,omitempty"`
	PagesDone   *int         `json:"pagesDone,omitempty"`
	LoggedAt    time.Time    `gorm:"not null"                                                        json:"timestamp"`
	UpdatedBy   *string      `gorm:"type:varchar(64)"                                                json:"updatedBy,omitempty"`
	Timestamps

	Employee *Employee `gorm:"foreignKey:EmployeeID;references:ID" json:"-"`
}

// TableName table name.
func (Activity) TableName() string { return "activities" }

// CellKey identifies one grid cell.
type CellKey struct {
	DateKey    string
	EmployeeID string
	TimeSlot   string
}

// Key returns the cell this entry occupies.
func (a *Activity) Key() CellKey {
	return CellKey{DateKey: a.DateKey, EmployeeID: a.EmployeeID, TimeSlot: a.TimeSlot}
}

// activityPayload is the audit representation of an entry's content.
type activityPayload struct {
	Type        ActivityType `json:"type"`
	Description string       `json:"description,omitempty"`
	TotalPages  *int         `json:"totalPages,omitempty"`
	StartPage   *int         `json:"startPage,omitempty"`
	EndPage     *int         `json:"endPage,omitempty"`
	PagesDone   *int         `json:"pagesDone,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Payload serializes the entry's content for the audit log.
func (a *Activity) Payload() *string {
	if a == nil {
		return nil
	}
	b, err := json.Marshal(activityPayload{
		Type:        a.Type,
		Description: a.Description,
		TotalPages:  a.TotalPages,
		StartPage:   a.StartPage,
		EndPage:     a.EndPage,
		PagesDone:   a.PagesDone,
		Timestamp:   a.LoggedAt.UTC(),
	})
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// Reasons an entry is copied into the recycle bin.
const (
	BackupReasonOverwrite      = "overwrite"
	BackupReasonDelete         = "delete"
	BackupReasonEmployeeDelete = "employee_delete"
)

// DeletedActivity is an append-only copy of an entry taken when it was
// overwritten or removed, table deleted_activities.
type DeletedActivity struct {
	ID          uint64       `gorm:"primaryKey;autoIncrement"                       json:"id"`
	OriginalID  uint64       `gorm:"not null"                                       json:"originalId"`
	DateKey     string       `gorm:"type:varchar(10);not null;index"                json:"dateKey"`
	EmployeeID  string       `gorm:"type:varchar(64);not null;index"                json:"employeeId"`
	TimeSlot    string       `gorm:"type:varchar(32);not null"                      json:"timeSlot"`
	Type        ActivityType `gorm:"column:activity_type;type:varchar(20);not null" json:"type"`
	Description string       `gorm:"type:varchar(1000);not null;default:''"         json:"description"`
	TotalPages  *int         `json:"totalPages,omitempty"`
	StartPage   *int         `json:"startPage,omitempty"`
	EndPage     *int         `json:"endPage,omitempty"`
	PagesDone   *int         `json:"pagesDone,omitempty"`
	LoggedAt    time.Time    `gorm:"not null"                                       json:"timestamp"`
	Reason      string       `gorm:"type:varchar(20);not null"                      json:"reason"`
	DeletedBy   *string      `gorm:"type:varchar(64)"                               json:"deletedBy,omitempty"`
	DeletedAt   time.Time    `gorm:"not null;autoCreateTime"                        json:"deletedAt"`
}

// TableName table name.
func (DeletedActivity) TableName() string { return "deleted_activities" }

// NewDeletedActivity copies a into a recycle-bin row.
func NewDeletedActivity(a *Activity, reason string, deletedBy string) *DeletedActivity {
	d := &DeletedActivity{
		OriginalID:  a.ID,
		DateKey:     a.DateKey,
		EmployeeID:  a.EmployeeID,
		TimeSlot:    a.TimeSlot,
		Type:        a.Type,
		Description: a.Description,
		TotalPages:  a.TotalPages,
		StartPage:   a.StartPage,
		EndPage:     a.EndPage,
		PagesDone:   a.PagesDone,
		LoggedAt:    a.LoggedAt,
		Reason:      reason,
	}
	if deletedBy != "" {
		d.DeletedBy = &deletedBy
	}
	return d
}

// ToActivity rebuilds the entry a backup was taken from.
func (d *DeletedActivity) ToActivity() *Activity {
	return &Activity{
		DateKey:     d.DateKey,
		EmployeeID:  d.EmployeeID,
		TimeSlot:    d.TimeSlot,
		Type:        d.Type,
		Description: d.Description,
		TotalPages:  d.TotalPages,
		StartPage:   d.StartPage,
		EndPage:     d.EndPage,
		PagesDone:   d.PagesDone,
		LoggedAt:    d.LoggedAt,
	}
}
