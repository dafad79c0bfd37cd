package model

import "gorm.io/gorm"

// Roles. Role is the only authorization axis.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User is a login account, table users.
type User struct {
	UserID       string  `gorm:"type:varchar(64);primaryKey"                           json:"userId"`
	Username     string  `gorm:"type:varchar(50);not null;uniqueIndex:uk_users_username" json:"username"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                            json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'employee'"          json:"role"`
	EmployeeID   *string `gorm:"type:varchar(64)"                                      json:"employeeId,omitempty"`
	Timestamps

	Employee *Employee `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnDelete:SET NULL" json:"employee,omitempty"`
}

// TableName table name.
func (User) TableName() string { return "users" }

// BeforeCreate assigns a uuid primary key.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = NewID()
	}
	return nil
}

// LinkedEmployeeID returns the linked employee id or "".
func (u *User) LinkedEmployeeID() string {
	if u.EmployeeID == nil {
		return ""
	}
	return *u.EmployeeID
}
