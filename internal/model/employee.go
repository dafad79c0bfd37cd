package model

import "gorm.io/gorm"

// Employee is a person whose day is tracked, table employees.
type Employee struct {
	ID    string  `gorm:"type:varchar(64);primaryKey"          json:"id"`
	Name  string  `gorm:"type:varchar(100);not null;uniqueIndex:uk_employees_name" json:"name"`
	Email *string `gorm:"type:varchar(255)"                    json:"email,omitempty"`
	Timestamps
}

// TableName table name.
func (Employee) TableName() string { return "employees" }

// BeforeCreate assigns an id when the caller did not supply one.
func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	return nil
}
