package repository

import (
	"gorm.io/gorm"

	"print-timesheet/internal/model"
)

// Repository groups every store interface. Each implementation is backed by
// gorm, so the same code serves postgres, mysql and sqlite.
type Repository struct {
	Employee    EmployeeRepository
	User        UserRepository
	Activity    ActivityRepository
	ActivityLog ActivityLogRepository
}

// NewRepository builds the gorm-backed repositories.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Employee:    NewEmployeeRepo(db),
		User:        NewUserRepo(db),
		Activity:    NewActivityRepo(db),
		ActivityLog: NewActivityLogRepo(db),
	}
}

// Models lists every table model, in dependency order. Tests use it with
// AutoMigrate; production schemas come from the versioned migrations.
func Models() []interface{} {
	return []interface{}{
		&model.Employee{},
		&model.User{},
		&model.Activity{},
		&model.DeletedActivity{},
		&model.ActivityLog{},
	}
}
